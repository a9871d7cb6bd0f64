package repository

import (
	"context"
	"database/sql"

	"github.com/easycontent/contentgen/internal/model"
)

// StatsRepo runs the aggregate queries behind the admin dashboard.
type StatsRepo struct{ db *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// topN bounds the language and tone breakdowns.
const topN = 5

// Ping checks that the database answers.
func (r *StatsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Dashboard collects user, content and template counters plus the most used
// languages and tones.
func (r *StatsRepo) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_active), 0), COALESCE(SUM(is_admin), 0) FROM users`,
	).Scan(&d.Users.Total, &d.Users.Active, &d.Users.Admins); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = 'published'), 0),
		        COALESCE(SUM(status = 'draft'), 0)
		 FROM contents`,
	).Scan(&d.Content.Total, &d.Content.Published, &d.Content.Drafts); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_default), 0) FROM templates`,
	).Scan(&d.Templates.Total, &d.Templates.Default); err != nil {
		return nil, err
	}
	d.Templates.Custom = d.Templates.Total - d.Templates.Default

	var err error
	if d.TopLanguages, err = r.topLanguages(ctx); err != nil {
		return nil, err
	}
	if d.TopTones, err = r.topTones(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *StatsRepo) topLanguages(ctx context.Context) ([]model.LanguageCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT language, COUNT(*) AS n FROM contents GROUP BY language ORDER BY n DESC, language LIMIT ?`, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.LanguageCount{}
	for rows.Next() {
		var lc model.LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

func (r *StatsRepo) topTones(ctx context.Context) ([]model.ToneCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tone, COUNT(*) AS n FROM contents GROUP BY tone ORDER BY n DESC, tone LIMIT ?`, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ToneCount{}
	for rows.Next() {
		var tc model.ToneCount
		if err := rows.Scan(&tc.Tone, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// SystemStats counts rows per table and content per status.
func (r *StatsRepo) SystemStats(ctx context.Context) (*model.SystemStats, error) {
	var s model.SystemStats
	if err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM contents),
		        (SELECT COUNT(*) FROM templates),
		        (SELECT COUNT(*) FROM contents WHERE status = 'published'),
		        (SELECT COUNT(*) FROM contents WHERE status = 'draft')`,
	).Scan(&s.Database.Users, &s.Database.Contents, &s.Database.Templates,
		&s.ContentByStatus.Published, &s.ContentByStatus.Draft); err != nil {
		return nil, err
	}
	return &s, nil
}
