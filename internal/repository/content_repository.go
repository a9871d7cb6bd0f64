package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/easycontent/contentgen/internal/model"
)

const contentColumns = "id,owner_id,template_id,title,prompt,body,language,tone,status,created_at,updated_at"

// ContentFilter narrows a content listing. A nil OwnerID lists every owner's
// content and is reserved for admin views.
type ContentFilter struct {
	OwnerID  *uint64
	Status   string
	Language string
	Page     int
	PageSize int
}

func (f ContentFilter) limitOffset() (int, int) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return size, (page - 1) * size
}

// ContentRepo persists generated content in the `contents` table.
type ContentRepo struct{ db *sql.DB }

func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

func scanContent(s rowScanner) (*model.Content, error) {
	var (
		c          model.Content
		templateID sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.OwnerID, &templateID, &c.Title, &c.Prompt, &c.Body,
		&c.Language, &c.Tone, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if templateID.Valid {
		id := uint64(templateID.Int64)
		c.TemplateID = &id
	}
	return &c, nil
}

// Create inserts c. A follow-up SELECT populates the database defaults
// (timestamps) so callers receive a complete record.
func (r *ContentRepo) Create(ctx context.Context, c *model.Content) error {
	var templateID sql.NullInt64
	if c.TemplateID != nil {
		templateID = sql.NullInt64{Int64: int64(*c.TemplateID), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contents (owner_id, template_id, title, prompt, body, language, tone, status)
		 VALUES (?,?,?,?,?,?,?,?)`,
		c.OwnerID, templateID, c.Title, c.Prompt, c.Body, c.Language, c.Tone, c.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// GetByID fetches one content record regardless of owner.
func (r *ContentRepo) GetByID(ctx context.Context, id uint64) (*model.Content, error) {
	c, err := scanContent(r.db.QueryRowContext(ctx, "SELECT "+contentColumns+" FROM contents WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns one page of content matching f, newest first, together with
// the total number of matching rows.
func (r *ContentRepo) List(ctx context.Context, f ContentFilter) ([]*model.Content, int, error) {
	var (
		where []string
		args  []any
	)
	if f.OwnerID != nil {
		where = append(where, "owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Language != "" {
		where = append(where, "language = ?")
		args = append(args, f.Language)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contents"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := f.limitOffset()
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+contentColumns+" FROM contents"+cond+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*model.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update writes the editable fields (title, body, status) of c.
func (r *ContentRepo) Update(ctx context.Context, c *model.Content) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE contents SET title = ?, body = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		c.Title, c.Body, c.Status, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one content record.
func (r *ContentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contents WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the given records and reports how many existed.
func (r *ContentRepo) DeleteMany(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM contents WHERE id IN ("+placeholders(len(ids))+")", idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
