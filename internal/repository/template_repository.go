package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/easycontent/contentgen/internal/model"
)

const templateColumns = "id,owner_id,name,category,prompt,language,is_default,created_at"

// TemplateRepo persists prompt templates in the `templates` table.
type TemplateRepo struct{ db *sql.DB }

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

func scanTemplate(s rowScanner) (*model.Template, error) {
	var (
		t       model.Template
		ownerID sql.NullInt64
	)
	if err := s.Scan(&t.ID, &ownerID, &t.Name, &t.Category, &t.Prompt, &t.Language, &t.IsDefault, &t.CreatedAt); err != nil {
		return nil, err
	}
	if ownerID.Valid {
		id := uint64(ownerID.Int64)
		t.OwnerID = &id
	}
	return &t, nil
}

func nullableID(id *uint64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

// Create inserts t and populates its id and creation time.
func (r *TemplateRepo) Create(ctx context.Context, t *model.Template) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO templates (owner_id, name, category, prompt, language, is_default) VALUES (?,?,?,?,?,?)",
		nullableID(t.OwnerID), t.Name, t.Category, t.Prompt, t.Language, t.IsDefault)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
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
	*t = *created
	return nil
}

// GetByID fetches a template regardless of owner.
func (r *TemplateRepo) GetByID(ctx context.Context, id uint64) (*model.Template, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, "SELECT "+templateColumns+" FROM templates WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListDefaults returns the system catalog.
func (r *TemplateRepo) ListDefaults(ctx context.Context) ([]*model.Template, error) {
	return r.list(ctx, "SELECT "+templateColumns+" FROM templates WHERE is_default = TRUE ORDER BY category, name, id")
}

// ListVisible returns the system catalog plus the templates owned by userID.
func (r *TemplateRepo) ListVisible(ctx context.Context, userID uint64) ([]*model.Template, error) {
	return r.list(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE is_default = TRUE OR owner_id = ? ORDER BY is_default DESC, category, name, id",
		userID)
}

// ListAll returns every template, for admin views.
func (r *TemplateRepo) ListAll(ctx context.Context) ([]*model.Template, error) {
	return r.list(ctx, "SELECT "+templateColumns+" FROM templates ORDER BY id")
}

func (r *TemplateRepo) list(ctx context.Context, q string, args ...any) ([]*model.Template, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update writes name, category, prompt and language of t.
func (r *TemplateRepo) Update(ctx context.Context, t *model.Template) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE templates SET name = ?, category = ?, prompt = ?, language = ? WHERE id = ?",
		t.Name, t.Category, t.Prompt, t.Language, t.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a template. Content generated from it keeps its text; the
// template reference is cleared in the same transaction.
func (r *TemplateRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if _, err = tx.ExecContext(ctx, "UPDATE contents SET template_id = NULL WHERE template_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}
