package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/easycontent/contentgen/internal/model"
)

const userColumns = "id,username,email,password_hash,is_active,is_admin,created_at,updated_at"

// UserRepo is the credential store backed by the `users` table. Username and
// email uniqueness is enforced by unique indexes; violations surface as
// ErrConflict.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u and fills in its ID and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username,email,password_hash,is_active,is_admin,created_at,updated_at) VALUES (?,?,?,?,?,?,?)",
		u.Username, strings.ToLower(u.Email), u.PasswordHash, u.IsActive, u.IsAdmin, now, now)
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
	u.ID = uint64(id)
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile changes username and email.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, username, email string) error {
	return r.exec(ctx,
		"UPDATE users SET username=?, email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		username, strings.ToLower(email), id)
}

// ToggleActive flips the active flag and returns the updated row.
func (r *UserRepo) ToggleActive(ctx context.Context, id uint64) (*model.User, error) {
	return r.toggle(ctx, "is_active", id)
}

// ToggleAdmin flips the admin flag and returns the updated row.
func (r *UserRepo) ToggleAdmin(ctx context.Context, id uint64) (*model.User, error) {
	return r.toggle(ctx, "is_admin", id)
}

// toggle negates column in the UPDATE itself, so concurrent toggles of the
// same user serialize on the row lock instead of both writing one value.
// The re-read happens in the same transaction and sees this toggle's result.
func (r *UserRepo) toggle(ctx context.Context, column string, id uint64) (u *model.User, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET "+column+" = NOT "+column+", updated_at=CURRENT_TIMESTAMP WHERE id=?", id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return scanUser(tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=?", id))
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return r.exec(ctx, "UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
}

// exec runs a single-row update. The DSN sets clientFoundRows, so zero
// affected rows means the id does not exist rather than "nothing changed".
func (r *UserRepo) exec(ctx context.Context, q string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, q, args...)
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

// Delete removes a user together with their contents and templates.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	n, err := r.DeleteMany(ctx, []uint64{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the given users and everything they own in one
// transaction and returns how many user rows were deleted.
func (r *UserRepo) DeleteMany(ctx context.Context, ids []uint64) (n int64, err error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	in := placeholders(len(ids))
	args := idArgs(ids)
	if _, err = tx.ExecContext(ctx, "DELETE FROM contents WHERE owner_id IN ("+in+")", args...); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM templates WHERE owner_id IN ("+in+")", args...); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id IN ("+in+")", args...)
	if err != nil {
		return 0, err
	}
	n, err = res.RowsAffected()
	return n, err
}
