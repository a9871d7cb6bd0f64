package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easycontent/contentgen/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "is_active", "is_admin", "created_at", "updated_at"})
}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "alice@example.com", "hash", true, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	u := &model.User{Username: "alice", Email: "Alice@Example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserRepo_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'uq_users_username'"})

	err := NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice", Email: "a@x.io"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepo_CreateOtherErrorPassesThrough(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock"})

	err := NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice", Email: "a@x.io"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=?")).
		WithArgs("alice").
		WillReturnRows(userRows().AddRow(3, "alice", "a@x.io", "h", true, true, now, now))

	u, err := NewUserRepo(db).GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "h", u.PasswordHash)
}

func TestUserRepo_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).
		WithArgs(uint64(99)).
		WillReturnRows(userRows())

	_, err := NewUserRepo(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_List(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id")).
		WillReturnRows(userRows().
			AddRow(1, "root", "r@x.io", "h", true, true, now, now).
			AddRow(2, "bob", "b@x.io", "h", false, false, now, now))

	users, err := NewUserRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
	assert.False(t, users[1].IsActive)
}

func TestUserRepo_ToggleAdminNegatesInPlace(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_admin = NOT is_admin, updated_at=CURRENT_TIMESTAMP WHERE id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id=?")).
		WithArgs(uint64(5)).
		WillReturnRows(userRows().AddRow(5, "eve", "eve@x.io", "h", true, true, now, now))
	mock.ExpectCommit()

	u, err := NewUserRepo(db).ToggleAdmin(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "eve", u.Username)
}

func TestUserRepo_ToggleActiveMissingRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_active = NOT is_active")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := NewUserRepo(db).ToggleActive(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_UpdateProfileConflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username=?, email=?")).
		WithArgs("bob", "bob@x.io", uint64(2)).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	err := NewUserRepo(db).UpdateProfile(context.Background(), 2, "bob", "BOB@x.io")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepo_DeleteManyRemovesOwnedRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contents WHERE owner_id IN (?,?)")).
		WithArgs(uint64(2), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM templates WHERE owner_id IN (?,?)")).
		WithArgs(uint64(2), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id IN (?,?)")).
		WithArgs(uint64(2), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := NewUserRepo(db).DeleteMany(context.Background(), []uint64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUserRepo_DeleteRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contents")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := NewUserRepo(db).Delete(context.Background(), 2)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestUserRepo_DeleteMissingUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contents")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM templates")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, NewUserRepo(db).Delete(context.Background(), 42), ErrNotFound)
}

func TestUserRepo_DeleteManyEmpty(t *testing.T) {
	db, _ := newMock(t)
	n, err := NewUserRepo(db).DeleteMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
