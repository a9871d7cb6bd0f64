package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easycontent/contentgen/internal/model"
)

func contentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "template_id", "title", "prompt", "body", "language", "tone", "status", "created_at", "updated_at"})
}

func TestContentRepo_CreateReadsBack(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	tpl := uint64(4)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contents")).
		WithArgs(uint64(1), sqlmock.AnyArg(), "T", "p", "b", "en", "casual", "draft").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM contents WHERE id = ?")).
		WithArgs(uint64(11)).
		WillReturnRows(contentRows().AddRow(11, 1, 4, "T", "p", "b", "en", "casual", "draft", now, now))

	c := &model.Content{OwnerID: 1, TemplateID: &tpl, Title: "T", Prompt: "p", Body: "b", Language: "en", Tone: "casual", Status: "draft"}
	require.NoError(t, NewContentRepo(db).Create(context.Background(), c))
	assert.Equal(t, uint64(11), c.ID)
	require.NotNil(t, c.TemplateID)
	assert.Equal(t, uint64(4), *c.TemplateID)
	assert.Equal(t, now, c.CreatedAt)
}

func TestContentRepo_GetByIDNullTemplate(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM contents WHERE id = ?")).
		WithArgs(uint64(2)).
		WillReturnRows(contentRows().AddRow(2, 1, nil, "T", "p", "b", "en", "professional", "published", now, now))

	c, err := NewContentRepo(db).GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, c.TemplateID)
}

func TestContentRepo_GetByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM contents WHERE id = ?")).WillReturnRows(contentRows())

	_, err := NewContentRepo(db).GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentRepo_ListFiltersAndPages(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	owner := uint64(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contents WHERE owner_id = ? AND status = ?")).
		WithArgs(owner, "draft").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_id = ? AND status = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs(owner, "draft", 10, 20).
		WillReturnRows(contentRows().AddRow(3, 1, nil, "T", "p", "b", "en", "professional", "draft", now, now))

	items, total, err := NewContentRepo(db).List(context.Background(), ContentFilter{OwnerID: &owner, Status: "draft", Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(3), items[0].ID)
}

func TestContentRepo_ListAllOwnersDefaultsPage(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contents")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM contents ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs(20, 0).
		WillReturnRows(contentRows())

	items, total, err := NewContentRepo(db).List(context.Background(), ContentFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestContentFilter_PageSizeClamped(t *testing.T) {
	limit, offset := ContentFilter{Page: 2, PageSize: 1000}.limitOffset()
	assert.Equal(t, 100, limit)
	assert.Equal(t, 100, offset)
}

func TestContentRepo_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contents SET title = ?, body = ?, status = ?")).
		WithArgs("T", "B", "draft", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewContentRepo(db).Update(context.Background(), &model.Content{ID: 9, Title: "T", Body: "B", Status: "draft"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentRepo_DeleteMany(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM contents WHERE id IN (?,?,?)")).
		WithArgs(uint64(1), uint64(2), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewContentRepo(db).DeleteMany(context.Background(), []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
