package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coyotle/smotrim-rss-proxy/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { mockDb.Close() })
	return NewWithDB(sqlx.NewDb(mockDb, "sqlmock")), mock
}

func TestGetItemSizeHit(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"size"}).AddRow(52428800)
	mock.ExpectQuery(`SELECT size FROM items WHERE id = \?`).WithArgs(int64(42)).WillReturnRows(rows)

	size, found, err := store.GetItemSize(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(52428800), size)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetItemSizeMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT size FROM items WHERE id = \?`).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"size"}))

	size, found, err := store.GetItemSize(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, size)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetItemSizeError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT size FROM items WHERE id = \?`).WithArgs(int64(42)).
		WillReturnError(errors.New("disk I/O error"))

	_, _, err := store.GetItemSize(context.Background(), 42)
	assert.Error(t, err)
}

func TestInsertItem(t *testing.T) {
	store, mock := newMockStore(t)

	rec := models.SizeRecord{
		ID:          42,
		BrandID:     57083,
		Title:       "Выпуск 1",
		Description: "Описание",
		Size:        52428800,
		Duration:    "53:11",
		Published:   "Tue, 04 Feb 2025 21:00:00 +0000",
		Image:       "https://example.com/cover.jpg",
	}

	mock.ExpectExec(`INSERT INTO items`).
		WithArgs(rec.ID, rec.BrandID, rec.Title, rec.Description, rec.Size, rec.Duration, rec.Published, rec.Image).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.InsertItem(context.Background(), rec)
	require.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestInsertItemConflictIsSilent(t *testing.T) {
	store, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING: zero rows affected is still a success.
	mock.ExpectExec(`INSERT INTO items`).
		WithArgs(int64(42), uint64(57083), "", "", uint64(1), "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.InsertItem(context.Background(), models.SizeRecord{ID: 42, BrandID: 57083, Size: 1})
	assert.NoError(t, err)
}
