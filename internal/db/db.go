package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // the database driver

	"github.com/coyotle/smotrim-rss-proxy/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY,
	brand_id INTEGER,
	title TEXT,
	description TEXT,
	size INTEGER,
	duration TEXT,
	published TEXT,
	image TEXT
)`

// Store is the persistent episode size store. It remembers the media byte
// size of every episode ever probed so the CDN is asked about each one at
// most once.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the sqlite database at path and makes
// sure the items table exists.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite serializes writes through a single connection.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate items table: %w", err)
	}
	return &Store{db: conn}, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(conn *sqlx.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetItemSize returns the stored media size for an episode id. found is
// false when the episode has not been resolved yet.
func (s *Store) GetItemSize(ctx context.Context, id int64) (size uint64, found bool, err error) {
	err = s.db.GetContext(ctx, &size, "SELECT size FROM items WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select item %d: %w", id, err)
	}
	return size, true, nil
}

// InsertItem persists a size record. The first write for an id wins; a
// record already present is left untouched.
func (s *Store) InsertItem(ctx context.Context, rec models.SizeRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, brand_id, title, description, size, duration, published, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.BrandID, rec.Title, rec.Description, rec.Size, rec.Duration, rec.Published, rec.Image)
	if err != nil {
		return fmt.Errorf("insert item %d: %w", rec.ID, err)
	}
	return nil
}
