// Package store persists layout documents in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"flyer-studio/internal/layout"
)

// ErrNotFound is returned when no layout exists under the requested id.
var ErrNotFound = errors.New("store: layout not found")

// Store is a handle to the layouts database.
type Store struct {
	db *sql.DB
}

// Summary is one row of the layout list.
type Summary struct {
	ID            string
	Name          string
	FlyerFileName string
	FlyerWidth    int
	FlyerHeight   int
	HasPlacements bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS layouts (
  id              TEXT PRIMARY KEY,
  name            TEXT NOT NULL,
  flyer_file_name TEXT NOT NULL DEFAULT '',
  flyer_width     INTEGER NOT NULL DEFAULT 0,
  flyer_height    INTEGER NOT NULL DEFAULT 0,
  placement_count INTEGER NOT NULL DEFAULT 0,
  document        TEXT NOT NULL,
  flyer_image     BLOB,
  created_at      DATETIME NOT NULL,
  updated_at      DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_layouts_updated ON layouts(updated_at);
	`); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts a layout keyed by its id, assigning a fresh id when the
// document has none. The document's timestamps are updated in place; an
// existing row keeps its original creation time. Returns the layout id.
func (s *Store) Save(ctx context.Context, doc *layout.Document, flyerImage []byte) (string, error) {
	if doc.ID == "" {
		doc.ID = layout.NewID()
	}
	now := time.Now().UTC()

	var createdStr string
	err := s.db.QueryRowContext(ctx, "SELECT created_at FROM layouts WHERE id = ?", doc.ID).Scan(&createdStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		doc.CreatedAt = now
	case err != nil:
		return "", err
	default:
		doc.CreatedAt = parseSQLTime(createdStr, now)
	}
	doc.UpdatedAt = now
	doc.Version = layout.CurrentVersion

	data, err := doc.Encode()
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO layouts(id, name, flyer_file_name, flyer_width, flyer_height, placement_count, document, flyer_image, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  name            = excluded.name,
  flyer_file_name = excluded.flyer_file_name,
  flyer_width     = excluded.flyer_width,
  flyer_height    = excluded.flyer_height,
  placement_count = excluded.placement_count,
  document        = excluded.document,
  flyer_image     = excluded.flyer_image,
  updated_at      = excluded.updated_at`,
		doc.ID, doc.Name, doc.Flyer.FileName, doc.Flyer.Width, doc.Flyer.Height,
		len(doc.Placements), string(data), flyerImage,
		doc.CreatedAt.Format(time.RFC3339Nano), doc.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Load returns the layout document and its stored background image bytes.
func (s *Store) Load(ctx context.Context, id string) (*layout.Document, []byte, error) {
	var data string
	var flyerImage []byte
	err := s.db.QueryRowContext(ctx, "SELECT document, flyer_image FROM layouts WHERE id = ?", id).Scan(&data, &flyerImage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	doc, err := layout.Decode([]byte(data))
	if err != nil {
		return nil, nil, err
	}
	return doc, flyerImage, nil
}

// List returns layout summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, flyer_file_name, flyer_width, flyer_height, placement_count, created_at, updated_at
FROM layouts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var placementCount int
		var createdStr, updatedStr string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.FlyerFileName, &sum.FlyerWidth, &sum.FlyerHeight,
			&placementCount, &createdStr, &updatedStr); err != nil {
			return nil, err
		}
		sum.HasPlacements = placementCount > 0
		sum.CreatedAt = parseSQLTime(createdStr, time.Time{})
		sum.UpdatedAt = parseSQLTime(updatedStr, time.Time{})
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a layout. Deleting an id that does not exist returns
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM layouts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// parseSQLTime handles the formats SQLite hands back depending on how the
// value was written.
func parseSQLTime(s string, fallback time.Time) time.Time {
	for _, format := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return fallback
}
