package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"course-portal/internal/storage"
)

const createCollectionsTable = `
CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// CollectionRepository stores each collection document as one row.
type CollectionRepository struct {
	db *sql.DB
}

func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}
	return nil
}

func (r *CollectionRepository) Get(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `
SELECT data
FROM collections
WHERE name = ?`,
		name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("select %s: %w", name, storage.ErrCollectionNotFound)
		}
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	return []byte(data), nil
}

func (r *CollectionRepository) Set(ctx context.Context, name string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO collections (name, data, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	data = excluded.data,
	updated_at = excluded.updated_at`,
		name,
		string(data),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}

// UpdatedAt reports when the named collection was last written.
func (r *CollectionRepository) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `
SELECT updated_at
FROM collections
WHERE name = ?`,
		name,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("select %s: %w", name, storage.ErrCollectionNotFound)
		}
		return time.Time{}, fmt.Errorf("select %s: %w", name, err)
	}
	return updatedAt, nil
}

var _ storage.Backend = (*CollectionRepository)(nil)
