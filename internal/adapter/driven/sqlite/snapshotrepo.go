package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo is the SQLite implementation of the SnapshotStore port interface.
// Each named blob occupies one row; Save replaces it wholesale.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a new SnapshotRepo backed by the given DB.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save stores data under name, replacing any previous blob.
func (r *SnapshotRepo) Save(ctx context.Context, name string, data []byte) error {
	const query = `
		INSERT INTO snapshots (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	if data == nil {
		data = []byte{}
	}

	_, err := r.db.Writer.ExecContext(ctx, query, name, data, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return nil
}

// Load returns the blob stored under name, or (nil, nil) if none exists.
func (r *SnapshotRepo) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT data FROM snapshots WHERE name = ?`

	var data []byte
	err := r.db.Reader.QueryRowContext(ctx, query, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return data, nil
}
