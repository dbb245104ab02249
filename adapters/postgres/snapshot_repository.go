// Package postgres persists selection snapshots so a browser can
// resume its dashboard after a reconnect or a server restart.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"healthdash/ports"
)

// SnapshotRepository stores selection snapshots in the
// selection_snapshots table, one row per session.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a snapshot repository over an open
// database handle.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts or updates the snapshot for its session.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *ports.SelectionSnapshot) error {
	selectionJSON, err := json.Marshal(snapshot.Selection)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	query := `
		INSERT INTO selection_snapshots (session_id, selection, version, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			selection = EXCLUDED.selection,
			version = EXCLUDED.version,
			last_updated = EXCLUDED.last_updated`

	_, err = r.db.ExecContext(ctx, query,
		snapshot.SessionID,
		selectionJSON,
		snapshot.Version,
		snapshot.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to save selection snapshot: %w", err)
	}
	return nil
}

// Load retrieves the snapshot for a session. A session that never
// saved returns (nil, nil).
func (r *SnapshotRepository) Load(ctx context.Context, sessionID uuid.UUID) (*ports.SelectionSnapshot, error) {
	query := `
		SELECT session_id, selection, version, last_updated
		FROM selection_snapshots
		WHERE session_id = $1`

	var snapshot ports.SelectionSnapshot
	var selectionJSON []byte

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&snapshot.SessionID,
		&selectionJSON,
		&snapshot.Version,
		&snapshot.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load selection snapshot: %w", err)
	}

	if err := json.Unmarshal(selectionJSON, &snapshot.Selection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}
	return &snapshot, nil
}

// Delete removes a session's snapshot. Missing rows are not an error.
func (r *SnapshotRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM selection_snapshots WHERE session_id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete selection snapshot: %w", err)
	}
	return nil
}

// CleanupExpired removes snapshots not updated within maxAge and
// returns how many rows went away.
func (r *SnapshotRepository) CleanupExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)

	query := `DELETE FROM selection_snapshots WHERE last_updated < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired snapshots: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}
