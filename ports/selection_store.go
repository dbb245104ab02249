package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"healthdash/domain/health"
)

// SelectionState is the wire form of one session's input fields plus its
// tutorial position. It is what survives a reconnect.
type SelectionState struct {
	States       []string         `json:"states"`
	Year         int              `json:"year"`
	Indicator    health.Indicator `json:"indicator"`
	TableColumns []string         `json:"table_columns"`
	SearchText   string           `json:"search_text"`
	TutorialStep int              `json:"tutorial_step"`
}

// SelectionSnapshot is one persisted selection, versioned per session so
// stale writes can be detected.
type SelectionSnapshot struct {
	SessionID   uuid.UUID      `json:"session_id"`
	Selection   SelectionState `json:"selection"`
	Version     int            `json:"version"`
	LastUpdated time.Time      `json:"last_updated"`
}

// SelectionStore persists selection snapshots keyed by session.
// Load returns (nil, nil) when no snapshot exists for the session.
type SelectionStore interface {
	Save(ctx context.Context, snapshot *SelectionSnapshot) error
	Load(ctx context.Context, sessionID uuid.UUID) (*SelectionSnapshot, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
	CleanupExpired(ctx context.Context, maxAge time.Duration) (int64, error)
}
