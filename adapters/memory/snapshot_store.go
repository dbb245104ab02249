// Package memory holds selection snapshots in process memory. It
// backs deployments without a database and the test suite; snapshots
// do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthdash/ports"
)

// SnapshotStore is an in-memory ports.SelectionStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]ports.SelectionSnapshot
}

// NewSnapshotStore creates an empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[uuid.UUID]ports.SelectionSnapshot),
	}
}

// Save stores a copy of the snapshot keyed by session. The copy is
// deep: later mutations of the caller's snapshot never reach the
// store.
func (s *SnapshotStore) Save(_ context.Context, snapshot *ports.SelectionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.SessionID] = cloneSnapshot(*snapshot)
	return nil
}

// Load retrieves a session's snapshot, (nil, nil) when absent.
func (s *SnapshotStore) Load(_ context.Context, sessionID uuid.UUID) (*ports.SelectionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	snapshot = cloneSnapshot(snapshot)
	return &snapshot, nil
}

func cloneSnapshot(snapshot ports.SelectionSnapshot) ports.SelectionSnapshot {
	snapshot.Selection.States = append([]string(nil), snapshot.Selection.States...)
	snapshot.Selection.TableColumns = append([]string(nil), snapshot.Selection.TableColumns...)
	return snapshot
}

// Delete removes a session's snapshot. Missing entries are not an
// error.
func (s *SnapshotStore) Delete(_ context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}

// CleanupExpired drops snapshots not updated within maxAge.
func (s *SnapshotStore) CleanupExpired(_ context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, snapshot := range s.snapshots {
		if snapshot.LastUpdated.Before(cutoff) {
			delete(s.snapshots, id)
			deleted++
		}
	}
	return deleted, nil
}
