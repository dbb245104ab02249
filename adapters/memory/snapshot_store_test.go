package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdash/domain/health"
	"healthdash/ports"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	id := uuid.New()

	snapshot := &ports.SelectionSnapshot{
		SessionID: id,
		Selection: ports.SelectionState{
			States:       []string{"Texas", "Alaska"},
			Year:         2019,
			Indicator:    health.IndicatorSmoking,
			TableColumns: []string{"state", "value"},
			SearchText:   "a",
			TutorialStep: 1,
		},
		Version:     3,
		LastUpdated: time.Now(),
	}
	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, 3, loaded.Version)
	assert.Equal(t, 2019, loaded.Selection.Year)
	assert.Equal(t, health.IndicatorSmoking, loaded.Selection.Indicator)
	assert.Equal(t, []string{"Texas", "Alaska"}, loaded.Selection.States)
	assert.Equal(t, 1, loaded.Selection.TutorialStep)
}

func TestSnapshotStoreLoadAbsent(t *testing.T) {
	store := NewSnapshotStore()

	loaded, err := store.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded, "absent snapshot should load as nil")
}

func TestSnapshotStoreSaveOverwrites(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.Save(ctx, &ports.SelectionSnapshot{SessionID: id, Version: 1, LastUpdated: time.Now()}))
	require.NoError(t, store.Save(ctx, &ports.SelectionSnapshot{SessionID: id, Version: 2, LastUpdated: time.Now()}))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 2, loaded.Version, "the later save should win")
}

func TestSnapshotStoreSaveIsolatesCaller(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	id := uuid.New()

	snapshot := &ports.SelectionSnapshot{
		SessionID:   id,
		Selection:   ports.SelectionState{States: []string{"Texas"}},
		LastUpdated: time.Now(),
	}
	require.NoError(t, store.Save(ctx, snapshot))

	// Mutating the saved value after the fact must not reach the store.
	snapshot.Selection.States[0] = "Ohio"
	snapshot.Version = 99

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"Texas"}, loaded.Selection.States)
	assert.Equal(t, 0, loaded.Version)
}

func TestSnapshotStoreDelete(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.Save(ctx, &ports.SelectionSnapshot{SessionID: id, LastUpdated: time.Now()}))
	require.NoError(t, store.Delete(ctx, id))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, loaded, "snapshot should be gone after Delete")

	// Deleting again is fine.
	assert.NoError(t, store.Delete(ctx, id))
}

func TestSnapshotStoreCleanupExpired(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	stale := &ports.SelectionSnapshot{SessionID: uuid.New(), LastUpdated: time.Now().Add(-48 * time.Hour)}
	fresh := &ports.SelectionSnapshot{SessionID: uuid.New(), LastUpdated: time.Now()}
	require.NoError(t, store.Save(ctx, stale))
	require.NoError(t, store.Save(ctx, fresh))

	deleted, err := store.CleanupExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := store.Load(ctx, stale.SessionID)
	require.NoError(t, err)
	assert.Nil(t, gone, "stale snapshot should be gone")

	kept, err := store.Load(ctx, fresh.SessionID)
	require.NoError(t, err)
	assert.NotNil(t, kept, "fresh snapshot should survive")
}

var _ ports.SelectionStore = (*SnapshotStore)(nil)
