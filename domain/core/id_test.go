package core

import (
	"testing"

	"github.com/google/uuid"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestNewIDIsUUID tests that generated IDs parse as UUIDs, which the
// snapshot stores rely on for persistence keys
func TestNewIDIsUUID(t *testing.T) {
	id := NewID()
	u, err := uuid.Parse(id.String())
	if err != nil {
		t.Fatalf("generated ID %q is not a UUID: %v", id, err)
	}
	if u.String() != id.String() {
		t.Errorf("Expected UUID %s to match ID %s", u, id)
	}
}

// TestComputeDatasetHash tests fingerprint stability and sensitivity
func TestComputeDatasetHash(t *testing.T) {
	rows := []string{"Alabama;2020;36.3", "Alaska;2020;31.9"}

	h1 := ComputeDatasetHash(rows)
	h2 := ComputeDatasetHash(rows)
	if h1 != h2 {
		t.Error("Expected identical input to produce identical hashes")
	}

	changed := ComputeDatasetHash([]string{"Alabama;2020;36.4", "Alaska;2020;31.9"})
	if h1 == changed {
		t.Error("Expected changed content to produce a different hash")
	}

	if len(h1.String()) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(h1.String()))
	}
	if len(h1.Short()) != 12 {
		t.Errorf("Expected 12-char short form, got %d", len(h1.Short()))
	}
}
