package session

import (
	"errors"
	"testing"
	"time"

	"healthdash/domain/core"
	"healthdash/domain/health"
	"healthdash/internal/testkit"
	"healthdash/ports"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(testkit.MustSampleStore(), time.Hour)
	t.Cleanup(m.Close)
	return m
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(t)

	s := m.Create()
	if s.ID.IsEmpty() {
		t.Fatal("session needs an id")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if !m.Remove(s.ID) {
		t.Error("Remove should report the session existed")
	}
	if m.Remove(s.ID) {
		t.Error("second Remove should report false")
	}
	if _, err := m.Get(s.ID); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("Get after Remove = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionDefaults(t *testing.T) {
	m := newTestManager(t)
	s := m.Create()

	sel := s.Selection()
	if len(sel.States) != 1 || sel.States[0] != "Alabama" {
		t.Errorf("states = %v", sel.States)
	}
	if sel.Year != 2020 {
		t.Errorf("year = %d, want the dataset's latest", sel.Year)
	}
	if sel.Indicator != health.IndicatorObesity {
		t.Errorf("indicator = %s", sel.Indicator)
	}
	if sel.TutorialStep != 0 {
		t.Errorf("tutorial step = %d", sel.TutorialStep)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newTestManager(t)
	a := m.Create()
	b := m.Create()

	// Prime both engines.
	if _, err := a.Engine().CurrentSlice(); err != nil {
		t.Fatalf("a CurrentSlice: %v", err)
	}
	if _, err := b.Engine().CurrentSlice(); err != nil {
		t.Fatalf("b CurrentSlice: %v", err)
	}

	// Interleave mutations.
	a.Inputs().SetStates([]string{"Texas", "Alaska"})
	b.Inputs().SetYear(2018)
	if err := a.Inputs().SetIndicator(health.IndicatorSmoking); err != nil {
		t.Fatalf("SetIndicator: %v", err)
	}

	aRows, err := a.Engine().CurrentSlice()
	if err != nil {
		t.Fatalf("a CurrentSlice: %v", err)
	}
	bRows, err := b.Engine().CurrentSlice()
	if err != nil {
		t.Fatalf("b CurrentSlice: %v", err)
	}

	// a: smoking 2020 for Texas+Alaska; b: obesity 2018 for Alabama.
	if len(aRows) != 2 || aRows[0].State != "Texas" || aRows[0].Value != 13.2 {
		t.Errorf("a rows = %+v", aRows)
	}
	if len(bRows) != 1 || bRows[0].State != "Alabama" || bRows[0].Value != 35.0 {
		t.Errorf("b rows = %+v", bRows)
	}

	// Counters stay per-session.
	if stats := a.Engine().CurrentStats(); stats.Recomputes != 2 {
		t.Errorf("a stats = %+v", stats)
	}
	if stats := b.Engine().CurrentStats(); stats.Recomputes != 2 {
		t.Errorf("b stats = %+v", stats)
	}
}

func TestRestoreSelection(t *testing.T) {
	m := newTestManager(t)
	s := m.Create()

	saved := ports.SelectionState{
		States:       []string{"Texas", "New York"},
		Year:         2019,
		Indicator:    health.IndicatorMentalDays,
		TableColumns: []string{"rank", "state", "value"},
		SearchText:   "ne",
		TutorialStep: 2,
	}
	if err := s.RestoreSelection(saved); err != nil {
		t.Fatalf("RestoreSelection: %v", err)
	}

	got := s.Selection()
	if len(got.States) != 2 || got.States[0] != "Texas" {
		t.Errorf("states = %v", got.States)
	}
	if got.Year != 2019 || got.Indicator != health.IndicatorMentalDays {
		t.Errorf("year/indicator = %d/%s", got.Year, got.Indicator)
	}
	if len(got.TableColumns) != 3 || got.TableColumns[0] != "rank" {
		t.Errorf("columns = %v", got.TableColumns)
	}
	if got.SearchText != "ne" || got.TutorialStep != 2 {
		t.Errorf("search/step = %q/%d", got.SearchText, got.TutorialStep)
	}
}

func TestRestoreSelectionRejectsBadInput(t *testing.T) {
	m := newTestManager(t)
	s := m.Create()

	bad := ports.SelectionState{
		States:       []string{"Texas"},
		Year:         2019,
		Indicator:    "cholesterol",
		TableColumns: []string{"state"},
	}
	if err := s.RestoreSelection(bad); err == nil {
		t.Fatal("unknown indicator should abort the restore")
	}

	// The session keeps its defaults.
	if got := s.Selection(); got.States[0] != "Alabama" || got.Year != 2020 {
		t.Errorf("selection after failed restore = %+v", got)
	}

	badCols := ports.SelectionState{TableColumns: []string{"salary"}}
	if err := s.RestoreSelection(badCols); err == nil {
		t.Fatal("unknown column should abort the restore")
	}
}

func TestCleanupIdle(t *testing.T) {
	m := newTestManager(t)
	old := m.Create()
	fresh := m.Create()

	// Age the first session past the cutoff.
	old.lastSeenMu.Lock()
	old.lastSeen = time.Now().Add(-2 * time.Hour)
	old.lastSeenMu.Unlock()

	if removed := m.CleanupIdle(time.Hour); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := m.Get(old.ID); !errors.Is(err, core.ErrSessionNotFound) {
		t.Error("idle session should be gone")
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh session should survive: %v", err)
	}
}

func TestVersionMonotonic(t *testing.T) {
	m := newTestManager(t)
	s := m.Create()

	if v := s.NextVersion(); v != 1 {
		t.Errorf("first version = %d", v)
	}
	if v := s.NextVersion(); v != 2 {
		t.Errorf("second version = %d", v)
	}
	if s.Version() != 2 {
		t.Errorf("Version() = %d", s.Version())
	}
}
