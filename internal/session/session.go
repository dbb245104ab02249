// Package session owns the per-visitor dashboard state: each session
// couples its own inputs and derivation engine to the shared dataset
// store, so no visitor's selections or cache can leak into another's.
package session

import (
	"sync"
	"time"

	"healthdash/domain/core"
	"healthdash/internal/derive"
	"healthdash/internal/tutorial"
	"healthdash/ports"
)

// Session is one visitor's dashboard state. The embedded mutex
// serializes API calls: handlers lock for the whole request, so the
// accessors below assume the lock is held and do not lock themselves.
type Session struct {
	sync.Mutex

	ID        core.ID
	CreatedAt time.Time

	lastSeenMu sync.Mutex
	lastSeen   time.Time

	engine  *derive.Engine
	guide   *tutorial.Guide
	version int
}

func newSession(engine *derive.Engine) *Session {
	now := time.Now()
	return &Session{
		ID:        core.NewID(),
		CreatedAt: now,
		lastSeen:  now,
		engine:    engine,
		guide:     tutorial.NewGuide(),
	}
}

// Engine returns the session's derivation engine.
func (s *Session) Engine() *derive.Engine {
	return s.engine
}

// Inputs returns the session's selection state.
func (s *Session) Inputs() *derive.Inputs {
	return s.engine.Inputs()
}

// Guide returns the session's tutorial position.
func (s *Session) Guide() *tutorial.Guide {
	return s.guide
}

// NextVersion increments and returns the snapshot version for the
// next persisted save.
func (s *Session) NextVersion() int {
	s.version++
	return s.version
}

// Version returns the latest persisted snapshot version.
func (s *Session) Version() int {
	return s.version
}

// Selection captures the current inputs and tutorial position in
// their wire form.
func (s *Session) Selection() ports.SelectionState {
	in := s.engine.Inputs()
	sel := ports.SelectionState{
		States:     in.States(),
		SearchText: in.Search(),
	}
	if year, ok := in.Year(); ok {
		sel.Year = year
	}
	if ind, ok := in.Indicator(); ok {
		sel.Indicator = ind
	}
	for _, col := range in.Columns() {
		sel.TableColumns = append(sel.TableColumns, string(col))
	}
	sel.TutorialStep = s.guide.StepIndex()
	return sel
}

// RestoreSelection replays a persisted selection into the session.
// Invalid indicators or columns abort the restore untouched.
func (s *Session) RestoreSelection(sel ports.SelectionState) error {
	columns := make([]derive.Column, 0, len(sel.TableColumns))
	for _, raw := range sel.TableColumns {
		col, err := derive.ParseColumn(raw)
		if err != nil {
			return err
		}
		columns = append(columns, col)
	}
	if sel.Indicator != "" && !sel.Indicator.Valid() {
		return core.NewUnknownIndicatorError(string(sel.Indicator))
	}

	in := s.engine.Inputs()
	in.SetStates(sel.States)
	if sel.Year != 0 {
		in.SetYear(sel.Year)
	}
	if sel.Indicator != "" {
		if err := in.SetIndicator(sel.Indicator); err != nil {
			return err
		}
	}
	if len(columns) > 0 {
		if err := in.SetColumns(columns); err != nil {
			return err
		}
	}
	in.SetSearch(sel.SearchText)
	s.guide.Seek(sel.TutorialStep)
	return nil
}

// Touch records activity. Called by the manager on lookup, before the
// request takes the session lock.
func (s *Session) Touch() {
	s.lastSeenMu.Lock()
	s.lastSeen = time.Now()
	s.lastSeenMu.Unlock()
}

// LastSeen returns the time of the most recent lookup.
func (s *Session) LastSeen() time.Time {
	s.lastSeenMu.Lock()
	defer s.lastSeenMu.Unlock()
	return s.lastSeen
}
