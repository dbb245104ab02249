package derive

import (
	"healthdash/domain/core"
	"healthdash/domain/health"
	"healthdash/internal/dataset"
)

// Dependency declarations. A derived value recomputes exactly when one
// of its declared fields has a newer revision than the stamp taken at
// the previous compute. Columns and search appear in neither list.
var (
	currentDeps = []Field{FieldStates, FieldYear, FieldIndicator}
	trendDeps   = []Field{FieldStates, FieldIndicator}
)

// Stats counts cache behavior for one derived value.
type Stats struct {
	Hits       uint64 `json:"hits"`
	Recomputes uint64 `json:"recomputes"`
}

// memoCell remembers the revision of each declared dependency at the
// time of the last successful compute.
type memoCell struct {
	valid bool
	stamp []uint64
}

func (c *memoCell) fresh(in *Inputs, deps []Field) bool {
	if !c.valid {
		return false
	}
	for i, f := range deps {
		if c.stamp[i] != in.revs[f] {
			return false
		}
	}
	return true
}

func (c *memoCell) record(in *Inputs, deps []Field) {
	if c.stamp == nil {
		c.stamp = make([]uint64, len(deps))
	}
	for i, f := range deps {
		c.stamp[i] = in.revs[f]
	}
	c.valid = true
}

// Engine derives data slices from one session's inputs over the shared
// dataset store, caching each slice until a declared dependency moves.
type Engine struct {
	store  *dataset.Store
	inputs *Inputs

	current      memoCell
	currentRows  []health.CurrentRow
	currentStats Stats

	trend      memoCell
	trendRows  []health.TrendRow
	trendStats Stats
}

// NewEngine wires a derivation engine to a dataset store and a
// session's inputs.
func NewEngine(store *dataset.Store, inputs *Inputs) *Engine {
	return &Engine{store: store, inputs: inputs}
}

// Inputs exposes the session inputs this engine derives from.
func (e *Engine) Inputs() *Inputs {
	return e.inputs
}

// CurrentSlice returns the single-year comparison rows for the current
// selection. Cached until states, year, or indicator changes; column
// and search edits never invalidate it. A cache hit returns the
// previous slice unchanged.
func (e *Engine) CurrentSlice() ([]health.CurrentRow, error) {
	if e.current.fresh(e.inputs, currentDeps) {
		e.currentStats.Hits++
		return e.currentRows, nil
	}

	ind, ok := e.inputs.Indicator()
	if !ok {
		return nil, core.ErrIndicatorRequired
	}
	year, ok := e.inputs.Year()
	if !ok {
		return nil, core.ErrYearRequired
	}

	e.currentRows = ComputeCurrentSlice(e.store, e.inputs.states, year, ind)
	e.current.record(e.inputs, currentDeps)
	e.currentStats.Recomputes++
	return e.currentRows, nil
}

// TrendSlice returns the across-years rows for the current selection.
// Cached until states or indicator changes; the selected year plays no
// part and cannot invalidate it.
func (e *Engine) TrendSlice() ([]health.TrendRow, error) {
	if e.trend.fresh(e.inputs, trendDeps) {
		e.trendStats.Hits++
		return e.trendRows, nil
	}

	ind, ok := e.inputs.Indicator()
	if !ok {
		return nil, core.ErrIndicatorRequired
	}

	e.trendRows = ComputeTrendSlice(e.store, e.inputs.states, ind)
	e.trend.record(e.inputs, trendDeps)
	e.trendStats.Recomputes++
	return e.trendRows, nil
}

// CurrentStats reports cache counters for the comparison slice.
func (e *Engine) CurrentStats() Stats {
	return e.currentStats
}

// TrendStats reports cache counters for the trend slice.
func (e *Engine) TrendStats() Stats {
	return e.trendStats
}
