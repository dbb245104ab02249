// Package derive holds the per-session selection state and the
// derivation engine that memoizes data slices computed from it.
//
// Every input field carries its own revision counter. Derived values
// declare up front which fields they read; the engine compares the
// declared fields' revisions against the stamp taken at the previous
// compute to decide between returning the cached slice and
// recomputing. Fields outside a derived value's declaration can never
// invalidate it.
package derive

import (
	"sort"
	"strings"

	"healthdash/domain/core"
	"healthdash/domain/health"
)

// Field identifies one mutable input of the dashboard selection.
type Field int

const (
	FieldStates Field = iota
	FieldYear
	FieldIndicator
	FieldColumns
	FieldSearch

	numFields
)

// Column identifies a data table column.
type Column string

const (
	ColumnState  Column = "state"
	ColumnYear   Column = "year"
	ColumnValue  Column = "value"
	ColumnRegion Column = "region"
	ColumnRank   Column = "rank"
)

// DefaultStates is the selection a fresh session starts with.
var DefaultStates = []string{"Alabama"}

// DefaultColumns returns the table columns a fresh session starts with.
func DefaultColumns() []Column {
	return []Column{ColumnState, ColumnYear, ColumnValue}
}

var knownColumns = map[Column]bool{
	ColumnState:  true,
	ColumnYear:   true,
	ColumnValue:  true,
	ColumnRegion: true,
	ColumnRank:   true,
}

// ParseColumn validates a column identifier.
func ParseColumn(s string) (Column, error) {
	col := Column(strings.ToLower(strings.TrimSpace(s)))
	if !knownColumns[col] {
		return "", core.NewUnknownColumnError(s)
	}
	return col, nil
}

// Inputs is the mutable selection state of one session. Mutators bump
// the changed field's revision counter; a write that leaves the value
// equal to what is already stored bumps nothing.
type Inputs struct {
	states    []string
	year      int
	yearSet   bool
	indicator health.Indicator
	columns   []Column
	search    string

	revs [numFields]uint64
}

// NewInputs returns session defaults: Alabama, the dataset's latest
// year, the obesity indicator, and the three-column table.
func NewInputs(maxYear int) *Inputs {
	in := &Inputs{
		states:    append([]string(nil), DefaultStates...),
		indicator: health.DefaultIndicator,
		columns:   DefaultColumns(),
	}
	if maxYear > 0 {
		in.year = maxYear
		in.yearSet = true
	}
	return in
}

// Revision reports the current revision counter of one field.
func (in *Inputs) Revision(f Field) uint64 {
	return in.revs[f]
}

// SetStates replaces the state selection. Duplicates are dropped,
// first occurrence wins, order is preserved. Returns whether the
// stored selection changed.
func (in *Inputs) SetStates(states []string) bool {
	next := dedupeStates(states)
	if sameStateSet(in.states, next) {
		return false
	}
	in.states = next
	in.revs[FieldStates]++
	return true
}

// SetYear replaces the selected year.
func (in *Inputs) SetYear(year int) bool {
	if in.yearSet && in.year == year {
		return false
	}
	in.year = year
	in.yearSet = true
	in.revs[FieldYear]++
	return true
}

// SetIndicator replaces the selected indicator.
func (in *Inputs) SetIndicator(ind health.Indicator) error {
	if !ind.Valid() {
		return core.NewUnknownIndicatorError(string(ind))
	}
	if in.indicator == ind {
		return nil
	}
	in.indicator = ind
	in.revs[FieldIndicator]++
	return nil
}

// SetColumns replaces the table column selection. Order is the user's
// display order and is preserved exactly; duplicates are dropped.
func (in *Inputs) SetColumns(cols []Column) error {
	next := make([]Column, 0, len(cols))
	seen := make(map[Column]bool, len(cols))
	for _, c := range cols {
		if !knownColumns[c] {
			return core.NewUnknownColumnError(string(c))
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		next = append(next, c)
	}
	if sameColumns(in.columns, next) {
		return nil
	}
	in.columns = next
	in.revs[FieldColumns]++
	return nil
}

// SetSearch replaces the state filter text.
func (in *Inputs) SetSearch(text string) bool {
	if in.search == text {
		return false
	}
	in.search = text
	in.revs[FieldSearch]++
	return true
}

// ToggleSelectAll flips between selecting every state in the universe
// and the default single-state selection. A full selection collapses
// to the default; anything short of full expands to the universe.
func (in *Inputs) ToggleSelectAll(universe []string) bool {
	if len(in.states) == len(universe) && sameStateSet(in.states, universe) {
		return in.SetStates(DefaultStates)
	}
	return in.SetStates(universe)
}

// FilteredStateChoices narrows the universe by the current search
// text, case-insensitive substring. An empty search or a search that
// matches nothing yields the full sorted universe so the picker never
// goes blank. Read-only; revisions are untouched.
func (in *Inputs) FilteredStateChoices(universe []string) []string {
	sorted := append([]string(nil), universe...)
	sort.Strings(sorted)

	needle := strings.ToLower(strings.TrimSpace(in.search))
	if needle == "" {
		return sorted
	}

	var matched []string
	for _, s := range sorted {
		if strings.Contains(strings.ToLower(s), needle) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return sorted
	}
	return matched
}

// States returns a copy of the current state selection.
func (in *Inputs) States() []string {
	return append([]string(nil), in.states...)
}

// Year reports the selected year and whether one has been set.
func (in *Inputs) Year() (int, bool) {
	return in.year, in.yearSet
}

// Indicator reports the selected indicator and whether one is set.
func (in *Inputs) Indicator() (health.Indicator, bool) {
	if in.indicator == "" {
		return "", false
	}
	return in.indicator, true
}

// Columns returns a copy of the current table column selection.
func (in *Inputs) Columns() []Column {
	return append([]Column(nil), in.columns...)
}

// Search returns the current state filter text.
func (in *Inputs) Search() string {
	return in.search
}

func dedupeStates(states []string) []string {
	out := make([]string, 0, len(states))
	seen := make(map[string]bool, len(states))
	for _, s := range states {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// sameStateSet compares selections as sets: reordering an unchanged
// selection is not a change.
func sameStateSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}

// sameColumns compares in order; the column list is a display order,
// so a reorder is a real change.
func sameColumns(a, b []Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
