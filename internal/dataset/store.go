package dataset

import (
	"sort"
	"sync"

	"healthdash/domain/core"
	"healthdash/domain/health"
)

// Store holds the cleaned health survey in memory. It is built once at
// startup and never mutated afterwards, so sessions share it without
// locking.
type Store struct {
	rows    []health.Observation
	index   map[stateYear]int // first matching row per (state, year)
	byState map[string][]int  // row indices per state, source order
	states  []string          // distinct, sorted
	years   []int             // distinct, ascending
	report  LoadReport

	profileOnce sync.Once
	profiles    map[health.Indicator]IndicatorProfile
}

type stateYear struct {
	state string
	year  int
}

// LoadReport records what happened while building the store
type LoadReport struct {
	SourceRows int                      `json:"source_rows"`
	Loaded     int                      `json:"loaded"`
	Skipped    int                      `json:"skipped"`
	Shadowed   int                      `json:"shadowed"` // duplicate (state, year) rows behind the first
	Missing    map[health.Indicator]int `json:"missing"`  // cells that failed cleaning, per indicator
	Hash       core.DatasetHash         `json:"hash"`
}

// Rows returns the cleaned observations in source order, shadowed
// duplicates included.
func (s *Store) Rows() []health.Observation {
	return s.rows
}

// States returns the distinct state names, sorted
func (s *Store) States() []string {
	return s.states
}

// Years returns the distinct years, ascending
func (s *Store) Years() []int {
	return s.years
}

// MaxYear returns the latest year in the dataset
func (s *Store) MaxYear() int {
	if len(s.years) == 0 {
		return 0
	}
	return s.years[len(s.years)-1]
}

// HasState reports whether the dataset contains the state
func (s *Store) HasState(state string) bool {
	_, ok := s.byState[state]
	return ok
}

// Value returns the indicator cell of the first row matching (state,
// year) in source order. Rows shadowed by an earlier duplicate are
// unreachable here.
func (s *Store) Value(state string, year int, ind health.Indicator) health.Value {
	i, ok := s.index[stateYear{state: state, year: year}]
	if !ok {
		return health.NoValue()
	}
	return s.rows[i].Value(ind)
}

// Series returns one state's (year, value) points for an indicator,
// ascending by year. Cells without a value are dropped; duplicate years
// resolve to the first row in source order.
func (s *Store) Series(state string, ind health.Indicator) []health.YearValue {
	indices, ok := s.byState[state]
	if !ok {
		return nil
	}

	seen := make(map[int]bool, len(indices))
	points := make([]health.YearValue, 0, len(indices))
	for _, i := range indices {
		row := s.rows[i]
		if seen[row.Year] {
			continue
		}
		seen[row.Year] = true
		if v := row.Value(ind); v.Valid {
			points = append(points, health.YearValue{Year: row.Year, Value: v.Float64})
		}
	}

	sort.Slice(points, func(a, b int) bool { return points[a].Year < points[b].Year })
	return points
}

// Report returns the load report
func (s *Store) Report() LoadReport {
	return s.report
}

// Hash returns the content fingerprint of the loaded dataset
func (s *Store) Hash() core.DatasetHash {
	return s.report.Hash
}
