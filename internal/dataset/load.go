package dataset

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"healthdash/domain/core"
	"healthdash/domain/health"
	"healthdash/ports"
)

// Header aliases: the survey ships with bracketed labels, re-exports of
// it carry dotted R-style names. Both map to the same canonical column.
var stateHeaders = []string{"State"}
var yearHeaders = []string{"year", "Year"}

var indicatorHeaders = map[string]health.Indicator{
	"Adult obesity [in %]":      health.IndicatorObesity,
	"Adult.obesity..in...":      health.IndicatorObesity,
	"Adult smoking [in %]":      health.IndicatorSmoking,
	"Adult.smoking..in...":      health.IndicatorSmoking,
	"Physically Unhealthy Days": health.IndicatorPhysicalDays,
	"Physical.unhealthy.days":   health.IndicatorPhysicalDays,
	"Mentally Unhealthy Days":   health.IndicatorMentalDays,
	"Mental.unhealthy.days":     health.IndicatorMentalDays,
}

// FromTable builds a Store from a raw table: maps headers to canonical
// columns, cleans every indicator cell, indexes first matches, and
// fingerprints the result. Rows without a usable state or year are
// skipped and counted; indicator cells that fail cleaning degrade to
// absent values and the row stays.
func FromTable(table *ports.RawTable) (*Store, error) {
	colState, colYear, colInd, err := resolveColumns(table.Headers)
	if err != nil {
		return nil, err
	}

	store := &Store{
		index:   make(map[stateYear]int),
		byState: make(map[string][]int),
		report: LoadReport{
			SourceRows: len(table.Rows),
			Missing:    make(map[health.Indicator]int),
		},
	}

	stateSet := make(map[string]bool)
	yearSet := make(map[int]bool)

	for _, cells := range table.Rows {
		state := strings.TrimSpace(cells[colState])
		if state == "" {
			store.report.Skipped++
			continue
		}
		year, ok := parseYear(cells[colYear])
		if !ok {
			store.report.Skipped++
			continue
		}

		values := make(map[health.Indicator]health.Value, len(colInd))
		for ind, col := range colInd {
			v := health.CleanNumeric(cells[col])
			if !v.Valid {
				store.report.Missing[ind]++
			}
			values[ind] = v
		}

		i := len(store.rows)
		store.rows = append(store.rows, health.Observation{State: state, Year: year, Values: values})
		store.byState[state] = append(store.byState[state], i)

		key := stateYear{state: state, year: year}
		if _, dup := store.index[key]; dup {
			store.report.Shadowed++
		} else {
			store.index[key] = i
		}

		stateSet[state] = true
		yearSet[year] = true
	}

	if len(store.rows) == 0 {
		return nil, core.ErrEmptyDataset
	}

	store.states = make([]string, 0, len(stateSet))
	for state := range stateSet {
		store.states = append(store.states, state)
	}
	sort.Strings(store.states)

	store.years = make([]int, 0, len(yearSet))
	for year := range yearSet {
		store.years = append(store.years, year)
	}
	sort.Ints(store.years)

	store.report.Loaded = len(store.rows)
	store.report.Hash = fingerprint(store.rows)

	log.Printf("[DATA] Loaded %d rows (%d skipped, %d shadowed), %d states, years %d-%d, hash %s",
		store.report.Loaded, store.report.Skipped, store.report.Shadowed,
		len(store.states), store.years[0], store.MaxYear(), store.report.Hash.Short())

	return store, nil
}

// resolveColumns locates the canonical columns among the raw headers
func resolveColumns(headers []string) (colState, colYear int, colInd map[health.Indicator]int, err error) {
	colState, colYear = -1, -1
	colInd = make(map[health.Indicator]int)

	for i, header := range headers {
		switch {
		case matchesAny(header, stateHeaders):
			if colState < 0 {
				colState = i
			}
		case matchesAny(header, yearHeaders):
			if colYear < 0 {
				colYear = i
			}
		default:
			if ind, ok := indicatorHeaders[header]; ok {
				if _, have := colInd[ind]; !have {
					colInd[ind] = i
				}
			}
		}
	}

	if colState < 0 {
		return 0, 0, nil, core.NewMissingColumnError("State")
	}
	if colYear < 0 {
		return 0, 0, nil, core.NewMissingColumnError("year")
	}
	if len(colInd) == 0 {
		return 0, 0, nil, core.NewMissingColumnError("at least one indicator column")
	}
	return colState, colYear, colInd, nil
}

func matchesAny(header string, candidates []string) bool {
	for _, c := range candidates {
		if header == c {
			return true
		}
	}
	return false
}

// parseYear accepts plain integers plus the "2020.0" float rendering
// some spreadsheet exports produce
func parseYear(cell string) (int, bool) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false
	}
	if year, err := strconv.Atoi(trimmed); err == nil {
		return year, true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// fingerprint renders every row canonically and hashes the lot
func fingerprint(rows []health.Observation) core.DatasetHash {
	rendered := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		b.WriteString(row.State)
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(row.Year))
		for _, ind := range health.Indicators() {
			b.WriteByte(';')
			if v := row.Value(ind); v.Valid {
				b.WriteString(strconv.FormatFloat(v.Float64, 'g', -1, 64))
			}
		}
		rendered[i] = b.String()
	}
	return core.ComputeDatasetHash(rendered)
}

// Summary is a one-line description for logs and the CLI
func (s *Store) Summary() string {
	if len(s.years) == 0 {
		return "empty dataset"
	}
	return fmt.Sprintf("%d rows, %d states, years %d-%d",
		len(s.rows), len(s.states), s.years[0], s.MaxYear())
}
