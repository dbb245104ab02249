package testkit

import (
	"fmt"

	"healthdash/internal/dataset"
	"healthdash/ports"
)

// SampleTable returns a small synthetic survey covering three years of
// four states from different regions, with the survey's real quirks:
// decimal commas, percent signs, unit suffixes, and a missing cell.
// Used by tests and as the fallback data source when no file is
// configured.
func SampleTable() *ports.RawTable {
	return &ports.RawTable{
		Headers: []string{
			"State", "year",
			"Adult obesity [in %]", "Adult smoking [in %]",
			"Physically Unhealthy Days", "Mentally Unhealthy Days",
		},
		Rows: [][]string{
			{"Alabama", "2018", "35,0", "20,9%", "4.5 days", "4.3"},
			{"Alabama", "2019", "36,1", "20,2%", "4.6 days", "4.5"},
			{"Alabama", "2020", "36,3", "19,2%", "4.8 days", "4.9"},
			{"Alaska", "2018", "29,5", "21,0%", "3.9 days", "3.7"},
			{"Alaska", "2019", "30,5", "19,1%", "4.0 days", "3.9"},
			{"Alaska", "2020", "31,9", "17,4%", "4.1 days", "4.2"},
			{"Texas", "2018", "33,0", "15,7%", "3.8 days", "3.6"},
			{"Texas", "2019", "34,0", "14,4%", "3.9 days", "3.8"},
			{"Texas", "2020", "34,8", "13,2%", "4.0 days", "4.1"},
			{"New York", "2018", "25,7", "14,1%", "3.6 days", "3.7"},
			{"New York", "2019", "26,3", "13,0%", "3.7 days", "3.9"},
			{"New York", "2020", "26,6", "N/A", "3.8 days", "4.0"},
		},
	}
}

// SampleStore builds a Store from the sample table
func SampleStore() (*dataset.Store, error) {
	store, err := dataset.FromTable(SampleTable())
	if err != nil {
		return nil, fmt.Errorf("failed to build sample store: %w", err)
	}
	return store, nil
}

// MustSampleStore is SampleStore for test setup paths where a failure
// means the fixture itself is broken
func MustSampleStore() *dataset.Store {
	store, err := SampleStore()
	if err != nil {
		panic(err)
	}
	return store
}

// RankFixtureTable is the minimal competition-ranking scenario: three
// states in one year where two share the top value.
func RankFixtureTable() *ports.RawTable {
	return &ports.RawTable{
		Headers: []string{"State", "year", "Adult obesity [in %]"},
		Rows: [][]string{
			{"Arizona", "2020", "20"},
			{"Colorado", "2020", "35"},
			{"Nevada", "2020", "35"},
		},
	}
}
