package render

import (
	"reflect"
	"testing"

	"healthdash/domain/health"
	"healthdash/internal/derive"
)

func comparisonRows() []health.CurrentRow {
	return []health.CurrentRow{
		{State: "New York", Year: 2020, Value: 26.6, Region: health.RegionNortheast, Rank: 3},
		{State: "Alabama", Year: 2020, Value: 36.3, Region: health.RegionSouth, Rank: 1},
		{State: "Texas", Year: 2020, Value: 34.8, Region: health.RegionSouth, Rank: 2},
	}
}

func TestBuildTableColumnOrderAndFormat(t *testing.T) {
	table := BuildTable(comparisonRows(), []derive.Column{derive.ColumnRank, derive.ColumnState, derive.ColumnValue})

	labels := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		labels[i] = col.Label
	}
	if !reflect.DeepEqual(labels, []string{"Rank", "State", "Value"}) {
		t.Errorf("columns = %v, user order must be preserved", labels)
	}

	// Sorted descending by value; values carry two decimals.
	want := [][]string{
		{"1", "Alabama", "36.30"},
		{"2", "Texas", "34.80"},
		{"3", "New York", "26.60"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %v, want %v", table.Rows, want)
	}
}

func TestBuildTableWithoutValueKeepsSliceOrder(t *testing.T) {
	table := BuildTable(comparisonRows(), []derive.Column{derive.ColumnState, derive.ColumnRegion})

	want := [][]string{
		{"New York", "Northeast"},
		{"Alabama", "South"},
		{"Texas", "South"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %v, want slice order %v", table.Rows, want)
	}
}

func TestBuildTableEmptyColumnsFallBack(t *testing.T) {
	table := BuildTable(comparisonRows(), nil)

	labels := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		labels[i] = col.Label
	}
	if !reflect.DeepEqual(labels, []string{"State", "Year", "Value"}) {
		t.Errorf("columns = %v, want defaults", labels)
	}
}

func TestBuildTableEmptyRows(t *testing.T) {
	table := BuildTable(nil, []derive.Column{derive.ColumnState, derive.ColumnValue})

	if len(table.Columns) != 2 {
		t.Errorf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 0 {
		t.Errorf("rows = %v, want headers only", table.Rows)
	}
}

func TestBuildStatus(t *testing.T) {
	in := derive.NewInputs(2020)
	in.SetStates([]string{"Alabama", "Texas"})

	status := BuildStatus(in)
	if status.StateCount != 2 {
		t.Errorf("StateCount = %d", status.StateCount)
	}
	if status.Year != "2020" {
		t.Errorf("Year = %q", status.Year)
	}
	if status.Indicator != "Obesity Rate" {
		t.Errorf("Indicator = %q", status.Indicator)
	}
}

func TestBuildStatusUnset(t *testing.T) {
	status := BuildStatus(&derive.Inputs{})
	if status.StateCount != 0 || status.Year != "Not selected" || status.Indicator != "Not selected" {
		t.Errorf("status = %+v", status)
	}
}
