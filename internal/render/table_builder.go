package render

import (
	"sort"
	"strconv"

	"healthdash/domain/health"
	"healthdash/internal/derive"
)

var columnSpecs = map[derive.Column]ColumnSpec{
	derive.ColumnState:  {Key: "state", Label: "State", Type: "text", Align: "left"},
	derive.ColumnYear:   {Key: "year", Label: "Year", Type: "number", Align: "right"},
	derive.ColumnValue:  {Key: "value", Label: "Value", Type: "number", Align: "right"},
	derive.ColumnRegion: {Key: "region", Label: "Region", Type: "text", Align: "left"},
	derive.ColumnRank:   {Key: "rank", Label: "Rank", Type: "number", Align: "right"},
}

// BuildTable renders the single-year slice with exactly the chosen
// columns in the chosen order. Values are formatted to two decimals
// here and nowhere earlier. Rows sort descending by value when the
// value column is shown; otherwise they keep slice order. An empty
// column choice falls back to the defaults.
func BuildTable(rows []health.CurrentRow, columns []derive.Column) *TableData {
	if len(columns) == 0 {
		columns = derive.DefaultColumns()
	}

	table := &TableData{
		Title:   "Data Table",
		Columns: make([]ColumnSpec, 0, len(columns)),
		Rows:    [][]string{},
	}
	for _, col := range columns {
		table.Columns = append(table.Columns, columnSpecs[col])
	}
	if len(rows) == 0 {
		return table
	}

	ordered := append([]health.CurrentRow(nil), rows...)
	if containsColumn(columns, derive.ColumnValue) {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Value > ordered[j].Value
		})
	}

	for _, row := range ordered {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, renderCell(row, col))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func containsColumn(columns []derive.Column, want derive.Column) bool {
	for _, col := range columns {
		if col == want {
			return true
		}
	}
	return false
}

func renderCell(row health.CurrentRow, col derive.Column) string {
	switch col {
	case derive.ColumnState:
		return row.State
	case derive.ColumnYear:
		return strconv.Itoa(row.Year)
	case derive.ColumnValue:
		return strconv.FormatFloat(row.Value, 'f', 2, 64)
	case derive.ColumnRegion:
		return string(row.Region)
	case derive.ColumnRank:
		return strconv.Itoa(row.Rank)
	default:
		return ""
	}
}
