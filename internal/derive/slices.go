package derive

import (
	"healthdash/domain/health"
	"healthdash/internal/dataset"
)

// ComputeCurrentSlice resolves one row per selected state for the
// given year and indicator, in selection order. States whose cell is
// absent or failed cleaning are dropped before ranking, so ranks are
// dense over the rows that survive.
func ComputeCurrentSlice(store *dataset.Store, states []string, year int, ind health.Indicator) []health.CurrentRow {
	rows := make([]health.CurrentRow, 0, len(states))
	for _, state := range states {
		v := store.Value(state, year, ind)
		if !v.Valid {
			continue
		}
		rows = append(rows, health.CurrentRow{
			State:  state,
			Year:   year,
			Value:  v.Float64,
			Region: health.RegionOf(state),
		})
	}
	assignRanks(rows)
	return rows
}

// ComputeTrendSlice collects each selected state's full history for
// the indicator: rows grouped by state in selection order, years
// ascending within a state. Invalid cells never reach the slice.
func ComputeTrendSlice(store *dataset.Store, states []string, ind health.Indicator) []health.TrendRow {
	var rows []health.TrendRow
	for _, state := range states {
		for _, yv := range store.Series(state, ind) {
			rows = append(rows, health.TrendRow{State: state, Year: yv.Year, Value: yv.Value})
		}
	}
	return rows
}

// assignRanks writes descending competition ranks: a row's rank is one
// plus the count of rows with strictly greater value, so ties share a
// rank and the positions behind a tie are skipped. Quadratic, but the
// slice is bounded by the state universe.
func assignRanks(rows []health.CurrentRow) {
	for i := range rows {
		rank := 1
		for j := range rows {
			if rows[j].Value > rows[i].Value {
				rank++
			}
		}
		rows[i].Rank = rank
	}
}
