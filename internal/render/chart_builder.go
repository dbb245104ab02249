package render

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"healthdash/domain/health"
)

// Slopes inside this band count as flat; the indicators move by whole
// percentage points per year when they move at all.
const flatSlopeBound = 0.01

// BuildComparisonChart renders the single-year slice as a horizontal
// bar chart, bars ascending by value so the largest sits on top. An
// empty slice still yields a config so clients can show a placeholder.
func BuildComparisonChart(rows []health.CurrentRow, ind health.Indicator, year int) *ChartConfig {
	config := &ChartConfig{
		ChartType:   "bar",
		Title:       fmt.Sprintf("%s Comparison - %d", ind.AxisLabel(), year),
		XAxis:       ind.AxisLabel(),
		YAxis:       "State",
		Orientation: "horizontal",
		Series:      []ChartSeries{},
		ShowGrid:    true,
	}
	if len(rows) == 0 {
		return config
	}

	sorted := append([]health.CurrentRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	points := make([]ChartPoint, 0, len(sorted))
	for _, row := range sorted {
		points = append(points, ChartPoint{
			Label: row.State,
			Value: RoundTo2(row.Value),
		})
	}

	config.Series = []ChartSeries{{
		Name:  ind.Label(),
		Data:  points,
		Color: defaultColors[0],
	}}
	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildTrendChart renders the across-years slice as a line chart with
// one series per state, in the order states first appear in the slice.
// Series with two or more points get a least-squares slope over
// year and value, classified as rising, falling, or flat.
func BuildTrendChart(rows []health.TrendRow, ind health.Indicator) *ChartConfig {
	config := &ChartConfig{
		ChartType:   "line",
		Title:       fmt.Sprintf("%s Trends Over Time", ind.AxisLabel()),
		XAxis:       "Year",
		YAxis:       ind.AxisLabel(),
		Series:      []ChartSeries{},
		ShowLegend:  true,
		ShowGrid:    true,
		ShowMarkers: true,
	}
	if len(rows) == 0 {
		return config
	}

	var order []string
	grouped := make(map[string][]health.TrendRow)
	for _, row := range rows {
		if _, seen := grouped[row.State]; !seen {
			order = append(order, row.State)
		}
		grouped[row.State] = append(grouped[row.State], row)
	}

	series := make([]ChartSeries, 0, len(order))
	for i, state := range order {
		stateRows := grouped[state]
		points := make([]ChartPoint, 0, len(stateRows))
		years := make([]float64, 0, len(stateRows))
		values := make([]float64, 0, len(stateRows))
		for _, row := range stateRows {
			v := RoundTo2(row.Value)
			points = append(points, ChartPoint{
				Label: strconv.Itoa(row.Year),
				X:     float64(row.Year),
				Value: v,
			})
			years = append(years, float64(row.Year))
			values = append(values, v)
		}

		s := ChartSeries{
			Name:  state,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		}
		if len(points) >= 2 {
			_, slope := stat.LinearRegression(years, values, nil, false)
			s.Slope = slope
			s.Direction = classifyDirection(slope)
		}
		series = append(series, s)
	}

	config.Series = series
	config.Colors = assignColors(len(series))
	return config
}

func classifyDirection(slope float64) string {
	switch {
	case slope > flatSlopeBound:
		return "rising"
	case slope < -flatSlopeBound:
		return "falling"
	default:
		return "flat"
	}
}
