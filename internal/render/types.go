// Package render turns derived data slices into chart, table, and
// status artifacts. Builders are pure: they copy what they sort and
// never modify the slices the engine handed out.
package render

import "math"

// ChartConfig describes one chart for the client to draw.
type ChartConfig struct {
	ChartType   string        `json:"chartType"`
	Title       string        `json:"title"`
	XAxis       string        `json:"xAxis,omitempty"`
	YAxis       string        `json:"yAxis,omitempty"`
	Orientation string        `json:"orientation,omitempty"`
	Series      []ChartSeries `json:"series"`
	Colors      []string      `json:"colors,omitempty"`
	ShowLegend  bool          `json:"showLegend"`
	ShowGrid    bool          `json:"showGrid"`
	ShowMarkers bool          `json:"showMarkers"`
}

// ChartSeries is one data series in a chart. Trend series with at
// least two points carry a fitted slope and its direction.
type ChartSeries struct {
	Name      string       `json:"name"`
	Data      []ChartPoint `json:"data"`
	Color     string       `json:"color,omitempty"`
	Slope     float64      `json:"slope,omitempty"`
	Direction string       `json:"direction,omitempty"`
}

// ChartPoint is a single data point. X carries the year on trend
// charts and stays zero on categorical charts.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Value float64 `json:"value"`
}

// TableData defines how to render a table.
type TableData struct {
	Title   string       `json:"title"`
	Columns []ColumnSpec `json:"columns"`
	Rows    [][]string   `json:"rows"`
}

// ColumnSpec defines a table column.
type ColumnSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Status carries the three readout cards above the charts.
type Status struct {
	StateCount int    `json:"stateCount"`
	Year       string `json:"year"`
	Indicator  string `json:"indicator"`
}

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

// RoundTo2 rounds chart values to two decimals for display.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
