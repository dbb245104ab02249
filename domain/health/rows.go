package health

// Observation is one cleaned survey row: a state in a year with a cell
// per indicator. Cells that failed cleaning are present but not Valid.
type Observation struct {
	State  string              `json:"state"`
	Year   int                 `json:"year"`
	Values map[Indicator]Value `json:"values"`
}

// Value returns the cell for one indicator, absent when the row never
// carried that column.
func (o Observation) Value(ind Indicator) Value {
	if o.Values == nil {
		return NoValue()
	}
	return o.Values[ind]
}

// CurrentRow is one entry of the single-year comparison slice: a state's
// value for the selected indicator in the selected year, with its region
// and its descending competition rank among the selected states.
type CurrentRow struct {
	State  string  `json:"state"`
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	Region Region  `json:"region"`
	Rank   int     `json:"rank"`
}

// TrendRow is one point of the across-years slice: a state's value for
// the selected indicator in one year.
type TrendRow struct {
	State string  `json:"state"`
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// YearValue is one point of a per-state series, ascending by year
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}
