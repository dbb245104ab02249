package render

import (
	"strconv"

	"healthdash/internal/derive"
)

// BuildStatus fills the three readout cards: how many states are
// selected, which year, and which indicator. Unset year or indicator
// reads "Not selected".
func BuildStatus(in *derive.Inputs) Status {
	status := Status{
		StateCount: len(in.States()),
		Year:       "Not selected",
		Indicator:  "Not selected",
	}
	if year, ok := in.Year(); ok {
		status.Year = strconv.Itoa(year)
	}
	if ind, ok := in.Indicator(); ok {
		status.Indicator = ind.Label()
	}
	return status
}
