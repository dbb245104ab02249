package health

import (
	"regexp"
	"strconv"
	"strings"
)

// Value is a numeric observation cell that may be absent. Absence is
// explicit: a Value with Valid false carries no number at all, there is
// no sentinel.
type Value struct {
	Float64 float64 `json:"value"`
	Valid   bool    `json:"valid"`
}

// SomeValue wraps a present number
func SomeValue(f float64) Value {
	return Value{Float64: f, Valid: true}
}

// NoValue is the absent cell
func NoValue() Value {
	return Value{}
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// CleanNumeric parses a raw survey cell into a Value. The survey data
// mixes decimal commas, percent signs, unit suffixes and placeholder
// text, so cleaning is lossy on purpose: decimal commas become points,
// every character outside [0-9.] is stripped, and whatever remains must
// parse as a float. Anything that does not ("N/A", empty cells, garbage
// like "1.2.3") is an absent value, never an error.
func CleanNumeric(raw string) Value {
	cleaned := strings.ReplaceAll(raw, ",", ".")
	cleaned = nonNumeric.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return NoValue()
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return NoValue()
	}
	return SomeValue(f)
}
