package health

import (
	"healthdash/domain/core"
)

// Indicator identifies one of the tracked health metrics
type Indicator string

const (
	IndicatorObesity      Indicator = "obesity"
	IndicatorSmoking      Indicator = "smoking"
	IndicatorPhysicalDays Indicator = "physicalDays"
	IndicatorMentalDays   Indicator = "mentalDays"
)

// DefaultIndicator is selected for every new session
const DefaultIndicator = IndicatorObesity

// Indicators returns all indicators in display order
func Indicators() []Indicator {
	return []Indicator{
		IndicatorObesity,
		IndicatorSmoking,
		IndicatorPhysicalDays,
		IndicatorMentalDays,
	}
}

// labels maps indicators to their display names
var labels = map[Indicator]string{
	IndicatorObesity:      "Obesity Rate",
	IndicatorSmoking:      "Smoking Rate",
	IndicatorPhysicalDays: "Physically Unhealthy Days",
	IndicatorMentalDays:   "Mentally Unhealthy Days",
}

// Valid reports whether the indicator is one of the known metrics
func (i Indicator) Valid() bool {
	_, ok := labels[i]
	return ok
}

// String returns the wire id
func (i Indicator) String() string {
	return string(i)
}

// Label returns the display name ("Obesity Rate")
func (i Indicator) Label() string {
	if label, ok := labels[i]; ok {
		return label
	}
	return "Unknown Indicator"
}

// AxisLabel returns the chart axis name, with units for percentage metrics
// ("Obesity Rate (%)")
func (i Indicator) AxisLabel() string {
	switch i {
	case IndicatorObesity, IndicatorSmoking:
		return i.Label() + " (%)"
	default:
		return i.Label()
	}
}

// ParseIndicator parses a wire id into an Indicator
func ParseIndicator(s string) (Indicator, error) {
	ind := Indicator(s)
	if !ind.Valid() {
		return "", core.NewUnknownIndicatorError(s)
	}
	return ind, nil
}
