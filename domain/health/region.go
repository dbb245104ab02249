package health

// Region is the census region a state belongs to
type Region string

const (
	RegionNortheast Region = "Northeast"
	RegionMidwest   Region = "Midwest"
	RegionSouth     Region = "South"
	RegionWest      Region = "West"
)

// String returns the display name
func (r Region) String() string {
	return string(r)
}

var stateRegions = map[string]Region{
	// Northeast
	"Connecticut":   RegionNortheast,
	"Maine":         RegionNortheast,
	"Massachusetts": RegionNortheast,
	"New Hampshire": RegionNortheast,
	"Rhode Island":  RegionNortheast,
	"Vermont":       RegionNortheast,
	"New York":      RegionNortheast,
	"New Jersey":    RegionNortheast,
	"Pennsylvania":  RegionNortheast,

	// Midwest
	"Illinois":     RegionMidwest,
	"Indiana":      RegionMidwest,
	"Michigan":     RegionMidwest,
	"Ohio":         RegionMidwest,
	"Wisconsin":    RegionMidwest,
	"Iowa":         RegionMidwest,
	"Kansas":       RegionMidwest,
	"Minnesota":    RegionMidwest,
	"Missouri":     RegionMidwest,
	"Nebraska":     RegionMidwest,
	"North Dakota": RegionMidwest,
	"South Dakota": RegionMidwest,

	// South
	"Delaware":       RegionSouth,
	"Florida":        RegionSouth,
	"Georgia":        RegionSouth,
	"Maryland":       RegionSouth,
	"North Carolina": RegionSouth,
	"South Carolina": RegionSouth,
	"Virginia":       RegionSouth,
	"West Virginia":  RegionSouth,
	"Alabama":        RegionSouth,
	"Kentucky":       RegionSouth,
	"Mississippi":    RegionSouth,
	"Tennessee":      RegionSouth,
	"Arkansas":       RegionSouth,
	"Louisiana":      RegionSouth,
	"Oklahoma":       RegionSouth,
	"Texas":          RegionSouth,
}

// RegionOf classifies a state name into its region. Every name classifies:
// anything not in the Northeast, Midwest, or South lists is West.
func RegionOf(state string) Region {
	if region, ok := stateRegions[state]; ok {
		return region
	}
	return RegionWest
}
