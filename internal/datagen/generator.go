// Package datagen produces synthetic US health survey exports shaped
// like the real thing: canonical column headers, per-state trends, and
// a configurable share of messy cells in the forms the cleaning layer
// accepts ("30,5%", "6.1 days", "N/A").
package datagen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"healthdash/domain/health"
)

// allStates is the generator's state universe, alphabetical.
var allStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California",
	"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland",
	"Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri",
	"Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

// Dataset is the in-memory form of one generated export. Rows are
// state-major with years ascending, already rendered to cell strings.
// Clean keeps the numeric truth behind each rendered cell so tests can
// verify the round trip through cleaning; a NaN marks a cell emitted
// as missing.
type Dataset struct {
	Headers []string
	Rows    [][]string
	States  []string
	Years   []int
	Clean   [][]float64 // [row][indicator], indicator order per health.Indicators
}

type Config struct {
	States    int // how many states, taken alphabetically from the universe
	StartYear int
	Years     int
	Seed      int64

	// MessyRate is the share of present cells rendered with percent
	// signs, decimal commas, or unit suffixes instead of plain floats.
	MessyRate float64
	// MissingRate is the share of cells emitted as "N/A" or blank.
	MissingRate float64
}

func DefaultConfig() Config {
	return Config{
		States:      50,
		StartYear:   2011,
		Years:       10,
		Seed:        42,
		MessyRate:   0.08,
		MissingRate: 0.02,
	}
}

// regionBase anchors each indicator's level to the state's census
// region so generated rankings look like the published ones.
var regionBase = map[health.Region]map[health.Indicator]float64{
	health.RegionNortheast: {
		health.IndicatorObesity:      27.0,
		health.IndicatorSmoking:      15.5,
		health.IndicatorPhysicalDays: 3.7,
		health.IndicatorMentalDays:   4.0,
	},
	health.RegionMidwest: {
		health.IndicatorObesity:      31.5,
		health.IndicatorSmoking:      18.5,
		health.IndicatorPhysicalDays: 3.9,
		health.IndicatorMentalDays:   4.1,
	},
	health.RegionSouth: {
		health.IndicatorObesity:      33.5,
		health.IndicatorSmoking:      20.5,
		health.IndicatorPhysicalDays: 4.4,
		health.IndicatorMentalDays:   4.4,
	},
	health.RegionWest: {
		health.IndicatorObesity:      26.5,
		health.IndicatorSmoking:      14.5,
		health.IndicatorPhysicalDays: 3.8,
		health.IndicatorMentalDays:   4.0,
	},
}

// yearlyDrift moves each indicator per survey year: obesity climbs,
// smoking falls, unhealthy days creep up.
var yearlyDrift = map[health.Indicator]float64{
	health.IndicatorObesity:      0.25,
	health.IndicatorSmoking:      -0.35,
	health.IndicatorPhysicalDays: 0.03,
	health.IndicatorMentalDays:   0.06,
}

var noiseScale = map[health.Indicator]float64{
	health.IndicatorObesity:      0.5,
	health.IndicatorSmoking:      0.4,
	health.IndicatorPhysicalDays: 0.15,
	health.IndicatorMentalDays:   0.15,
}

var floor = map[health.Indicator]float64{
	health.IndicatorObesity:      18.0,
	health.IndicatorSmoking:      6.0,
	health.IndicatorPhysicalDays: 1.5,
	health.IndicatorMentalDays:   1.5,
}

func Generate(cfg Config) (*Dataset, error) {
	if cfg.States <= 0 || cfg.States > len(allStates) {
		return nil, fmt.Errorf("states must be 1..%d", len(allStates))
	}
	if cfg.Years <= 0 {
		return nil, fmt.Errorf("years must be > 0")
	}
	if cfg.MessyRate < 0 || cfg.MessyRate > 1 || cfg.MissingRate < 0 || cfg.MissingRate > 1 {
		return nil, fmt.Errorf("rates must be within [0, 1]")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	indicators := health.Indicators()

	states := allStates[:cfg.States]
	years := make([]int, cfg.Years)
	for i := range years {
		years[i] = cfg.StartYear + i
	}

	// Per-state level offsets persist across years so each state keeps
	// its place in the ranking instead of jittering around the region
	// mean.
	offsets := make([]map[health.Indicator]float64, len(states))
	for i := range states {
		offsets[i] = map[health.Indicator]float64{
			health.IndicatorObesity:      rng.NormFloat64() * 2.2,
			health.IndicatorSmoking:      rng.NormFloat64() * 2.0,
			health.IndicatorPhysicalDays: rng.NormFloat64() * 0.4,
			health.IndicatorMentalDays:   rng.NormFloat64() * 0.4,
		}
	}

	// Header text matches the survey export; indicator columns follow
	// display order.
	headers := []string{
		"State",
		"year",
		"Adult obesity [in %]",
		"Adult smoking [in %]",
		"Physically Unhealthy Days",
		"Mentally Unhealthy Days",
	}

	ds := &Dataset{
		Headers: headers,
		States:  states,
		Years:   years,
	}

	for si, state := range states {
		base := regionBase[health.RegionOf(state)]
		for yi, year := range years {
			cells := []string{state, strconv.Itoa(year)}
			clean := make([]float64, len(indicators))

			for ii, ind := range indicators {
				value := base[ind] + offsets[si][ind] + yearlyDrift[ind]*float64(yi) + rng.NormFloat64()*noiseScale[ind]
				if value < floor[ind] {
					value = floor[ind]
				}
				value = math.Round(value*10) / 10

				if rng.Float64() < cfg.MissingRate {
					cells = append(cells, renderMissing(rng))
					clean[ii] = math.NaN()
					continue
				}
				cells = append(cells, renderCell(rng, value, ind, cfg.MessyRate))
				clean[ii] = value
			}

			ds.Rows = append(ds.Rows, cells)
			ds.Clean = append(ds.Clean, clean)
		}
	}

	return ds, nil
}

// renderCell formats a value, sometimes in one of the messy survey
// forms. Every form cleans back to the same number.
func renderCell(rng *rand.Rand, value float64, ind health.Indicator, messyRate float64) string {
	plain := strconv.FormatFloat(value, 'f', 1, 64)
	if rng.Float64() >= messyRate {
		return plain
	}

	percent := ind == health.IndicatorObesity || ind == health.IndicatorSmoking
	switch rng.Intn(3) {
	case 0:
		if percent {
			return plain + "%"
		}
		return plain + " days"
	case 1:
		comma := []byte(plain)
		for i, b := range comma {
			if b == '.' {
				comma[i] = ','
			}
		}
		if percent {
			return string(comma) + "%"
		}
		return string(comma)
	default:
		return " " + plain + " "
	}
}

func renderMissing(rng *rand.Rand) string {
	if rng.Intn(2) == 0 {
		return "N/A"
	}
	return ""
}

// WriteCSV writes the export semicolon-separated, matching the survey
// dialect the reader expects: decimal commas rule out comma separation.
func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < len(ds.Rows); r++ {
		rowIdx := r + 2
		for c, v := range ds.Rows[r] {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
