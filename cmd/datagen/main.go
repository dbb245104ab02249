package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"healthdash/internal/datagen"
)

func main() {
	out := flag.String("out", "us_health_states.csv", "output file path")
	states := flag.Int("states", 50, "number of states (alphabetical from the universe)")
	startYear := flag.Int("start-year", 2011, "first survey year")
	years := flag.Int("years", 10, "number of survey years")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	messy := flag.Float64("messy", 0.08, "share of cells rendered in messy survey forms")
	missing := flag.Float64("missing", 0.02, "share of cells emitted as N/A or blank")
	format := flag.String("format", "", "output format: csv or xlsx (default inferred from -out)")
	flag.Parse()

	fmtName := strings.ToLower(strings.TrimSpace(*format))
	if fmtName == "" {
		switch strings.ToLower(filepath.Ext(*out)) {
		case ".xlsx":
			fmtName = "xlsx"
		default:
			fmtName = "csv"
		}
	}

	cfg := datagen.DefaultConfig()
	cfg.States = *states
	cfg.StartYear = *startYear
	cfg.Years = *years
	cfg.Seed = *seed
	cfg.MessyRate = *messy
	cfg.MissingRate = *missing

	ds, err := datagen.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(1)
	}

	switch fmtName {
	case "csv":
		err = datagen.WriteCSV(*out, ds)
	case "xlsx":
		err = datagen.WriteXLSX(*out, ds)
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", fmtName)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", fmtName, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s: %d states, years %d-%d, %d rows\n",
		*out, len(ds.States), ds.Years[0], ds.Years[len(ds.Years)-1], len(ds.Rows))
}
