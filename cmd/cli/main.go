package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"healthdash/adapters/tabular"
	"healthdash/domain/health"
	"healthdash/internal/dataset"
	"healthdash/internal/derive"
	"healthdash/internal/render"
	"healthdash/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	var dataFile string

	rootCmd := &cobra.Command{
		Use:   "healthdash-cli",
		Short: "Healthdash CLI for inspecting the dataset and querying slices offline",
	}
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "",
		"Path to a CSV/XLSX data file (default: DATA_FILE env, then the built-in sample dataset)")

	rootCmd.AddCommand(
		newInspectCmd(&dataFile),
		newSliceCmd(&dataFile),
		newTrendCmd(&dataFile),
		newChoicesCmd(&dataFile),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadStore resolves the data source the same way the server does:
// explicit flag, then DATA_FILE, then the built-in sample dataset.
func loadStore(dataFile string) (*dataset.Store, error) {
	path := dataFile
	if path == "" {
		path = os.Getenv("DATA_FILE")
	}
	if path == "" {
		return testkit.SampleStore()
	}

	reader, err := tabular.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source: %w", err)
	}
	table, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data source: %w", err)
	}
	return dataset.FromTable(table)
}

func newInspectCmd(dataFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the load report and per-indicator profile of the dataset",
		Long: `Load the dataset and print its load report plus summary statistics
for every indicator.

Example: healthdash-cli inspect --data us_health_states.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(*dataFile)
			if err != nil {
				return err
			}
			return runInspect(store)
		},
	}
}

func runInspect(store *dataset.Store) error {
	report := store.Report()

	fmt.Printf("📊 DATASET: %s\n", store.Summary())
	fmt.Printf("Hash: %s\n", report.Hash)
	fmt.Printf("Source rows: %d, loaded: %d, skipped: %d, shadowed: %d\n\n",
		report.SourceRows, report.Loaded, report.Skipped, report.Shadowed)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDICATOR\tLABEL\tCOUNT\tMISSING\tMIN\tMAX\tMEAN\tMEDIAN\tSTDDEV")

	profiles := store.Profiles()
	for _, ind := range health.Indicators() {
		p := profiles[ind]
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			p.Indicator, p.Label, p.Count, p.Missing, p.Min, p.Max, p.Mean, p.Median, p.StdDev)
	}
	return w.Flush()
}

func newSliceCmd(dataFile *string) *cobra.Command {
	var states []string
	var year int
	var indicator string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "slice",
		Short: "Resolve the single-year slice for a selection",
		Long: `Resolve one row per selected state for a year and indicator,
ranked descending by value.

Example: healthdash-cli slice --states Alabama,Texas --year 2020 --indicator obesity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(*dataFile)
			if err != nil {
				return err
			}
			return runSlice(store, states, year, indicator, asJSON)
		},
	}

	cmd.Flags().StringSliceVar(&states, "states", nil, "States to include (default: the session default)")
	cmd.Flags().IntVar(&year, "year", 0, "Year to slice (default: latest year in the dataset)")
	cmd.Flags().StringVar(&indicator, "indicator", "", "Indicator id: obesity|smoking|physical_days|mental_days")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a text table")

	return cmd
}

func runSlice(store *dataset.Store, states []string, year int, indicator string, asJSON bool) error {
	engine, err := buildEngine(store, states, year, indicator)
	if err != nil {
		return err
	}

	rows, err := engine.CurrentSlice()
	if err != nil {
		return err
	}

	if asJSON {
		return emitJSON(map[string]interface{}{"rows": rows, "count": len(rows)})
	}

	ind, _ := engine.Inputs().Indicator()
	sliceYear, _ := engine.Inputs().Year()
	fmt.Printf("📊 %s, %d: %d of %d selected states have data\n\n",
		ind.Label(), sliceYear, len(rows), len(engine.Inputs().States()))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTATE\tVALUE\tREGION")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", row.Rank, row.State, row.Value, row.Region)
	}
	return w.Flush()
}

func newTrendCmd(dataFile *string) *cobra.Command {
	var states []string
	var indicator string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Resolve the multi-year trend for a selection",
		Long: `Collect each selected state's full history for an indicator and
fit a linear trend per state.

Example: healthdash-cli trend --states Alabama,Texas --indicator smoking`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(*dataFile)
			if err != nil {
				return err
			}
			return runTrend(store, states, indicator, asJSON)
		},
	}

	cmd.Flags().StringSliceVar(&states, "states", nil, "States to include (default: the session default)")
	cmd.Flags().StringVar(&indicator, "indicator", "", "Indicator id: obesity|smoking|physical_days|mental_days")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a text table")

	return cmd
}

func runTrend(store *dataset.Store, states []string, indicator string, asJSON bool) error {
	engine, err := buildEngine(store, states, 0, indicator)
	if err != nil {
		return err
	}

	rows, err := engine.TrendSlice()
	if err != nil {
		return err
	}

	ind, _ := engine.Inputs().Indicator()
	config := render.BuildTrendChart(rows, ind)

	if asJSON {
		return emitJSON(map[string]interface{}{"rows": rows, "chart": config})
	}

	fmt.Printf("📈 %s trend across %d states\n\n", ind.Label(), len(config.Series))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tYEARS\tFIRST\tLAST\tSLOPE\tDIRECTION")
	for _, series := range config.Series {
		if len(series.Data) == 0 {
			fmt.Fprintf(w, "%s\t0\t-\t-\t-\t-\n", series.Name)
			continue
		}
		first := series.Data[0]
		last := series.Data[len(series.Data)-1]
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%+.3f\t%s\n",
			series.Name, len(series.Data), first.Value, last.Value, series.Slope, series.Direction)
	}
	return w.Flush()
}

func newChoicesCmd(dataFile *string) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "choices",
		Short: "List the states that match a search filter",
		Long: `List the dataset's states, optionally narrowed by a
case-insensitive substring search.

Example: healthdash-cli choices --search new`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(*dataFile)
			if err != nil {
				return err
			}
			return runChoices(store, search)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Substring filter over state names")

	return cmd
}

func runChoices(store *dataset.Store, search string) error {
	inputs := derive.NewInputs(store.MaxYear())
	inputs.SetSearch(search)

	choices := inputs.FilteredStateChoices(store.States())
	if search != "" {
		fmt.Printf("%d of %d states match %q:\n", len(choices), len(store.States()), search)
	} else {
		fmt.Printf("%d states:\n", len(choices))
	}
	for _, state := range choices {
		fmt.Printf("  %s\n", state)
	}
	return nil
}

// buildEngine wires inputs and engine the way a server session does,
// applying only the selection fields the caller provided.
func buildEngine(store *dataset.Store, states []string, year int, indicator string) (*derive.Engine, error) {
	inputs := derive.NewInputs(store.MaxYear())

	if len(states) > 0 {
		inputs.SetStates(trimAll(states))
	}
	if year != 0 {
		inputs.SetYear(year)
	}
	if indicator != "" {
		ind, err := health.ParseIndicator(indicator)
		if err != nil {
			return nil, err
		}
		if err := inputs.SetIndicator(ind); err != nil {
			return nil, err
		}
	}

	return derive.NewEngine(store, inputs), nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func emitJSON(payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
