package datagen

import (
	"math"
	"path/filepath"
	"testing"

	"healthdash/adapters/tabular"
	"healthdash/domain/health"
	"healthdash/internal/dataset"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.States = 10
	cfg.Years = 4

	a, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		for j := range a.Rows[i] {
			if a.Rows[i][j] != b.Rows[i][j] {
				t.Fatalf("row %d cell %d differs: %q vs %q", i, j, a.Rows[i][j], b.Rows[i][j])
			}
		}
	}
}

func TestGenerateShape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.States = 5
	cfg.StartYear = 2015
	cfg.Years = 3

	ds, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantHeaders := []string{
		"State", "year",
		"Adult obesity [in %]", "Adult smoking [in %]",
		"Physically Unhealthy Days", "Mentally Unhealthy Days",
	}
	for i, want := range wantHeaders {
		if ds.Headers[i] != want {
			t.Errorf("header %d = %q, want %q", i, ds.Headers[i], want)
		}
	}

	if len(ds.Rows) != 15 {
		t.Fatalf("rows = %d, want 5 states x 3 years", len(ds.Rows))
	}

	// State-major with years ascending.
	if ds.Rows[0][0] != "Alabama" || ds.Rows[0][1] != "2015" {
		t.Errorf("first row = %v, want Alabama 2015", ds.Rows[0][:2])
	}
	if ds.Rows[2][0] != "Alabama" || ds.Rows[2][1] != "2017" {
		t.Errorf("third row = %v, want Alabama 2017", ds.Rows[2][:2])
	}
	if ds.Rows[3][0] != "Alaska" {
		t.Errorf("fourth row state = %q, want Alaska", ds.Rows[3][0])
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero states", func(c *Config) { c.States = 0 }},
		{"too many states", func(c *Config) { c.States = 51 }},
		{"zero years", func(c *Config) { c.Years = 0 }},
		{"negative messy rate", func(c *Config) { c.MessyRate = -0.1 }},
		{"missing rate above one", func(c *Config) { c.MissingRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			if _, err := Generate(cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// The generated CSV must survive the real ingestion path: messy cells
// clean back to the exact numbers the generator drew, missing cells
// come back absent.
func TestRoundTripThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.States = 6
	cfg.StartYear = 2016
	cfg.Years = 4
	cfg.MessyRate = 0.5
	cfg.MissingRate = 0.1

	ds, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "generated.csv")
	if err := WriteCSV(path, ds); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	reader, err := tabular.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	table, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	store, err := dataset.FromTable(table)
	if err != nil {
		t.Fatalf("FromTable failed: %v", err)
	}

	report := store.Report()
	if report.Loaded != len(ds.Rows) {
		t.Fatalf("loaded %d rows, want %d", report.Loaded, len(ds.Rows))
	}
	if report.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", report.Skipped)
	}

	indicators := health.Indicators()
	row := 0
	for _, state := range ds.States {
		for _, year := range ds.Years {
			for i, ind := range indicators {
				got := store.Value(state, year, ind)
				want := ds.Clean[row][i]
				if math.IsNaN(want) {
					if got.Valid {
						t.Errorf("%s %d %s: cell was emitted missing but loaded as %v", state, year, ind, got.Float64)
					}
					continue
				}
				if !got.Valid {
					t.Errorf("%s %d %s: cell lost in cleaning", state, year, ind)
					continue
				}
				if math.Abs(got.Float64-want) > 1e-9 {
					t.Errorf("%s %d %s = %v, want %v", state, year, ind, got.Float64, want)
				}
			}
			row++
		}
	}
}

func TestRoundTripThroughLoaderXLSX(t *testing.T) {
	cfg := DefaultConfig()
	cfg.States = 3
	cfg.Years = 2

	ds, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "generated.xlsx")
	if err := WriteXLSX(path, ds); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	reader, err := tabular.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	table, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	store, err := dataset.FromTable(table)
	if err != nil {
		t.Fatalf("FromTable failed: %v", err)
	}

	if got := len(store.States()); got != 3 {
		t.Errorf("states = %d, want 3", got)
	}
	if got := len(store.Years()); got != 2 {
		t.Errorf("years = %d, want 2", got)
	}
}
