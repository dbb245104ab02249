package tabular

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "health.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp CSV: %v", err)
	}
	return path
}

func TestNewReaderFileTypes(t *testing.T) {
	if _, err := NewReader("data.csv"); err != nil {
		t.Errorf("csv should be supported: %v", err)
	}
	if _, err := NewReader("data.XLSX"); err != nil {
		t.Errorf("xlsx should be supported regardless of case: %v", err)
	}
	if _, err := NewReader("data.json"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t,
		"State;year;Adult obesity [in %]\n"+
			"Alabama;2020;36,3\n"+
			"Alaska;2020;31.9\n")

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	table, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	wantHeaders := []string{"State", "year", "Adult obesity [in %]"}
	if len(table.Headers) != len(wantHeaders) {
		t.Fatalf("got %d headers, want %d", len(table.Headers), len(wantHeaders))
	}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	// Cells stay raw: the decimal comma is the store's problem.
	if table.Rows[0][2] != "36,3" {
		t.Errorf("cell = %q, want raw %q", table.Rows[0][2], "36,3")
	}
}

func TestReadCSVPadsShortRows(t *testing.T) {
	path := writeTempCSV(t,
		"State;year;Adult obesity [in %]\n"+
			"Alabama;2020\n")

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	table, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(table.Rows[0]) != 3 {
		t.Fatalf("short row not padded: %v", table.Rows[0])
	}
	if table.Rows[0][2] != "" {
		t.Errorf("padding cell = %q, want empty", table.Rows[0][2])
	}
}

func TestReadCSVTrimsCells(t *testing.T) {
	path := writeTempCSV(t,
		" State ; year \n"+
			"  Alabama  ; 2020 \n")

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	table, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if table.Headers[0] != "State" {
		t.Errorf("header = %q, want trimmed %q", table.Headers[0], "State")
	}
	if table.Rows[0][0] != "Alabama" {
		t.Errorf("cell = %q, want trimmed %q", table.Rows[0][0], "Alabama")
	}
}

func TestReadMissingFile(t *testing.T) {
	reader, err := NewReader("nope.csv")
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := reader.Read(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "State;year\n")

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := reader.Read(path); err == nil {
		t.Error("expected error for header-only file")
	}
}
