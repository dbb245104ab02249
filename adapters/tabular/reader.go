package tabular

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"healthdash/ports"
)

// CSVSeparator is the field separator of the health survey exports
const CSVSeparator = ';'

// Reader loads raw tables from CSV or XLSX files. It implements
// ports.TableSourcePort and does no cell interpretation: cleaning and
// column mapping belong to the dataset store.
type Reader struct {
	fileType string // "csv" or "xlsx"
}

// NewReader creates a reader for the given path's format
func NewReader(path string) (*Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &Reader{fileType: "csv"}, nil
	case ".xlsx":
		return &Reader{fileType: "xlsx"}, nil
	default:
		return nil, fmt.Errorf("unsupported data file type: %s", filepath.Ext(path))
	}
}

// Read loads the file into a RawTable
func (r *Reader) Read(path string) (*ports.RawTable, error) {
	log.Printf("[DataReader] Reading %s file: %s", r.fileType, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), path)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV(path)
	default:
		return r.readXLSX(path)
	}
}

// readCSV reads a semicolon-separated survey export
func (r *Reader) readCSV(path string) (*ports.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = CSVSeparator
	// Survey exports have ragged tails; short rows are padded below.
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows, path)
}

// readXLSX reads the first sheet of a workbook
func (r *Reader) readXLSX(path string) (*ports.RawTable, error) {
	openStart := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms",
		float64(time.Since(openStart).Nanoseconds())/1e6)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)",
		sheets[0], float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows, path)
}

// processRows turns raw string rows into a RawTable: trimmed headers,
// data rows padded or truncated to header width.
func (r *Reader) processRows(rows [][]string, path string) (*ports.RawTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("data file %s must have a header row and at least one data row", path)
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := range headers {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		dataRows = append(dataRows, cells)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ports.RawTable{Headers: headers, Rows: dataRows}, nil
}
