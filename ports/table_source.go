package ports

// RawTable is an uninterpreted tabular payload: a header row plus string
// cells. Cleaning and column mapping happen downstream in the dataset
// store, so every source format reduces to this shape.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// TableSourcePort loads raw tables from some backing format (CSV, XLSX).
// Implementations must pad short rows to header width and must not
// interpret cell contents.
type TableSourcePort interface {
	Read(path string) (*RawTable, error)
}
