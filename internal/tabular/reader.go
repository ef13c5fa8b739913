package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Table is a table read back from disk. Cells are unquoted strings.
type Table struct {
	Header   []string
	RowNames []string
	Rows     [][]string
}

// Column returns the index of name in the header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadFile parses a table written by Writer. Rows that carry exactly one cell per header
// column (no row name) are accepted too.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a table from r.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		switch len(rec) {
		case len(header) + 1:
			t.RowNames = append(t.RowNames, rec[0])
			t.Rows = append(t.Rows, rec[1:])
		case len(header):
			t.RowNames = append(t.RowNames, fmt.Sprint(len(t.Rows)+1))
			t.Rows = append(t.Rows, rec)
		default:
			return nil, fmt.Errorf("row %d: %d cells for %d columns", len(t.Rows)+1, len(rec), len(header))
		}
	}
	return t, nil
}
