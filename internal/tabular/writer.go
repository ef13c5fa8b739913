// Package tabular reads and writes whitespace-delimited tables in the layout R's
// write.table produces: a quoted header without a row-name column, then one line per
// row starting with its quoted 1-based index.
package tabular

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tidyhar/internal/utils"
)

// NA is how missing numeric values are written.
const NA = "NA"

// Writer streams a table to disk. Nothing is visible at the destination until Commit.
type Writer struct {
	f      *utils.AtomicFile
	bw     *bufio.Writer
	ncol   int
	rows   int
	header bool
}

// Create starts a table at path.
func Create(path string) (*Writer, error) {
	f, err := utils.CreateAtomic(path)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f, bw: bufio.NewWriterSize(f, 256*1024)}, nil
}

// Path returns the destination path.
func (w *Writer) Path() string { return w.f.Path() }

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int { return w.rows }

// WriteHeader writes the column names. It must be called once, before any row.
func (w *Writer) WriteHeader(cols ...string) error {
	if w.header {
		return fmt.Errorf("tabular: header already written")
	}
	w.header = true
	w.ncol = len(cols)
	for i, c := range cols {
		if i > 0 {
			w.bw.WriteByte(' ')
		}
		w.bw.WriteString(Quote(c))
	}
	_, err := w.bw.WriteString("\n")
	return err
}

// WriteRow writes one row of pre-formatted cells (see Quote, Float, Int).
func (w *Writer) WriteRow(cells ...string) error {
	if !w.header {
		return fmt.Errorf("tabular: row written before header")
	}
	if len(cells) != w.ncol {
		return fmt.Errorf("tabular: row %d has %d cells, header has %d", w.rows+1, len(cells), w.ncol)
	}
	w.rows++
	w.bw.WriteString(Quote(strconv.Itoa(w.rows)))
	for _, c := range cells {
		w.bw.WriteByte(' ')
		w.bw.WriteString(c)
	}
	_, err := w.bw.WriteString("\n")
	return err
}

// Commit flushes and moves the table into place.
func (w *Writer) Commit() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Abort()
		return fmt.Errorf("flush %s: %w", w.f.Path(), err)
	}
	return w.f.Commit()
}

// Abort discards everything written.
func (w *Writer) Abort() { w.f.Abort() }

// Quote formats a string cell.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Float formats a numeric cell with 15 significant digits; NaN becomes NA.
func Float(v float64) string {
	if math.IsNaN(v) {
		return NA
	}
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// Int formats an integer cell.
func Int(v int) string { return strconv.Itoa(v) }
