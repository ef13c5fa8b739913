package har

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	FeaturesFile       = "features.txt"
	ActivityLabelsFile = "activity_labels.txt"
)

// PartitionFiles returns the X, y and subject paths for a partition tag.
func PartitionFiles(baseDir, tag string) (x, y, subject string) {
	dir := filepath.Join(baseDir, tag)
	return filepath.Join(dir, "X_"+tag+".txt"),
		filepath.Join(dir, "y_"+tag+".txt"),
		filepath.Join(dir, "subject_"+tag+".txt")
}

// eachLine calls fn with the whitespace-split fields of every non-blank line.
func eachLine(path string, fn func(line int, fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingFileError{Path: path, Err: err}
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// readIntColumn reads a single-column integer file.
func readIntColumn(path string) ([]int, error) {
	var out []int
	err := eachLine(path, func(line int, fields []string) error {
		if len(fields) != 1 {
			return &MalformedDataError{Path: path, Line: line, Reason: fmt.Sprintf("expected 1 column, got %d", len(fields))}
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			return &MalformedDataError{Path: path, Line: line, Reason: fmt.Sprintf("not an integer: %q", fields[0])}
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// readIDNamePairs reads a two-column (int ID, name) file such as features.txt.
func readIDNamePairs(path string) ([]int, []string, error) {
	var ids []int
	var names []string
	err := eachLine(path, func(line int, fields []string) error {
		if len(fields) != 2 {
			return &MalformedDataError{Path: path, Line: line, Reason: fmt.Sprintf("expected 2 columns, got %d", len(fields))}
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return &MalformedDataError{Path: path, Line: line, Reason: fmt.Sprintf("not an integer id: %q", fields[0])}
		}
		ids = append(ids, id)
		names = append(names, fields[1])
		return nil
	})
	return ids, names, err
}

// parseMeasurement accepts anything strconv does, plus NA for a missing value.
func parseMeasurement(s string) (float64, bool) {
	if s == "NA" {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
