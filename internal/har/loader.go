package har

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Loader reads partitions from a dataset base directory. The feature catalog is read once
// and shared; LoadPartition is safe for concurrent use.
type Loader struct {
	baseDir string
	log     *zap.Logger

	once    sync.Once
	catalog Catalog
	catErr  error
}

// NewLoader returns a Loader rooted at baseDir. A nil logger disables logging.
func NewLoader(baseDir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{baseDir: baseDir, log: logger}
}

// BaseDir returns the dataset directory.
func (l *Loader) BaseDir() string { return l.baseDir }

// Catalog returns the feature catalog, reading it on first use.
func (l *Loader) Catalog() (Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.catErr = ReadCatalog(l.baseDir)
		if l.catErr == nil {
			l.log.Debug("feature catalog loaded", zap.Int("features", len(l.catalog)))
		}
	})
	return l.catalog, l.catErr
}

// LoadPartition reads one partition and keeps only the mean()/std() columns.
func (l *Loader) LoadPartition(ctx context.Context, tag string) (*Partition, error) {
	if tag == "" {
		return nil, &MalformedDataError{Path: l.baseDir, Reason: "empty partition tag"}
	}
	xPath, yPath, sPath := PartitionFiles(l.baseDir, tag)

	activities, err := readIntColumn(yPath)
	if err != nil {
		return nil, err
	}
	subjects, err := readIntColumn(sPath)
	if err != nil {
		return nil, err
	}
	catalog, err := l.Catalog()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, names := catalog.Selected()

	values, err := readMatrix(xPath, len(catalog), idx)
	if err != nil {
		return nil, err
	}
	if len(values) != len(activities) || len(values) != len(subjects) {
		return nil, &MalformedDataError{
			Path: filepath.Join(l.baseDir, tag),
			Reason: fmt.Sprintf("row count mismatch: %s has %d rows, %s has %d, %s has %d",
				filepath.Base(xPath), len(values), filepath.Base(yPath), len(activities),
				filepath.Base(sPath), len(subjects)),
		}
	}

	p := &Partition{Tag: tag, Variables: names, Rows: make([]Observation, len(values))}
	for i := range values {
		p.Rows[i] = Observation{ActivityID: activities[i], SubjectID: subjects[i], Values: values[i]}
	}
	l.log.Debug("partition loaded",
		zap.String("partition", tag),
		zap.Int("rows", len(p.Rows)),
		zap.Int("variables", len(names)))
	return p, nil
}

// readMatrix reads a whitespace matrix with exactly ncol columns per row and returns only
// the columns at keep.
func readMatrix(path string, ncol int, keep []int) ([][]float64, error) {
	var rows [][]float64
	err := eachLine(path, func(line int, fields []string) error {
		if len(fields) != ncol {
			return &MalformedDataError{Path: path, Line: line,
				Reason: fmt.Sprintf("expected %d columns (catalog size), got %d", ncol, len(fields))}
		}
		row := make([]float64, len(keep))
		for j, c := range keep {
			v, ok := parseMeasurement(fields[c])
			if !ok {
				return &MalformedDataError{Path: path, Line: line,
					Reason: fmt.Sprintf("column %d: not a number: %q", c+1, fields[c])}
			}
			row[j] = v
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}
