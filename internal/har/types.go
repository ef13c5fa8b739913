// Package har implements the read, subset, merge, label and reshape stages for the
// UCI Human Activity Recognition dataset layout.
package har

import (
	"fmt"
	"strconv"
	"strings"
)

// Observation is one row of a partition: the selected measurements plus the two ID columns.
type Observation struct {
	ActivityID int
	SubjectID  int
	Values     []float64
}

// Partition is the Loader output for one of the fixed subsets ("test" or "train").
type Partition struct {
	Tag       string
	Variables []string
	Rows      []Observation
}

// Merged holds both partitions concatenated test-first, with cleaned variable names.
type Merged struct {
	Variables []string
	Rows      []Observation
	// Counts per partition tag, in load order.
	Sources []PartitionCount
}

// PartitionCount records how many rows a partition contributed.
type PartitionCount struct {
	Tag  string
	Rows int
}

// LabeledObservation is an Observation carrying its activity name.
type LabeledObservation struct {
	Observation
	ActivityName string
}

// Labeled is the merged table after the inner join with the activity catalog.
type Labeled struct {
	Variables []string
	Rows      []LabeledObservation
	// Dropped counts merged rows whose ActivityID had no label.
	Dropped int
}

// GroupKey identifies one tidy row.
type GroupKey struct {
	ActivityName string
	SubjectID    int
}

func (k GroupKey) String() string { return fmt.Sprintf("%s:%d", k.ActivityName, k.SubjectID) }

// ParseGroupKey parses "NAME:SUBJECT", e.g. "WALKING:5".
func ParseGroupKey(s string) (GroupKey, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return GroupKey{}, fmt.Errorf("invalid group %q (want NAME:SUBJECT)", s)
	}
	id, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return GroupKey{}, fmt.Errorf("invalid subject in group %q: %w", s, err)
	}
	return GroupKey{ActivityName: strings.TrimSpace(s[:i]), SubjectID: id}, nil
}

// TidyRow is one (activity, subject) group with the mean of every variable.
type TidyRow struct {
	GroupKey
	Means []float64
}

// Tidy is the final summary table.
type Tidy struct {
	Variables []string
	Rows      []TidyRow
}

func validateWidth(stage string, vars []string, width func(int) int, n int) error {
	for i := 0; i < n; i++ {
		if w := width(i); w != len(vars) {
			return fmt.Errorf("%s: row %d has %d values for %d variables", stage, i+1, w, len(vars))
		}
	}
	return nil
}

// Validate checks every row carries one value per variable.
func (p *Partition) Validate() error {
	return validateWidth("partition "+p.Tag, p.Variables, func(i int) int { return len(p.Rows[i].Values) }, len(p.Rows))
}

// Validate checks every row carries one value per variable.
func (m *Merged) Validate() error {
	return validateWidth("merged", m.Variables, func(i int) int { return len(m.Rows[i].Values) }, len(m.Rows))
}

// Validate checks every row carries one value per variable and a non-empty label.
func (l *Labeled) Validate() error {
	for i, r := range l.Rows {
		if r.ActivityName == "" {
			return fmt.Errorf("labeled: row %d has an empty activity name", i+1)
		}
	}
	return validateWidth("labeled", l.Variables, func(i int) int { return len(l.Rows[i].Values) }, len(l.Rows))
}
