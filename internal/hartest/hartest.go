// Package hartest writes small synthetic datasets in the UCI HAR directory layout.
package hartest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Partition holds the three row-aligned files of one partition.
type Partition struct {
	X          [][]float64
	Activities []int
	Subjects   []int
	// XLines, when set, is written verbatim instead of X.
	XLines []string
}

// Activity is one line of activity_labels.txt.
type Activity struct {
	ID   int
	Name string
}

// Dataset describes a dataset directory. A nil Activities slice skips activity_labels.txt.
type Dataset struct {
	Features   []string
	Activities []Activity
	Partitions map[string]Partition
}

// Small returns a four-feature dataset with two selected columns per partition.
//
//	test:  2 rows, subject 1, activities 1 and 2
//	train: 3 rows, subject 2, activities 1, 1, 3 (3 has no label)
func Small() Dataset {
	return Dataset{
		Features: []string{"tBodyAcc-mean()-X", "tBodyAcc-max()-X", "tBodyAcc-std()-X", "fBodyGyro-meanFreq()-Z"},
		Activities: []Activity{
			{ID: 1, Name: "WALKING"},
			{ID: 2, Name: "LAYING"},
		},
		Partitions: map[string]Partition{
			"test": {
				X:          [][]float64{{1, 10, -1, 100}, {2, 20, -2, 200}},
				Activities: []int{1, 2},
				Subjects:   []int{1, 1},
			},
			"train": {
				X:          [][]float64{{3, 30, -3, 300}, {5, 50, -5, 500}, {7, 70, -7, 700}},
				Activities: []int{1, 1, 3},
				Subjects:   []int{2, 2, 2},
			},
		},
	}
}

// Write lays the dataset out under a new temp dir and returns its path.
func Write(t testing.TB, ds Dataset) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "UCI HAR Dataset")
	mustMkdir(t, dir)

	var feats []string
	for i, f := range ds.Features {
		feats = append(feats, fmt.Sprintf("%d %s", i+1, f))
	}
	writeLines(t, filepath.Join(dir, "features.txt"), feats)

	if ds.Activities != nil {
		var acts []string
		for _, a := range ds.Activities {
			acts = append(acts, fmt.Sprintf("%d %s", a.ID, a.Name))
		}
		writeLines(t, filepath.Join(dir, "activity_labels.txt"), acts)
	}

	for tag, p := range ds.Partitions {
		pdir := filepath.Join(dir, tag)
		mustMkdir(t, pdir)
		xl := p.XLines
		if xl == nil {
			for _, row := range p.X {
				cells := make([]string, len(row))
				for j, v := range row {
					cells[j] = strconv.FormatFloat(v, 'e', 7, 64)
				}
				xl = append(xl, " "+strings.Join(cells, " "))
			}
		}
		writeLines(t, filepath.Join(pdir, "X_"+tag+".txt"), xl)
		writeLines(t, filepath.Join(pdir, "y_"+tag+".txt"), ints(p.Activities))
		writeLines(t, filepath.Join(pdir, "subject_"+tag+".txt"), ints(p.Subjects))
	}
	return dir
}

func ints(v []int) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = strconv.Itoa(x)
	}
	return out
}

func mustMkdir(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func writeLines(t testing.TB, path string, lines []string) {
	t.Helper()
	body := strings.Join(lines, "\n")
	if len(lines) > 0 {
		body += "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
