package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/KaramelBytes/tidyhar/internal/har"
	"github.com/KaramelBytes/tidyhar/internal/hartest"
	"github.com/KaramelBytes/tidyhar/internal/tabular"
)

func testOptions(t *testing.T, dataDir string) Options {
	t.Helper()
	opt := DefaultOptions()
	opt.DataDir = dataDir
	opt.OutDir = t.TempDir()
	return opt
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunWritesAllTables(t *testing.T) {
	opt := testOptions(t, hartest.Write(t, hartest.Small()))
	opt.ManifestFile = "manifest.yaml"

	res, err := Run(context.Background(), opt, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 5, res.MergedRows)
	assert.Equal(t, 4, res.Labeled)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 3, res.TidyRows)
	assert.ElementsMatch(t, []string{"merged_data.txt", "melted_data.txt", "tidy.txt", "manifest.yaml"}, listDir(t, opt.OutDir))

	merged, err := tabular.ReadFile(filepath.Join(opt.OutDir, "merged_data.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"tBodyAccMeanX", "tBodyAccStdX", "ActivityID", "SubjectID"}, merged.Header)
	assert.Len(t, merged.Rows, 5)
	assert.Equal(t, []string{"7", "-7", "3", "2"}, merged.Rows[4])

	melted, err := tabular.ReadFile(filepath.Join(opt.OutDir, "melted_data.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ActivityID", "ActivityName", "SubjectID", "variable", "value"}, melted.Header)
	assert.Len(t, melted.Rows, 8)
	assert.Equal(t, []string{"1", "WALKING", "1", "tBodyAccMeanX", "1"}, melted.Rows[0])

	tidy, err := tabular.ReadFile(filepath.Join(opt.OutDir, "tidy.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ActivityName", "SubjectID", "tBodyAccMeanX", "tBodyAccStdX"}, tidy.Header)
	assert.Equal(t, [][]string{
		{"LAYING", "1", "2", "-2"},
		{"WALKING", "1", "1", "-1"},
		{"WALKING", "2", "4", "-4"},
	}, tidy.Rows)

	b, err := os.ReadFile(filepath.Join(opt.OutDir, "manifest.yaml"))
	require.NoError(t, err)
	m, err := ReadManifest(b)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, m.RunID)
	assert.Equal(t, map[string]int{"test": 2, "train": 3}, m.Partitions)
	assert.Equal(t, 2, m.Variables)
	assert.Len(t, m.Outputs, 3)
}

func TestRunRoundTripScenario(t *testing.T) {
	dir := hartest.Write(t, hartest.Dataset{
		Features:   []string{"tBodyAcc-mean()-X"},
		Activities: []hartest.Activity{{ID: 1, Name: "WALKING"}},
		Partitions: map[string]hartest.Partition{
			"test":  {},
			"train": {X: [][]float64{{2.0}, {4.0}}, Activities: []int{1, 1}, Subjects: []int{5, 5}},
		},
	})
	opt := testOptions(t, dir)
	_, err := Run(context.Background(), opt, nil)
	require.NoError(t, err)

	tidy, err := tabular.ReadFile(filepath.Join(opt.OutDir, "tidy.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ActivityName", "SubjectID", "tBodyAccMeanX"}, tidy.Header)
	assert.Equal(t, [][]string{{"WALKING", "5", "3"}}, tidy.Rows)
}

func TestRunMismatchedRowsWritesNothing(t *testing.T) {
	ds := hartest.Small()
	train := ds.Partitions["train"]
	train.Activities = []int{1}
	ds.Partitions["train"] = train
	opt := testOptions(t, hartest.Write(t, ds))

	_, err := Run(context.Background(), opt, nil)
	assert.Equal(t, "MalformedDataError", har.Kind(err))
	assert.Empty(t, listDir(t, opt.OutDir))
}

func TestRunMissingLabelsWritesNothing(t *testing.T) {
	ds := hartest.Small()
	ds.Activities = nil
	opt := testOptions(t, hartest.Write(t, ds))

	_, err := Run(context.Background(), opt, nil)
	var missing *har.MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "activity_labels.txt", filepath.Base(missing.Path))
	assert.Empty(t, listDir(t, opt.OutDir))
}

func TestRunEmptyGroupKeepsMergedOnly(t *testing.T) {
	opt := testOptions(t, hartest.Write(t, hartest.Small()))
	opt.Required = []har.GroupKey{{ActivityName: "LAYING", SubjectID: 9}}

	_, err := Run(context.Background(), opt, nil)
	assert.Equal(t, "EmptyGroupError", har.Kind(err))
	assert.Equal(t, []string{"merged_data.txt"}, listDir(t, opt.OutDir))
}

func TestRunWithoutMelted(t *testing.T) {
	opt := testOptions(t, hartest.Write(t, hartest.Small()))
	opt.WriteMelted = false
	opt.Parallel = true

	res, err := Run(context.Background(), opt, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"merged_data.txt", "tidy.txt"}, listDir(t, opt.OutDir))
	assert.Len(t, res.Outputs, 2)
}

func TestRunRequiresTidyName(t *testing.T) {
	opt := testOptions(t, t.TempDir())
	opt.TidyFile = ""
	_, err := Run(context.Background(), opt, nil)
	require.Error(t, err)
}
