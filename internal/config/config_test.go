package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "UCI HAR Dataset", c.DataDir)
	assert.Equal(t, ".", c.OutDir)
	assert.Equal(t, "merged_data.txt", c.MergedFile)
	assert.Equal(t, "melted_data.txt", c.MeltedFile)
	assert.Equal(t, "tidy.txt", c.TidyFile)
	assert.True(t, c.WriteMelted)
	assert.False(t, c.ParallelLoad)
	assert.Empty(t, c.ManifestFile)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "tidyhar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /data/har\ntidy_file: summary.txt\nparallel_load: true\n"), 0o644))
	t.Setenv("TIDYHAR_TIDY_FILE", "from-env.txt")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/har", c.DataDir)
	assert.Equal(t, "from-env.txt", c.TidyFile)
	assert.True(t, c.ParallelLoad)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := &Global{
		DataDir:        "dataset",
		OutDir:         "out",
		MergedFile:     "m.txt",
		MeltedFile:     "l.txt",
		TidyFile:       "t.txt",
		WriteMelted:    false,
		RequiredGroups: []string{"WALKING:1"},
	}
	require.NoError(t, Save(c, ""))

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, c.DataDir, got.DataDir)
	assert.Equal(t, c.OutDir, got.OutDir)
	assert.Equal(t, c.TidyFile, got.TidyFile)
	assert.False(t, got.WriteMelted)
	assert.Equal(t, []string{"WALKING:1"}, got.RequiredGroups)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
