package pipeline

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/tidyhar/internal/utils"
	"gopkg.in/yaml.v3"
)

// Manifest describes one pipeline run.
type Manifest struct {
	RunID      string         `yaml:"run_id"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at"`
	DataDir    string         `yaml:"data_dir"`
	Partitions map[string]int `yaml:"partitions"`
	MergedRows int            `yaml:"merged_rows"`
	Labeled    int            `yaml:"labeled_rows"`
	Dropped    int            `yaml:"dropped_rows"`
	TidyRows   int            `yaml:"tidy_rows"`
	Variables  int            `yaml:"variables"`
	Outputs    []string       `yaml:"outputs"`
}

func writeManifest(path string, m *Manifest) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// ReadManifest loads a manifest written by Run.
func ReadManifest(b []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
