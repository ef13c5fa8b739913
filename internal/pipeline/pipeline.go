// Package pipeline runs the full read, merge, label and reshape sequence and writes the
// merged, melted and tidy tables.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/tidyhar/internal/har"
	"github.com/KaramelBytes/tidyhar/internal/tabular"
	"github.com/KaramelBytes/tidyhar/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a run. Relative output names are resolved against OutDir.
type Options struct {
	DataDir      string
	OutDir       string
	MergedFile   string
	MeltedFile   string
	TidyFile     string
	ManifestFile string // empty disables the manifest
	Parallel     bool
	WriteMelted  bool
	Required     []har.GroupKey
}

// DefaultOptions mirrors the fixed file names of the dataset tooling.
func DefaultOptions() Options {
	return Options{
		DataDir:     "UCI HAR Dataset",
		OutDir:      ".",
		MergedFile:  "merged_data.txt",
		MeltedFile:  "melted_data.txt",
		TidyFile:    "tidy.txt",
		WriteMelted: true,
	}
}

// Result summarizes a successful run.
type Result struct {
	RunID      string
	MergedRows int
	Labeled    int
	Dropped    int
	TidyRows   int
	Variables  []string
	// Outputs lists written files in write order.
	Outputs []string
}

func (o Options) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.OutDir, name)
}

// Run executes the pipeline. Outputs written by completed stages are kept when a later
// stage fails; the failing stage's own output is discarded.
func Run(ctx context.Context, opt Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opt.TidyFile == "" {
		return nil, fmt.Errorf("tidy output file name is required")
	}
	if opt.OutDir == "" {
		opt.OutDir = "."
	}
	started := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := logger.With(zap.String("run_id", res.RunID))

	// Labels first: a missing catalog must fail before anything is written.
	labels, err := har.ReadActivityLabels(opt.DataDir)
	if err != nil {
		return nil, err
	}
	log.Debug("activity labels loaded", zap.Int("activities", len(labels)))

	loader := har.NewLoader(opt.DataDir, log)
	merged, err := har.Merge(ctx, loader, har.MergeOptions{Parallel: opt.Parallel})
	if err != nil {
		return nil, err
	}
	res.MergedRows = len(merged.Rows)
	log.Info("partitions merged", zap.Int("rows", res.MergedRows), zap.Int("variables", len(merged.Variables)))

	if err := utils.EnsureDir(opt.OutDir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	mergedPath := opt.path(opt.MergedFile)
	if mergedPath != "" {
		if err := writeMerged(mergedPath, merged); err != nil {
			return nil, fmt.Errorf("write merged table: %w", err)
		}
		res.Outputs = append(res.Outputs, mergedPath)
		log.Info("merged table written", zap.String("path", mergedPath))
	}

	labeled := har.Label(merged, labels)
	res.Labeled, res.Dropped = len(labeled.Rows), labeled.Dropped
	if labeled.Dropped > 0 {
		log.Warn("rows without an activity label dropped", zap.Int("dropped", labeled.Dropped))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var melted *tabular.Writer
	var sink func(har.MeltedRow) error
	if opt.WriteMelted && opt.MeltedFile != "" {
		melted, err = tabular.Create(opt.path(opt.MeltedFile))
		if err != nil {
			return nil, err
		}
		if err := melted.WriteHeader(meltedHeader...); err != nil {
			melted.Abort()
			return nil, err
		}
		sink = meltedSink(melted)
	}
	tidy, err := har.Reshape(labeled, har.ReshapeOptions{Required: opt.Required}, sink)
	if err != nil {
		if melted != nil {
			melted.Abort()
		}
		return nil, err
	}
	if melted != nil {
		if err := melted.Commit(); err != nil {
			return nil, fmt.Errorf("write melted table: %w", err)
		}
		res.Outputs = append(res.Outputs, melted.Path())
		log.Info("melted table written", zap.String("path", melted.Path()), zap.Int("rows", melted.Rows()))
	}

	tidyPath := opt.path(opt.TidyFile)
	if err := writeTidy(tidyPath, tidy); err != nil {
		return nil, fmt.Errorf("write tidy table: %w", err)
	}
	res.Outputs = append(res.Outputs, tidyPath)
	res.TidyRows = len(tidy.Rows)
	res.Variables = tidy.Variables
	log.Info("tidy table written", zap.String("path", tidyPath), zap.Int("rows", res.TidyRows))

	if opt.ManifestFile != "" {
		m := &Manifest{
			RunID:      res.RunID,
			StartedAt:  started.UTC(),
			FinishedAt: time.Now().UTC(),
			DataDir:    opt.DataDir,
			Partitions: map[string]int{},
			MergedRows: res.MergedRows,
			Labeled:    res.Labeled,
			Dropped:    res.Dropped,
			TidyRows:   res.TidyRows,
			Variables:  len(res.Variables),
			Outputs:    res.Outputs,
		}
		for _, s := range merged.Sources {
			m.Partitions[s.Tag] = s.Rows
		}
		manifestPath := opt.path(opt.ManifestFile)
		if err := writeManifest(manifestPath, m); err != nil {
			return nil, err
		}
		res.Outputs = append(res.Outputs, manifestPath)
	}
	return res, nil
}
