package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tidyhar/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	repOutputPath string
	repSampleRows int
	repMaxRows    int
	repGroupBy    []string
	repOutliers   bool
	repOutlierThr float64
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Profile a written table (default: the tidy output) as Markdown",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultTidyPath()
		if len(args) == 1 {
			path = args[0]
		}
		opt := analysis.DefaultOptions()
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = repSampleRows
		}
		if cmd.Flags().Changed("max-rows") {
			opt.MaxRows = repMaxRows
		}
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = repOutliers
		}
		if repOutlierThr > 0 {
			opt.OutlierThreshold = repOutlierThr
		}
		opt.GroupBy = repGroupBy

		rep, err := analysis.AnalyzeTable(path, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if repOutputPath == "" {
			fmt.Println(md)
			return nil
		}
		if err := os.WriteFile(repOutputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("✓ Wrote report to %s\n", repOutputPath)
		return nil
	},
}

func defaultTidyPath() string {
	if cfg == nil {
		return "tidy.txt"
	}
	if filepath.IsAbs(cfg.TidyFile) {
		return cfg.TidyFile
	}
	return filepath.Join(cfg.OutDir, cfg.TidyFile)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	reportCmd.Flags().IntVar(&repSampleRows, "sample-rows", 5, "number of sample rows to include")
	reportCmd.Flags().IntVar(&repMaxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	reportCmd.Flags().StringSliceVar(&repGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	reportCmd.Flags().BoolVar(&repOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	reportCmd.Flags().Float64Var(&repOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
