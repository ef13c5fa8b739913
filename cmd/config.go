package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/tidyhar/internal/config"
	"github.com/KaramelBytes/tidyhar/internal/har"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tidyhar configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("data_dir: %s\n", cfg.DataDir)
		fmt.Printf("out_dir: %s\n", cfg.OutDir)
		fmt.Printf("merged_file: %s\n", cfg.MergedFile)
		fmt.Printf("melted_file: %s\n", cfg.MeltedFile)
		fmt.Printf("tidy_file: %s\n", cfg.TidyFile)
		if cfg.ManifestFile != "" {
			fmt.Printf("manifest_file: %s\n", cfg.ManifestFile)
		}
		fmt.Printf("parallel_load: %t\n", cfg.ParallelLoad)
		fmt.Printf("write_melted: %t\n", cfg.WriteMelted)
		if len(cfg.RequiredGroups) > 0 {
			fmt.Printf("required_groups: %s\n", strings.Join(cfg.RequiredGroups, ","))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_dir":
			cfg.DataDir = val
		case "out_dir":
			cfg.OutDir = val
		case "merged_file":
			cfg.MergedFile = val
		case "melted_file":
			cfg.MeltedFile = val
		case "tidy_file":
			if val == "" {
				return fmt.Errorf("tidy_file cannot be empty")
			}
			cfg.TidyFile = val
		case "manifest_file":
			cfg.ManifestFile = val
		case "parallel_load", "write_melted":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			if key == "parallel_load" {
				cfg.ParallelLoad = b
			} else {
				cfg.WriteMelted = b
			}
		case "required_groups":
			var groups []string
			for _, s := range strings.Split(val, ",") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				if _, err := har.ParseGroupKey(s); err != nil {
					return err
				}
				groups = append(groups, s)
			}
			cfg.RequiredGroups = groups
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
