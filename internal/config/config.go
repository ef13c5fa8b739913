package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	OutDir       string `mapstructure:"out_dir" yaml:"out_dir"`
	MergedFile   string `mapstructure:"merged_file" yaml:"merged_file"`
	MeltedFile   string `mapstructure:"melted_file" yaml:"melted_file"`
	TidyFile     string `mapstructure:"tidy_file" yaml:"tidy_file"`
	ManifestFile string `mapstructure:"manifest_file" yaml:"manifest_file"`
	ParallelLoad bool   `mapstructure:"parallel_load" yaml:"parallel_load"`
	WriteMelted  bool   `mapstructure:"write_melted" yaml:"write_melted"`
	// Groups that must appear in the tidy output, as NAME:SUBJECT.
	RequiredGroups []string `mapstructure:"required_groups" yaml:"required_groups"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tidyhar"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tidyhar/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TIDYHAR")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "UCI HAR Dataset")
	v.SetDefault("out_dir", ".")
	v.SetDefault("merged_file", "merged_data.txt")
	v.SetDefault("melted_file", "melted_data.txt")
	v.SetDefault("tidy_file", "tidy.txt")
	v.SetDefault("manifest_file", "")
	v.SetDefault("parallel_load", false)
	v.SetDefault("write_melted", true)
	v.SetDefault("required_groups", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
