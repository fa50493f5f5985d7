package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of ~/.lexbr/config.yaml.
type fileConfig struct {
	Library   string  `yaml:"library"`
	CacheDir  string  `yaml:"cache_dir"`
	CacheTTL  string  `yaml:"cache_ttl"`
	RateLimit float64 `yaml:"rate_limit"`
	UserAgent string  `yaml:"user_agent,omitempty"`
}

// currentConfig snapshots the effective configuration from viper.
func currentConfig() fileConfig {
	return fileConfig{
		Library:   viper.GetString("library"),
		CacheDir:  viper.GetString("cache_dir"),
		CacheTTL:  viper.GetString("cache_ttl"),
		RateLimit: viper.GetFloat64("rate_limit"),
		UserAgent: viper.GetString("user_agent"),
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lexbr configuration",
		Long: `Manage lexbr configuration.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (LEXBR_*)
3. Config file (~/.lexbr/config.yaml)
4. Defaults`,
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if used := viper.ConfigFileUsed(); used != "" {
				fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", used)
			} else {
				fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
			}

			data, err := yaml.Marshal(currentConfig())
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}

			configDir := filepath.Join(home, ".lexbr")
			configPath := filepath.Join(configDir, "config.yaml")

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists: %s", configPath)
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}

			data, err := yaml.Marshal(currentConfig())
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}

			fmt.Printf("Wrote %s\n", configPath)
			return nil
		},
	}
}
