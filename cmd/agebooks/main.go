// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the agebooks CLI. It reads book
// lists exported from a spreadsheet, finds titles of the form
// "〇〇歳からの…", and reports how target ages are distributed.
package main

import (
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/agebooks/internal/config"
	"github.com/pdiddy/agebooks/internal/secrets"
	"github.com/pdiddy/agebooks/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg holds the configuration loaded for the running command.
	cfg *types.Config

	// loadedSecrets holds API keys loaded from the secrets directory at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the agebooks CLI.
var rootCmd = &cobra.Command{
	Use:   "agebooks",
	Short: `Analyze the target ages of "〇〇歳からの" book titles`,
	Long: `agebooks reads bibliographic rows from CSV or XLSX exports (local files
or published spreadsheet URLs), keeps the titles that name a target age such
as "13歳からの…" or "六十歳からの…", and aggregates the ages into statistics.

The analyze command prints the distribution, export writes it as YAML, JSON,
and CSL-YAML, and article asks a generative model (Gemini or Claude) to write
a short essay about the numbers.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func setup(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := config.InitLogger(c.Log); err != nil {
		return err
	}
	cfg = c

	dir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(dir)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		zap.L().Debug("loaded secrets", zap.Strings("keys", keys))
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./agebooks.yaml or ~/.config/agebooks/agebooks.yaml)")
	pf.String("secrets-dir", ".secrets/", "directory of API key files")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
