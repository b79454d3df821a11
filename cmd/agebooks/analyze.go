// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/agebooks/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the target-age distribution of the input sheets",
	Long: `Analyze reads the input sheets, keeps the titles that carry an age
marker ("13歳からの…", "十三歳からの…"), and prints the overview, the per-age
histogram, the ten-year bands, the most frequent ages, the publication
decades, and the decade × age cross tabulation.

Use --format json or yaml to print the summary for other tools.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown --format %q: use table, json, or yaml", format)
	}

	a, err := runPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return report.EncodeJSON(a.summary, w)
	case "yaml":
		return report.EncodeYAML(a.summary, w)
	}

	if a.explainEmpty(w) {
		fmt.Fprintln(w)
		report.FormatEnrichment(a.report, w)
		return nil
	}
	report.FormatAll(a.summary, a.report, w)
	return nil
}

func init() {
	addSourceFlags(analyzeCmd)
	analyzeCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	rootCmd.AddCommand(analyzeCmd)
}
