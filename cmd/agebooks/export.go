// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/agebooks/internal/decade"
	"github.com/pdiddy/agebooks/internal/report"
	"github.com/pdiddy/agebooks/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the summary as YAML and JSON files",
	Long: `Export runs the same analysis as analyze and writes summary.yaml and
summary.json into --out. With --csl it also writes records.csl.yaml, a
CSL-YAML bibliography of the matched books for Pandoc or reference managers.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	withCSL, _ := cmd.Flags().GetBool("csl")

	a, err := runPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	a.explainEmpty(w)

	var records []types.EnrichedRecord
	if withCSL {
		records = append([]types.EnrichedRecord{}, a.records...)
	}

	opts := report.CSLOptions{Decades: decade.Normalizer{MinYear: cfg.Decade.MinYear, MaxYear: cfg.Decade.MaxYear}}
	paths, err := report.WriteFiles(out, a.summary, records, opts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(w, "wrote %s\n", p)
	}
	return nil
}

func init() {
	addSourceFlags(exportCmd)
	exportCmd.Flags().StringP("out", "o", "export", "output directory")
	exportCmd.Flags().Bool("csl", false, "also write records.csl.yaml")
	rootCmd.AddCommand(exportCmd)
}
