// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/agebooks/internal/decade"
	"github.com/pdiddy/agebooks/internal/enrich"
	"github.com/pdiddy/agebooks/internal/source"
	"github.com/pdiddy/agebooks/internal/stats"
	"github.com/pdiddy/agebooks/pkg/types"
)

// Messages shown when there is nothing to analyze.
const (
	msgFetchFailed = "データを取得できませんでした。入力ファイルまたはURLを確認してください。"
	msgNoAges      = "年齢データを抽出できた書籍がありません。タイトルに年齢情報が含まれているか確認してください。"
)

// analysis is the result of one pass through the pipeline.
type analysis struct {
	records []types.EnrichedRecord
	report  enrich.Report
	summary types.Summary

	// fetchErr is set when the sources could not be read; the batch is
	// then empty.
	fetchErr error
}

// addSourceFlags registers the flags that select and read the input sheets.
func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("input", "i", nil, "CSV/XLSX file or published CSV URL (repeatable)")
	f.String("sheet", "", "worksheet name for XLSX inputs (default: first sheet)")
	f.String("source-format", "", "force the input format: csv or xlsx")
	f.String("user-agent", "", "User-Agent header for URL inputs")
	f.Int("min-year", 0, "ignore publish years before this (0 = unbounded)")
	f.Int("max-year", 0, "ignore publish years after this (0 = unbounded)")
}

// runPipeline fetches every configured input, enriches the rows, and
// aggregates the statistics. A fetch failure is logged and yields an empty
// batch; only configuration errors are returned.
func runPipeline(ctx context.Context, c *types.Config) (analysis, error) {
	if len(c.Source.Inputs) == 0 {
		return analysis{}, errors.New("no input: pass --input or set source.inputs in agebooks.yaml")
	}

	client := &http.Client{Timeout: c.Source.Timeout}
	sources := make([]source.Source, 0, len(c.Source.Inputs))
	for _, in := range c.Source.Inputs {
		src, err := source.New(in, c.Source, client)
		if err != nil {
			return analysis{}, err
		}
		sources = append(sources, src)
	}

	var a analysis
	rows, err := source.FetchAll(ctx, sources)
	if err != nil {
		zap.L().Error("fetching records failed", zap.Strings("inputs", c.Source.Inputs), zap.Error(err))
		a.fetchErr = err
		rows = nil
	}

	opts := enrich.Options{Decades: decade.Normalizer{MinYear: c.Decade.MinYear, MaxYear: c.Decade.MaxYear}}
	a.records, a.report = enrich.EnrichWithReport(rows, opts)
	a.summary = stats.Aggregate(a.records)

	zap.L().Debug("pipeline finished",
		zap.Int("scanned", a.report.Scanned),
		zap.Int("matched", a.report.Matched),
		zap.Int("unparsed", a.report.Unparsed),
	)
	return a, nil
}

// explainEmpty writes why the batch has no ages. It reports whether a
// message was written.
func (a analysis) explainEmpty(w io.Writer) bool {
	switch {
	case a.fetchErr != nil:
		fmt.Fprintln(w, msgFetchFailed)
		return true
	case a.summary.IsEmpty():
		fmt.Fprintln(w, msgNoAges)
		return true
	}
	return false
}
