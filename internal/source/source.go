// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source fetches bibliographic rows from sheet exports: CSV files,
// published CSV URLs, and XLSX workbooks. The first row of every sheet is
// the header row; each following row becomes one types.Record.
package source

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/agebooks/pkg/types"
)

// Source delivers a fully materialized batch of records.
type Source interface {
	FetchRows(ctx context.Context) ([]types.Record, error)
}

// New picks a Source for input based on cfg.Format, the URL scheme, and the
// file extension. http(s) inputs are always read as CSV.
func New(input string, cfg types.SourceConfig, client *http.Client) (Source, error) {
	if isURL(input) {
		if cfg.Format == types.FormatXLSX {
			return nil, fmt.Errorf("xlsx inputs must be local files: %s", input)
		}
		return &HTTPCSV{URL: input, Columns: cfg.Columns, Client: client, HTTP: cfg.HTTPConfig}, nil
	}

	format := cfg.Format
	if format == types.FormatAuto {
		switch strings.ToLower(filepath.Ext(input)) {
		case ".xlsx":
			format = types.FormatXLSX
		case ".csv", ".tsv", ".txt":
			format = types.FormatCSV
		default:
			return nil, fmt.Errorf("cannot detect format of %s: set --source-format csv or xlsx", input)
		}
	}

	switch format {
	case types.FormatCSV:
		f := &CSVFile{Path: input, Columns: cfg.Columns}
		if strings.EqualFold(filepath.Ext(input), ".tsv") {
			f.Delimiter = '\t'
		}
		return f, nil
	case types.FormatXLSX:
		return &XLSXFile{Path: input, Sheet: cfg.Sheet, Columns: cfg.Columns}, nil
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
}

// FetchAll fetches every source concurrently and concatenates the records
// in source order. The first error cancels the remaining fetches.
func FetchAll(ctx context.Context, sources []Source) ([]types.Record, error) {
	batches := make([][]types.Record, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			recs, err := src.FetchRows(ctx)
			if err != nil {
				return err
			}
			batches[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, b := range batches {
		total += len(b)
	}
	out := make([]types.Record, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	zap.L().Debug("fetched records", zap.Int("sources", len(sources)), zap.Int("records", total))
	return out, nil
}

// rowsToRecords converts a header row plus data rows into records. Short
// rows are padded with empty cells; blank rows are skipped.
func rowsToRecords(rows [][]string, cols types.Columns) []types.Record {
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]types.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				fields[name] = row[i]
			} else {
				fields[name] = ""
			}
		}
		records = append(records, types.NewRecord(fields, cols))
	}
	return records
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
