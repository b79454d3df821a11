// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/pdiddy/agebooks/internal/httputil"
	"github.com/pdiddy/agebooks/pkg/types"
)

const defaultUserAgent = "agebooks/0.1"

// CSVFile reads records from a local CSV export.
type CSVFile struct {
	Path      string
	Columns   types.Columns
	Delimiter rune // default ','
}

// FetchRows reads and parses the whole file.
func (f *CSVFile) FetchRows(ctx context.Context) ([]types.Record, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer file.Close()

	rows, err := readCSV(ctx, file, f.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	zap.L().Debug("read csv", zap.String("path", f.Path), zap.Int("rows", len(rows)))
	return rowsToRecords(rows, f.Columns), nil
}

// HTTPCSV downloads a CSV export, e.g. a spreadsheet published to the web
// with output=csv. HTTP 429 responses are retried with backoff.
type HTTPCSV struct {
	URL     string
	Columns types.Columns
	Client  *http.Client
	HTTP    types.HTTPConfig
}

// FetchRows downloads and parses the export.
func (h *HTTPCSV) FetchRows(ctx context.Context) ([]types.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	ua := h.HTTP.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/csv")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: h.HTTP.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, h.HTTP.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetching %s: status %d: %s", h.URL, resp.StatusCode, string(body))
	}

	rows, err := readCSV(ctx, resp.Body, 0)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", h.URL, err)
	}
	zap.L().Debug("downloaded csv", zap.String("url", h.URL), zap.Int("rows", len(rows)))
	return rowsToRecords(rows, h.Columns), nil
}

func readCSV(ctx context.Context, r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
}
