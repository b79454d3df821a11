// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a statistics summary for people and for other
// tools: YAML and JSON exports, CSL-YAML of the matched books, and text
// tables for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/agebooks/pkg/types"
)

// Export file names written by WriteFiles.
const (
	SummaryYAML = "summary.yaml"
	SummaryJSON = "summary.json"
	RecordsCSL  = "records.csl.yaml"
)

// EncodeYAML writes s as YAML to w.
func EncodeYAML(s types.Summary, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes s as indented JSON to w.
func EncodeJSON(s types.Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteFiles writes summary.yaml and summary.json into dir, creating it if
// needed. When records is non-nil records.csl.yaml is written as well. It
// returns the paths written.
func WriteFiles(dir string, s types.Summary, records []types.EnrichedRecord, opts CSLOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	var written []string
	write := func(name string, encode func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := encode(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(SummaryYAML, func(w io.Writer) error { return EncodeYAML(s, w) }); err != nil {
		return written, err
	}
	if err := write(SummaryJSON, func(w io.Writer) error { return EncodeJSON(s, w) }); err != nil {
		return written, err
	}
	if records != nil {
		if err := write(RecordsCSL, func(w io.Writer) error { return FormatCSL(records, opts, w) }); err != nil {
			return written, err
		}
	}
	return written, nil
}
