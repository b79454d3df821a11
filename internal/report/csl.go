// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/agebooks/internal/decade"
	"github.com/pdiddy/agebooks/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML, consumable by Pandoc and
// reference managers.
type CSLItem struct {
	ID      string    `yaml:"id"`
	Type    string    `yaml:"type"`
	Title   string    `yaml:"title"`
	Author  []CSLName `yaml:"author,omitempty"`
	Issued  *CSLDate  `yaml:"issued,omitempty"`
	Keyword string    `yaml:"keyword,omitempty"`
	Note    string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSLOptions controls FormatCSL.
type CSLOptions struct {
	// Decades bounds the publication years accepted for the issued field.
	Decades decade.Normalizer
}

// FormatCSL writes the enriched records as a CSL-YAML list to w, in input
// order. Each entry notes its target age and decade.
func FormatCSL(records []types.EnrichedRecord, opts CSLOptions, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(i, r, opts)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(i int, r types.EnrichedRecord, opts CSLOptions) CSLItem {
	t, _ := r.Title()
	item := CSLItem{
		ID:    fmt.Sprintf("book-%04d", i+1),
		Type:  "book",
		Title: t,
	}

	if a, ok := r.Author(); ok {
		for _, name := range splitAuthors(a) {
			item.Author = append(item.Author, parseAuthorName(name))
		}
	}

	if date, ok := r.PublishDate(); ok {
		if year, ok := opts.Decades.Year(date); ok {
			item.Issued = &CSLDate{DateParts: [][]int{{year}}}
		}
	}

	if subj, ok := r.Subject(); ok {
		item.Keyword = strings.TrimSpace(subj)
	}

	note := fmt.Sprintf("対象年齢: %d歳", r.TargetAge)
	if r.HasDecade() {
		note += "; 年代: " + r.Decade
	}
	item.Note = note

	return item
}

// splitAuthors splits a creator cell holding several names separated by
// semicolons or slashes, ASCII or full-width.
func splitAuthors(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ';', '；', '/', '／':
			return true
		}
		return false
	})
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAuthorName splits a name written family-name first and separated by
// an ASCII or ideographic space. Names without a separator use the literal
// field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	fields := strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '　' })
	if len(fields) < 2 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: fields[0],
		Given:  strings.Join(fields[1:], " "),
	}
}
