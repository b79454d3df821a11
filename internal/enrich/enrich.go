// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich filters a batch of bibliographic records down to titles
// carrying the age marker and attaches the derived target age and decade.
package enrich

import (
	"github.com/pdiddy/agebooks/internal/decade"
	"github.com/pdiddy/agebooks/internal/title"
	"github.com/pdiddy/agebooks/pkg/types"
)

// Options tunes enrichment.
type Options struct {
	// Decades derives decade labels; its zero value accepts any year.
	Decades decade.Normalizer
}

// Report holds counts from one enrichment pass.
type Report struct {
	// Scanned is the number of input records.
	Scanned int

	// Matched is the number of records kept.
	Matched int

	// Unparsed counts titles that carry the marker but whose age did not
	// parse; those records are dropped.
	Unparsed int

	// WithDecade counts kept records that received a decade label.
	WithDecade int
}

// Dropped returns the number of records removed from the batch.
func (r Report) Dropped() int {
	return r.Scanned - r.Matched
}

// Enrich keeps the records whose title carries the age marker, in input
// order, and attaches their target age and decade.
func Enrich(records []types.Record) []types.EnrichedRecord {
	out, _ := EnrichWithReport(records, Options{})
	return out
}

// EnrichWithReport is Enrich with explicit options and a report of what was
// kept and dropped.
func EnrichWithReport(records []types.Record, opts Options) ([]types.EnrichedRecord, Report) {
	report := Report{Scanned: len(records)}
	out := make([]types.EnrichedRecord, 0, len(records))

	for _, rec := range records {
		t, ok := rec.Title()
		if !ok || !title.Matches(t) {
			continue
		}

		age, ok := title.ExtractAge(t)
		if !ok {
			report.Unparsed++
			continue
		}

		e := types.EnrichedRecord{Record: rec, TargetAge: age}
		if date, ok := rec.PublishDate(); ok {
			if label, ok := opts.Decades.Extract(date); ok {
				e.Decade = label
				report.WithDecade++
			}
		}

		out = append(out, e)
		report.Matched++
	}

	return out, report
}
