// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AgeCount pairs a target age with the number of books aimed at it.
type AgeCount struct {
	Age   int `json:"age" yaml:"age"`
	Count int `json:"count" yaml:"count"`
}

// BandCount is the number of books whose target age falls in a fixed band.
type BandCount struct {
	// Label names the band, e.g. "10-19歳" or "90歳以上".
	Label string `json:"label" yaml:"label"`

	// Low is the inclusive lower bound of the band.
	Low int `json:"low" yaml:"low"`

	// High is the exclusive upper bound; 0 marks the open-ended band.
	High int `json:"high,omitempty" yaml:"high,omitempty"`

	Count int `json:"count" yaml:"count"`
}

// DecadeAgeCount is one cell of the decade × age cross tabulation.
type DecadeAgeCount struct {
	Decade string `json:"decade" yaml:"decade"`
	Age    int    `json:"age" yaml:"age"`
	Count  int    `json:"count" yaml:"count"`
}

// Summary holds the descriptive statistics of an enriched batch. Statistics
// over ages are zero when TotalCount is zero.
type Summary struct {
	// TotalCount is the number of enriched records.
	TotalCount int `json:"total_count" yaml:"total_count"`

	// MeanAge is the arithmetic mean target age.
	MeanAge float64 `json:"mean_age" yaml:"mean_age"`

	// MedianAge is the median target age.
	MedianAge float64 `json:"median_age" yaml:"median_age"`

	MinAge int `json:"min_age" yaml:"min_age"`
	MaxAge int `json:"max_age" yaml:"max_age"`

	// TopAges lists up to ten ages by descending count. Ties keep the order
	// in which the ages were first seen in the batch.
	TopAges []AgeCount `json:"top_ages" yaml:"top_ages"`

	// Peak is the first entry of TopAges, nil for an empty batch.
	Peak *AgeCount `json:"peak,omitempty" yaml:"peak,omitempty"`

	// DecadeCounts maps decade labels to book counts. Nil when no record
	// carries a decade.
	DecadeCounts map[string]int `json:"decade_counts,omitempty" yaml:"decade_counts,omitempty"`

	// AgeBands lists the fixed ten-year bands in ascending order.
	AgeBands []BandCount `json:"age_bands" yaml:"age_bands"`

	// AgeHistogram lists every observed age in ascending order.
	AgeHistogram []AgeCount `json:"age_histogram" yaml:"age_histogram"`

	// DecadeAges is the decade × age cross tabulation in long form, ordered
	// by age then decade, without empty cells.
	DecadeAges []DecadeAgeCount `json:"decade_ages,omitempty" yaml:"decade_ages,omitempty"`
}

// IsEmpty reports whether the summary covers no records.
func (s Summary) IsEmpty() bool { return s.TotalCount == 0 }

// HasDecades reports whether decade counts are available.
func (s Summary) HasDecades() bool { return len(s.DecadeCounts) > 0 }
