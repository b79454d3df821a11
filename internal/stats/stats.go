// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats aggregates enriched records into the descriptive statistics
// consumed by the report tables and the article prompt.
package stats

import (
	"fmt"
	"sort"

	"github.com/pdiddy/agebooks/pkg/types"
)

const (
	// TopN is the number of ages kept in Summary.TopAges.
	TopN = 10

	bandWidth = 10

	// openBandLow is the lower bound of the open-ended last band.
	openBandLow = 90
)

// Aggregate computes the statistics summary of an enriched batch. An empty
// batch yields zero statistics and ten empty bands.
func Aggregate(records []types.EnrichedRecord) types.Summary {
	s := types.Summary{
		TotalCount: len(records),
		AgeBands:   Bands(records),
	}
	if len(records) == 0 {
		s.TopAges = []types.AgeCount{}
		s.AgeHistogram = []types.AgeCount{}
		return s
	}

	ages := make([]int, len(records))
	for i, r := range records {
		ages[i] = r.TargetAge
	}

	s.MeanAge = mean(ages)
	s.MedianAge = median(ages)
	s.MinAge, s.MaxAge = extrema(ages)

	counts := countByFirstSeen(ages)
	s.TopAges = topAges(counts, TopN)
	if len(s.TopAges) > 0 {
		peak := s.TopAges[0]
		s.Peak = &peak
	}
	s.AgeHistogram = histogram(counts)

	s.DecadeCounts = decadeCounts(records)
	s.DecadeAges = CrossTab(records)

	return s
}

// Bands counts records per fixed ten-year band: 0-9歳 through 80-89歳 and
// 90歳以上. Bands are always returned in ascending order, empty or not.
func Bands(records []types.EnrichedRecord) []types.BandCount {
	bands := make([]types.BandCount, 0, openBandLow/bandWidth+1)
	for low := 0; low < openBandLow; low += bandWidth {
		bands = append(bands, types.BandCount{
			Label: fmt.Sprintf("%d-%d歳", low, low+bandWidth-1),
			Low:   low,
			High:  low + bandWidth,
		})
	}
	bands = append(bands, types.BandCount{
		Label: fmt.Sprintf("%d歳以上", openBandLow),
		Low:   openBandLow,
	})

	for _, r := range records {
		age := r.TargetAge
		switch {
		case age < 0:
			continue
		case age >= openBandLow:
			bands[len(bands)-1].Count++
		default:
			bands[age/bandWidth].Count++
		}
	}
	return bands
}

// CrossTab tabulates records by decade and age. Records without a decade
// are left out. Cells are ordered by age, then decade, so each age's
// stack grows from the oldest decade.
func CrossTab(records []types.EnrichedRecord) []types.DecadeAgeCount {
	type key struct {
		decade string
		age    int
	}
	counts := make(map[key]int)
	for _, r := range records {
		if !r.HasDecade() {
			continue
		}
		counts[key{r.Decade, r.TargetAge}]++
	}
	if len(counts) == 0 {
		return nil
	}

	cells := make([]types.DecadeAgeCount, 0, len(counts))
	for k, n := range counts {
		cells = append(cells, types.DecadeAgeCount{Decade: k.decade, Age: k.age, Count: n})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Age != cells[j].Age {
			return cells[i].Age < cells[j].Age
		}
		return cells[i].Decade < cells[j].Decade
	})
	return cells
}

// countByFirstSeen counts ages, keeping them in the order first encountered.
func countByFirstSeen(ages []int) []types.AgeCount {
	index := make(map[int]int)
	var counts []types.AgeCount
	for _, a := range ages {
		i, ok := index[a]
		if !ok {
			i = len(counts)
			index[a] = i
			counts = append(counts, types.AgeCount{Age: a})
		}
		counts[i].Count++
	}
	return counts
}

func topAges(counts []types.AgeCount, n int) []types.AgeCount {
	sorted := make([]types.AgeCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func histogram(counts []types.AgeCount) []types.AgeCount {
	h := make([]types.AgeCount, len(counts))
	copy(h, counts)
	sort.Slice(h, func(i, j int) bool { return h[i].Age < h[j].Age })
	return h
}

func decadeCounts(records []types.EnrichedRecord) map[string]int {
	var counts map[string]int
	for _, r := range records {
		if !r.HasDecade() {
			continue
		}
		if counts == nil {
			counts = make(map[string]int)
		}
		counts[r.Decade]++
	}
	return counts
}

func mean(values []int) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

func extrema(values []int) (lo, hi int) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
