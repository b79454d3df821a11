// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decade buckets free-text publish dates into decade labels such as
// "1990年代".
package decade

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/width"
)

// Suffix is appended to the decade's first year to form its label.
const Suffix = "年代"

// yearPattern matches the first four digits of a digit run. Full-width
// digits are folded to ASCII before matching.
var yearPattern = regexp.MustCompile(`[0-9]{4}`)

// Normalizer derives decade labels, optionally rejecting implausible years.
// A zero MinYear or MaxYear leaves that side unbounded.
type Normalizer struct {
	MinYear int
	MaxYear int
}

// Extract returns the decade label of the first four-digit run in date using
// an unbounded Normalizer. Any four-digit run is accepted as a year.
func Extract(date string) (string, bool) {
	return Normalizer{}.Extract(date)
}

// Extract returns the decade label of the first four-digit run in date, or
// false when there is none or the year falls outside the bounds.
func (n Normalizer) Extract(date string) (label string, ok bool) {
	defer func() {
		if recover() != nil {
			label, ok = "", false
		}
	}()

	year, ok := n.Year(date)
	if !ok {
		return "", false
	}
	return Label(Decade(year)), true
}

// Year returns the year taken from the first four-digit run in date.
func (n Normalizer) Year(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	m := yearPattern.FindString(width.Fold.String(date))
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if n.MinYear != 0 && year < n.MinYear {
		return 0, false
	}
	if n.MaxYear != 0 && year > n.MaxYear {
		return 0, false
	}
	return year, true
}

// Decade returns the first year of the decade containing year.
func Decade(year int) int {
	return (year / 10) * 10
}

// Label formats a decade's first year as its label.
func Label(decade int) string {
	return fmt.Sprintf("%d%s", decade, Suffix)
}
