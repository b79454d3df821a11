// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package title recognizes the "〇〇歳からの" (from age N onward) marker in
// book titles and recovers the target age it names.
//
// Two spellings of the age are accepted: decimal digits, ASCII or full-width
// (13歳からの, １３歳からの), and kanji numerals up to hundreds (十三歳からの).
// The digit spelling is tried first; the first match of whichever spelling
// matches is used.
package title

import (
	"regexp"
	"strconv"

	"golang.org/x/text/width"

	"github.com/pdiddy/agebooks/internal/numeral"
)

// Suffix is the literal that follows the age in a marked title.
const Suffix = "歳からの"

var (
	digitPattern = regexp.MustCompile(`([0-9０-９]+)` + Suffix)
	kanjiPattern = regexp.MustCompile(`([一二三四五六七八九十百]+)` + Suffix)
)

// Matches reports whether title contains the age marker in either spelling.
func Matches(title string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if title == "" {
		return false
	}
	return digitPattern.MatchString(title) || kanjiPattern.MatchString(title)
}

// ExtractAge returns the age named by the marker in title. It returns false
// when the title carries no marker or the age does not parse.
func ExtractAge(title string) (age int, ok bool) {
	defer func() {
		if recover() != nil {
			age, ok = 0, false
		}
	}()
	if title == "" {
		return 0, false
	}

	if m := digitPattern.FindStringSubmatch(title); m != nil {
		n, err := strconv.Atoi(width.Fold.String(m[1]))
		if err != nil {
			return 0, false
		}
		return n, true
	}

	if m := kanjiPattern.FindStringSubmatch(title); m != nil {
		n, err := numeral.Parse(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}

	return 0, false
}

// MatchesValue is Matches for loosely typed cell values. Anything other than
// a string or *string never matches.
func MatchesValue(v any) bool {
	s, ok := asString(v)
	return ok && Matches(s)
}

// ExtractAgeValue is ExtractAge for loosely typed cell values.
func ExtractAgeValue(v any) (int, bool) {
	s, ok := asString(v)
	if !ok {
		return 0, false
	}
	return ExtractAge(s)
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	default:
		return "", false
	}
}
