// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package numeral parses Japanese kanji numerals such as 十三 or 二千二十四
// into integers.
//
// A digit placed before a place character (十, 百, 千) multiplies it; a place
// character with no digit before it counts once. Groups are summed, and a
// large place (万, 億) multiplies everything accumulated below it. Runs of
// digits without place characters are read positionally, so 二〇二三 is 2023.
package numeral

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmpty is returned for empty input.
	ErrEmpty = errors.New("empty numeral")

	// ErrInvalidChar is returned when the input has a character outside the vocabulary.
	ErrInvalidChar = errors.New("character outside numeral vocabulary")

	// ErrMalformed is returned when place characters appear out of order.
	ErrMalformed = errors.New("malformed numeral")

	// ErrZero is returned when the numeral evaluates to zero.
	ErrZero = errors.New("numeral evaluates to zero")
)

// ParseError records a failed parse and the offending input.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing numeral %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var digits = map[rune]int{
	'〇': 0, '零': 0,
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// smallPlaces multiply a single digit within a four-digit section.
var smallPlaces = map[rune]int{
	'十': 10,
	'百': 100,
	'千': 1000,
}

// largePlaces multiply a whole section.
var largePlaces = map[rune]int{
	'万': 10000,
	'億': 100000000,
}

// Parse converts a kanji numeral into an integer. It never returns 0 without
// an error: empty input, unknown characters, out-of-order places and numerals
// that evaluate to zero all fail with a *ParseError.
func Parse(text string) (int, error) {
	if text == "" {
		return 0, &ParseError{Text: text, Err: ErrEmpty}
	}

	var (
		total     int
		section   int
		pending   int
		hasDigit  bool
		lastSmall = math.MaxInt
		lastLarge = math.MaxInt
	)

	fail := func(err error) (int, error) {
		return 0, &ParseError{Text: text, Err: err}
	}

	for _, r := range text {
		if d, ok := digits[r]; ok {
			pending = pending*10 + d
			hasDigit = true
			if pending > math.MaxInt32 {
				return fail(ErrMalformed)
			}
			continue
		}

		if p, ok := smallPlaces[r]; ok {
			if p >= lastSmall {
				return fail(ErrMalformed)
			}
			mult := 1
			if hasDigit {
				if pending == 0 {
					return fail(ErrMalformed)
				}
				mult = pending
			}
			if mult > 9 {
				return fail(ErrMalformed)
			}
			section += mult * p
			pending, hasDigit = 0, false
			lastSmall = p
			continue
		}

		if p, ok := largePlaces[r]; ok {
			if p >= lastLarge {
				return fail(ErrMalformed)
			}
			group := section + pending
			if group == 0 {
				if hasDigit || lastLarge != math.MaxInt {
					return fail(ErrMalformed)
				}
				group = 1
			}
			if group > math.MaxInt/p {
				return fail(ErrMalformed)
			}
			total += group * p
			section, pending, hasDigit = 0, 0, false
			lastSmall = math.MaxInt
			lastLarge = p
			continue
		}

		return fail(fmt.Errorf("%w: %q", ErrInvalidChar, r))
	}

	if hasDigit && section > 0 && pending >= 10 {
		// Positional runs only make sense without small places (十二三 is not a number).
		return fail(ErrMalformed)
	}

	result := total + section + pending
	if result == 0 {
		return fail(ErrZero)
	}
	return result, nil
}
