// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrative

import "strings"

// Style selects the writing style requested from the generator.
type Style string

const (
	StyleStandard     Style = "standard"
	StyleCritical     Style = "critical"
	StylePoetic       Style = "poetic"
	StyleAcademic     Style = "academic"
	StyleApproachable Style = "approachable"
)

// Styles lists every style in the order they are offered to users.
var Styles = []Style{StyleStandard, StyleCritical, StylePoetic, StyleAcademic, StyleApproachable}

var styleLabels = map[Style]string{
	StyleStandard:     "標準的",
	StyleCritical:     "評論的",
	StylePoetic:       "詩的",
	StyleAcademic:     "学術的",
	StyleApproachable: "親しみやすい",
}

var styleInstructions = map[Style]string{
	StyleStandard:     "客観的で読みやすい標準的な文体で書いてください。",
	StyleCritical:     "批判的かつ分析的な視点で、データの意味を深く考察する評論的な文体で書いてください。",
	StylePoetic:       "比喩やイメージを多用し、文学的で詩的な表現を用いた文体で書いてください。",
	StyleAcademic:     "学術論文のような形式で、専門用語を使い、論理的に分析する文体で書いてください。",
	StyleApproachable: "読者に語りかけるような親しみやすい口調で、わかりやすく説明する文体で書いてください。",
}

// ParseStyle resolves a style from its key ("poetic") or Japanese label
// ("詩的"). Unknown values fall back to StyleStandard.
func ParseStyle(s string) Style {
	s = strings.TrimSpace(s)
	if _, ok := styleInstructions[Style(strings.ToLower(s))]; ok {
		return Style(strings.ToLower(s))
	}
	for style, label := range styleLabels {
		if label == s {
			return style
		}
	}
	return StyleStandard
}

// Label returns the Japanese display name of the style.
func (s Style) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return styleLabels[StyleStandard]
}

// Instruction returns the clause appended to the prompt for the style.
// Unknown styles use the standard clause.
func (s Style) Instruction() string {
	if in, ok := styleInstructions[s]; ok {
		return in
	}
	return styleInstructions[StyleStandard]
}
