// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/agebooks/internal/decade"
	"github.com/pdiddy/agebooks/internal/enrich"
	"github.com/pdiddy/agebooks/pkg/types"
)

// NoData is printed in place of a statistic that has no observations.
const NoData = "データなし"

var headingStyle = lipgloss.NewStyle().Bold(true)

// Table is a titled grid of cells rendered with display-width aware
// padding, so full-width text lines up in a terminal.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string

	// Right lists the columns aligned to the right, typically counts.
	Right map[int]bool
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, Right: map[int]bool{}}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table to w. An empty table prints its title followed by
// NoData.
func (t *Table) Render(w io.Writer) {
	if t.Title != "" {
		fmt.Fprintln(w, headingStyle.Render(t.Title))
	}
	if len(t.Rows) == 0 {
		fmt.Fprintf(w, "  %s\n\n", NoData)
		return
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	t.writeRow(w, t.Headers, widths)
	seps := make([]string, len(widths))
	for i, n := range widths {
		seps[i] = strings.Repeat("-", n)
	}
	fmt.Fprintln(w, "  "+strings.Join(seps, "  "))
	for _, row := range t.Rows {
		t.writeRow(w, row, widths)
	}
	fmt.Fprintln(w)
}

func (t *Table) writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if t.Right[i] {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	fmt.Fprintln(w, strings.TrimRight("  "+strings.Join(parts, "  "), " "))
}

// FormatOverview writes the headline metrics: collected count, mean age,
// and the peak age.
func FormatOverview(s types.Summary, w io.Writer) {
	t := NewTable("概要", "指標", "値")
	t.AddRow("収集済み書籍数", fmt.Sprintf("%d 冊", s.TotalCount))
	if s.IsEmpty() {
		t.AddRow("平均対象年齢", NoData)
		t.AddRow("中央値", NoData)
		t.AddRow("最も多い対象年齢", NoData)
	} else {
		t.AddRow("平均対象年齢", fmt.Sprintf("%.1f 歳", s.MeanAge))
		t.AddRow("中央値", fmt.Sprintf("%.1f 歳", s.MedianAge))
		t.AddRow("最年少 / 最年長", fmt.Sprintf("%d歳 / %d歳", s.MinAge, s.MaxAge))
		if s.Peak != nil {
			t.AddRow("最も多い対象年齢", fmt.Sprintf("%d歳 (%d冊)", s.Peak.Age, s.Peak.Count))
		}
	}
	t.Render(w)
}

// FormatHistogram writes the number of books for every observed age with a
// proportional bar.
func FormatHistogram(s types.Summary, w io.Writer) {
	t := NewTable("年齢ごとの書籍数分布", "対象年齢", "冊数", "")
	t.Right[1] = true
	peak := 0
	for _, ac := range s.AgeHistogram {
		peak = max(peak, ac.Count)
	}
	for _, ac := range s.AgeHistogram {
		t.AddRow(fmt.Sprintf("%d歳", ac.Age), strconv.Itoa(ac.Count), bar(ac.Count, peak))
	}
	t.Render(w)
}

// FormatBands writes the ten-year age bands.
func FormatBands(s types.Summary, w io.Writer) {
	t := NewTable("年齢層別", "年齢層", "冊数")
	t.Right[1] = true
	for _, b := range s.AgeBands {
		t.AddRow(b.Label, strconv.Itoa(b.Count))
	}
	t.Render(w)
}

// FormatTopAges writes the most frequent target ages.
func FormatTopAges(s types.Summary, w io.Writer) {
	t := NewTable("人気の対象年齢", "順位", "対象年齢", "冊数")
	t.Right[0] = true
	t.Right[2] = true
	for i, ac := range s.TopAges {
		t.AddRow(strconv.Itoa(i+1), fmt.Sprintf("%d歳", ac.Age), strconv.Itoa(ac.Count))
	}
	t.Render(w)
}

// FormatDecades writes the book count per publication decade in
// chronological order.
func FormatDecades(s types.Summary, w io.Writer) {
	t := NewTable("年代別書籍数", "年代", "冊数")
	t.Right[1] = true
	for _, label := range SortedDecades(s.DecadeCounts) {
		t.AddRow(label, strconv.Itoa(s.DecadeCounts[label]))
	}
	t.Render(w)
}

// FormatCrossTab writes the decade × age cross tabulation as a grid with
// one row per decade and one column per age.
func FormatCrossTab(s types.Summary, w io.Writer) {
	var ages []int
	seenAge := map[int]bool{}
	cells := map[string]map[int]int{}
	for _, c := range s.DecadeAges {
		if !seenAge[c.Age] {
			seenAge[c.Age] = true
			ages = append(ages, c.Age)
		}
		if cells[c.Decade] == nil {
			cells[c.Decade] = map[int]int{}
		}
		cells[c.Decade][c.Age] += c.Count
	}
	sort.Ints(ages)

	headers := []string{"年代"}
	for _, a := range ages {
		headers = append(headers, fmt.Sprintf("%d歳", a))
	}
	t := NewTable("各年代×対象年齢別の書籍数", headers...)
	for i := range ages {
		t.Right[i+1] = true
	}

	decades := make([]string, 0, len(cells))
	for d := range cells {
		decades = append(decades, d)
	}
	for _, d := range sortDecadeLabels(decades) {
		row := []string{d}
		for _, a := range ages {
			if n := cells[d][a]; n > 0 {
				row = append(row, strconv.Itoa(n))
			} else {
				row = append(row, "")
			}
		}
		t.AddRow(row...)
	}
	t.Render(w)
}

// FormatEnrichment writes how many records were scanned, kept, and dropped.
func FormatEnrichment(r enrich.Report, w io.Writer) {
	t := NewTable("抽出結果", "項目", "件数")
	t.Right[1] = true
	t.AddRow("読み込んだ行", strconv.Itoa(r.Scanned))
	t.AddRow("抽出した書籍", strconv.Itoa(r.Matched))
	t.AddRow("除外した行", strconv.Itoa(r.Dropped()))
	t.AddRow("年齢を解釈できなかった行", strconv.Itoa(r.Unparsed))
	t.AddRow("年代付きの書籍", strconv.Itoa(r.WithDecade))
	t.Render(w)
}

// FormatAll writes every table in dashboard order.
func FormatAll(s types.Summary, r enrich.Report, w io.Writer) {
	FormatOverview(s, w)
	FormatHistogram(s, w)
	FormatBands(s, w)
	FormatTopAges(s, w)
	FormatDecades(s, w)
	if len(s.DecadeAges) > 0 {
		FormatCrossTab(s, w)
	}
	FormatEnrichment(r, w)
}

// SortedDecades returns the decade labels of counts in chronological order.
func SortedDecades(counts map[string]int) []string {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	return sortDecadeLabels(labels)
}

// sortDecadeLabels orders labels like "1990年代" by their numeric prefix,
// falling back to string order for anything unparsable.
func sortDecadeLabels(labels []string) []string {
	sort.Slice(labels, func(i, j int) bool {
		a, aok := decadeValue(labels[i])
		b, bok := decadeValue(labels[j])
		if aok && bok && a != b {
			return a < b
		}
		if aok != bok {
			return aok
		}
		return labels[i] < labels[j]
	})
	return labels
}

func decadeValue(label string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSuffix(label, decade.Suffix))
	return n, err == nil
}

const barWidth = 30

func bar(n, peak int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*barWidth/peak))
}
