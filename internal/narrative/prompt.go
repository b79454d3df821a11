// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package narrative turns a statistics summary into the prompt for an
// analytical article and hands it to a text generator.
package narrative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/pdiddy/agebooks/pkg/types"
)

// articlePromptTmpl is the instruction sent to the generator. The decade
// outline item is only present when decade data exist.
var articlePromptTmpl = template.Must(template.New("article").Parse(`以下の年齢別書籍数の統計データを分析して、考察記事を書いてください。
特に、「なぜそのような出版傾向になっているのか」という原因や背景を深く考察することが重要です。

【統計データ】
- 総書籍数: {{.Total}}冊
- 平均対象年齢: {{.Mean}}歳
- 最小年齢: {{.Min}}歳
- 最大年齢: {{.Max}}歳
- 中央値年齢: {{.Median}}歳
- ピーク年齢: {{.PeakAge}}歳（書籍数: {{.PeakCount}}冊）

【年齢別書籍数（上位10位）】
{{range .TopAges}}- {{.Age}}歳: {{.Count}}冊
{{else}}データなし
{{end}}
【年齢帯別書籍数】
{{range .Bands}}- {{.Label}}: {{.Count}}冊
{{end}}{{if .Histogram}}
【全年齢の書籍数（年齢順）】
{{range .Histogram}}- {{.Age}}歳: {{.Count}}冊
{{end}}{{end}}
【年代別書籍数】
{{range .Decades}}- {{.Label}}: {{.Count}}冊
{{else}}データなし
{{end}}{{if .DecadeAges}}
【年代×年齢の書籍数】
{{range .DecadeAges}}- {{.Decade}} {{.Age}}歳: {{.Count}}冊
{{end}}{{end}}{{if .Notes}}
【ユーザーの気づき・観察】
{{.Notes}}

上記のユーザーの気づきや観察も踏まえて、考察記事に反映してください。
{{end}}
以下の構成で、{{.LengthHint}}程度の考察記事を書いてください：
1. 導入（データの概要と主要な傾向）
2. 年齢分布の特徴とその背景
   - 特定の年齢層に書籍が集中している理由
   - 社会的・文化的な背景の考察
{{if .Decades}}3. 年代別の傾向とその背景
   - 時代の変化が出版傾向に与えた影響
4. 総合的な考察とまとめ
{{else}}3. 総合的な考察とまとめ
{{end}}   - なぜこのような出版傾向が生まれたのか
   - 社会背景、市場ニーズ、文化的要因などの多角的な分析

記事は読みやすく、データに基づいた具体的な分析を含めてください。
特に、単に「どのような傾向があるか」を述べるだけでなく、「なぜそのような傾向になっているのか」という原因や背景を深く考察することが重要です。
また、{{.StyleInstruction}}`))

// LengthHint is the target article length stated in the prompt.
const LengthHint = "800-1000文字"

// ErrEmptyArticle is returned by Compose when the generator returns no text.
var ErrEmptyArticle = errors.New("generator returned an empty article")

// Generator produces text for a prompt. Implementations live in
// internal/generate; tests supply fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type labeledCount struct {
	Label string
	Count int
}

type promptData struct {
	Total            int
	Mean             string
	Median           string
	Min              int
	Max              int
	PeakAge          string
	PeakCount        int
	TopAges          []types.AgeCount
	Bands            []types.BandCount
	Histogram        []types.AgeCount
	Decades          []labeledCount
	DecadeAges       []types.DecadeAgeCount
	Notes            string
	LengthHint       string
	StyleInstruction string
}

// BuildPrompt renders the article prompt for a summary, a writing style and
// optional user notes. The full age histogram and the decade × age cells are
// listed after the top ages and decades when the summary carries them. Notes that are blank after trimming are omitted. The
// result depends only on its inputs.
func BuildPrompt(s types.Summary, style Style, notes string) string {
	data := promptData{
		Total:            s.TotalCount,
		Mean:             fmt.Sprintf("%.1f", s.MeanAge),
		Median:           fmt.Sprintf("%.1f", s.MedianAge),
		Min:              s.MinAge,
		Max:              s.MaxAge,
		PeakAge:          "N/A",
		TopAges:          s.TopAges,
		Bands:            s.AgeBands,
		Histogram:        s.AgeHistogram,
		Decades:          sortedDecades(s.DecadeCounts),
		DecadeAges:       s.DecadeAges,
		LengthHint:       LengthHint,
		StyleInstruction: style.Instruction(),
	}
	if s.Peak != nil {
		data.PeakAge = fmt.Sprintf("%d", s.Peak.Age)
		data.PeakCount = s.Peak.Count
	}
	if strings.TrimSpace(notes) != "" {
		data.Notes = notes
	}

	var buf bytes.Buffer
	if err := articlePromptTmpl.Execute(&buf, data); err != nil {
		// The template only reads fields of promptData.
		panic(fmt.Sprintf("rendering article prompt: %v", err))
	}
	return buf.String()
}

// sortedDecades orders decade counts by descending count, then label.
func sortedDecades(counts map[string]int) []labeledCount {
	out := make([]labeledCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, labeledCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Compose builds the prompt for s and asks gen for the article. Errors from
// the generator are returned unchanged so callers can show their message.
func Compose(ctx context.Context, gen Generator, s types.Summary, style Style, notes string) (string, error) {
	article, err := gen.Generate(ctx, BuildPrompt(s, style, notes))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(article) == "" {
		return "", ErrEmptyArticle
	}
	return article, nil
}
