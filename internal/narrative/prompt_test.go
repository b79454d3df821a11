// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/agebooks/pkg/types"
)

func sampleSummary() types.Summary {
	return types.Summary{
		TotalCount: 4,
		MeanAge:    15.25,
		MedianAge:  14,
		MinAge:     13,
		MaxAge:     20,
		TopAges: []types.AgeCount{
			{Age: 13, Count: 2},
			{Age: 15, Count: 1},
			{Age: 20, Count: 1},
		},
		Peak: &types.AgeCount{Age: 13, Count: 2},
		DecadeCounts: map[string]int{
			"1990年代": 1,
			"2010年代": 3,
		},
		AgeBands: []types.BandCount{
			{Label: "0-9歳", Low: 0, High: 10},
			{Label: "10-19歳", Low: 10, High: 20, Count: 3},
			{Label: "20-29歳", Low: 20, High: 30, Count: 1},
			{Label: "90歳以上", Low: 90},
		},
	}
}

func TestBuildPromptContainsStatistics(t *testing.T) {
	p := BuildPrompt(sampleSummary(), StyleStandard, "")

	for _, want := range []string{
		"- 総書籍数: 4冊",
		"- 平均対象年齢: 15.2歳",
		"- 最小年齢: 13歳",
		"- 最大年齢: 20歳",
		"- 中央値年齢: 14.0歳",
		"- ピーク年齢: 13歳（書籍数: 2冊）",
		"- 13歳: 2冊",
		"- 15歳: 1冊",
		"- 20歳: 1冊",
		"- 0-9歳: 0冊",
		"- 10-19歳: 3冊",
		"- 20-29歳: 1冊",
		"- 90歳以上: 0冊",
		"- 2010年代: 3冊",
		"- 1990年代: 1冊",
		"800-1000文字",
		"3. 年代別の傾向とその背景",
		"4. 総合的な考察とまとめ",
	} {
		assert.Contains(t, p, want)
	}

	assert.Less(t, strings.Index(p, "2010年代"), strings.Index(p, "1990年代"),
		"decades are listed by descending count")
	assert.NotContains(t, p, "【ユーザーの気づき・観察】")
	assert.True(t, strings.HasSuffix(p, "また、"+StyleStandard.Instruction()))
}

func TestBuildPromptWithoutDecades(t *testing.T) {
	s := sampleSummary()
	s.DecadeCounts = nil

	p := BuildPrompt(s, StyleStandard, "")

	assert.Contains(t, p, "【年代別書籍数】\nデータなし")
	assert.NotContains(t, p, "年代別の傾向とその背景")
	assert.Contains(t, p, "3. 総合的な考察とまとめ")
}

func TestBuildPromptHistogramAndCrossTab(t *testing.T) {
	s := sampleSummary()
	p := BuildPrompt(s, StyleStandard, "")
	assert.NotContains(t, p, "【全年齢の書籍数（年齢順）】")
	assert.NotContains(t, p, "【年代×年齢の書籍数】")

	s.AgeHistogram = []types.AgeCount{{Age: 13, Count: 2}, {Age: 15, Count: 1}, {Age: 20, Count: 1}}
	s.DecadeAges = []types.DecadeAgeCount{
		{Decade: "2010年代", Age: 13, Count: 2},
		{Decade: "1990年代", Age: 15, Count: 1},
	}
	p = BuildPrompt(s, StyleStandard, "")

	assert.Contains(t, p, "【全年齢の書籍数（年齢順）】\n- 13歳: 2冊\n- 15歳: 1冊\n- 20歳: 1冊\n")
	assert.Contains(t, p, "【年代×年齢の書籍数】\n- 2010年代 13歳: 2冊\n- 1990年代 15歳: 1冊\n")
	assert.Less(t, strings.Index(p, "【年代別書籍数】"), strings.Index(p, "【年代×年齢の書籍数】"))
}

func TestBuildPromptEmptySummary(t *testing.T) {
	p := BuildPrompt(types.Summary{}, StyleStandard, "")

	assert.Contains(t, p, "- 総書籍数: 0冊")
	assert.Contains(t, p, "- 平均対象年齢: 0.0歳")
	assert.Contains(t, p, "- ピーク年齢: N/A歳（書籍数: 0冊）")
	assert.Contains(t, p, "【年齢別書籍数（上位10位）】\nデータなし")
}

func TestBuildPromptNotes(t *testing.T) {
	notes := "10代向けの書籍が多いことに気づきました。"
	p := BuildPrompt(sampleSummary(), StylePoetic, notes)

	require.Contains(t, p, "【ユーザーの気づき・観察】\n"+notes+"\n")
	assert.Less(t, strings.Index(p, notes), strings.Index(p, StylePoetic.Instruction()),
		"notes precede the style clause")
}

func TestBuildPromptBlankNotesOmitted(t *testing.T) {
	withBlank := BuildPrompt(sampleSummary(), StyleStandard, "  \n\t ")
	without := BuildPrompt(sampleSummary(), StyleStandard, "")
	assert.Equal(t, without, withBlank)
}

func TestBuildPromptStyles(t *testing.T) {
	for _, style := range Styles {
		t.Run(string(style), func(t *testing.T) {
			p := BuildPrompt(sampleSummary(), style, "")
			assert.True(t, strings.HasSuffix(p, style.Instruction()))
		})
	}

	unknown := BuildPrompt(sampleSummary(), Style("limerick"), "")
	assert.Equal(t, BuildPrompt(sampleSummary(), StyleStandard, ""), unknown)
}

func TestBuildPromptDeterministic(t *testing.T) {
	s := sampleSummary()
	s.DecadeCounts = map[string]int{"1980年代": 2, "1990年代": 2, "2000年代": 2, "2010年代": 2}

	first := BuildPrompt(s, StyleAcademic, "note")
	for i := 0; i < 20; i++ {
		require.Equal(t, first, BuildPrompt(s, StyleAcademic, "note"))
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"standard", StyleStandard},
		{"Critical", StyleCritical},
		{" poetic ", StylePoetic},
		{"学術的", StyleAcademic},
		{"親しみやすい", StyleApproachable},
		{"評論的", StyleCritical},
		{"", StyleStandard},
		{"unknown", StyleStandard},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStyle(tt.in))
		})
	}
	assert.Equal(t, "詩的", StylePoetic.Label())
	assert.Equal(t, "標準的", Style("nope").Label())
}

type fakeGenerator struct {
	article string
	err     error
	prompt  string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.article, f.err
}

func TestCompose(t *testing.T) {
	gen := &fakeGenerator{article: "記事本文"}

	article, err := Compose(context.Background(), gen, sampleSummary(), StyleCritical, "気づき")
	require.NoError(t, err)
	assert.Equal(t, "記事本文", article)
	assert.Equal(t, BuildPrompt(sampleSummary(), StyleCritical, "気づき"), gen.prompt)
}

func TestComposeGeneratorErrorUnchanged(t *testing.T) {
	genErr := errors.New("quota exceeded for model")
	gen := &fakeGenerator{err: genErr}

	_, err := Compose(context.Background(), gen, sampleSummary(), StyleStandard, "")
	require.Error(t, err)
	assert.Same(t, genErr, err)
	assert.Equal(t, "quota exceeded for model", err.Error())
}

func TestComposeEmptyArticle(t *testing.T) {
	gen := &fakeGenerator{article: "  \n"}

	_, err := Compose(context.Background(), gen, sampleSummary(), StyleStandard, "")
	assert.ErrorIs(t, err, ErrEmptyArticle)
}
