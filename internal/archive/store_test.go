// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/agebooks/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func sampleSummary() types.Summary {
	return types.Summary{
		TotalCount:   4,
		MeanAge:      15.25,
		MedianAge:    14,
		MinAge:       13,
		MaxAge:       20,
		TopAges:      []types.AgeCount{{Age: 13, Count: 2}, {Age: 15, Count: 1}, {Age: 20, Count: 1}},
		Peak:         &types.AgeCount{Age: 13, Count: 2},
		DecadeCounts: map[string]int{"1990年代": 3, "2000年代": 1},
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	s, err := Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)

	// Reopening an existing archive keeps the schema.
	s2, err := Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	s2.Close()
}

func TestLatestArticleEmpty(t *testing.T) {
	s := testStore(t)
	_, err := s.LatestArticle(context.Background())
	assert.ErrorIs(t, err, ErrNoArticle)
}

func TestSaveAndLatestArticle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.SaveArticle(ctx, Article{Style: "standard", Body: "一本目"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Empty(t, first.SummaryID)

	summary := sampleSummary()
	second, err := s.SaveArticle(ctx, Article{
		Style:    "poetic",
		Notes:    "60代向けが増えている",
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		Body:     "二本目",
	}, &summary)
	require.NoError(t, err)
	assert.NotEmpty(t, second.SummaryID)

	latest, err := s.LatestArticle(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "poetic", latest.Style)
	assert.Equal(t, "60代向けが増えている", latest.Notes)
	assert.Equal(t, "gemini-2.5-flash", latest.Model)
	assert.Equal(t, "二本目", latest.Body)
	assert.True(t, second.CreatedAt.Equal(latest.CreatedAt))

	got, err := s.LoadSummary(ctx, latest.SummaryID)
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestListArticlesNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, body := range []string{"a", "b", "c"} {
		_, err := s.SaveArticle(ctx, Article{Style: "standard", Body: body}, nil)
		require.NoError(t, err)
	}

	all, err := s.ListArticles(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Body)
	assert.Equal(t, "a", all[2].Body)

	two, err := s.ListArticles(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestGetArticle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.SaveArticle(ctx, Article{Style: "academic", Body: "本文"}, nil)
	require.NoError(t, err)

	got, err := s.GetArticle(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "本文", got.Body)

	_, err = s.GetArticle(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNoArticle))
}

func TestClearArticles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	summary := sampleSummary()
	for i := 0; i < 2; i++ {
		_, err := s.SaveArticle(ctx, Article{Style: "standard", Body: "x"}, &summary)
		require.NoError(t, err)
	}
	id, err := insertSummary(ctx, s.db, summary, s.now())
	require.NoError(t, err)

	n, err := s.ClearArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.LatestArticle(ctx)
	assert.ErrorIs(t, err, ErrNoArticle)

	_, err = s.LoadSummary(ctx, id)
	assert.Error(t, err)

	n, err = s.ClearArticles(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertSummaryEmpty(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := insertSummary(ctx, s.db, types.Summary{}, s.now())
	require.NoError(t, err)

	got, err := s.LoadSummary(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Nil(t, got.Peak)
}
