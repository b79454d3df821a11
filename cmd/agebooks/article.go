// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/agebooks/internal/archive"
	"github.com/pdiddy/agebooks/internal/generate"
	"github.com/pdiddy/agebooks/internal/narrative"
	"github.com/pdiddy/agebooks/internal/secrets"
	"github.com/pdiddy/agebooks/pkg/types"
)

const msgNoArticle = "まだ記事がありません。agebooks article generate で考察記事を生成してください。"

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Generate and manage essays about the age distribution",
	Long: `Article asks a generative model to write a short essay (800-1000
characters, in Japanese) about the age statistics, and keeps the generated
essays in a local archive.`,
}

// --- generate subcommand ---

var articleGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write an essay about the statistics of the input sheets",
	Long: `Generate aggregates the input sheets, builds the essay prompt in the
chosen style, sends it to Gemini or Claude, stores the result in the archive,
and prints it.

Styles: standard (標準的), critical (評論的), poetic (詩的), academic (学術的),
approachable (親しみやすい). Use --notes to add your own observations, and
--dry-run to print the prompt without calling the model.`,
	RunE: runArticleGenerate,
}

func runArticleGenerate(cmd *cobra.Command, args []string) error {
	styleFlag, _ := cmd.Flags().GetString("style")
	notes, _ := cmd.Flags().GetString("notes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	style := narrative.ParseStyle(styleFlag)

	a, err := runPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if a.explainEmpty(w) {
		return nil
	}

	if dryRun {
		fmt.Fprintln(w, narrative.BuildPrompt(a.summary, style, notes))
		return nil
	}

	genCfg := cfg.Generation
	if genCfg.APIKey == "" {
		genCfg.APIKey, _ = secrets.Lookup(loadedSecrets, apiKeyName(genCfg.Provider))
	}
	backend, err := generate.New(genCfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if genCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, genCfg.Timeout)
		defer cancel()
	}

	body, err := narrative.Compose(ctx, backend, a.summary, style, notes)
	if err != nil {
		if errors.Is(err, narrative.ErrEmptyArticle) {
			return errors.New("記事の生成に失敗しました。")
		}
		return err
	}

	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.SaveArticle(cmd.Context(), archive.Article{
		Style:    string(style),
		Notes:    strings.TrimSpace(notes),
		Provider: string(backend.Provider),
		Model:    backend.Model(),
		Body:     body,
	}, &a.summary)
	if err != nil {
		return err
	}

	printArticle(w, saved)
	return nil
}

// apiKeyName returns the secret holding the API key of provider.
func apiKeyName(p types.Provider) string {
	if p == types.ProviderClaude {
		return secrets.AnthropicAPIKey
	}
	return secrets.GeminiAPIKey
}

// --- show subcommand ---

var articleShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the latest archived essay, or the one with the given ID",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runArticleShow,
}

func runArticleShow(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	var a archive.Article
	if len(args) == 1 {
		a, err = store.GetArticle(cmd.Context(), args[0])
	} else {
		a, err = store.LatestArticle(cmd.Context())
	}
	w := cmd.OutOrStdout()
	if errors.Is(err, archive.ErrNoArticle) && len(args) == 0 {
		fmt.Fprintln(w, msgNoArticle)
		return nil
	}
	if err != nil {
		return err
	}

	printArticle(w, a)
	if a.SummaryID == "" {
		return nil
	}
	summary, err := store.LoadSummary(cmd.Context(), a.SummaryID)
	if err != nil {
		return err
	}
	printSnapshot(w, summary)
	return nil
}

// printSnapshot prints the headline statistics the article was written from.
func printSnapshot(w io.Writer, s types.Summary) {
	fmt.Fprintf(w, "統計: %d冊  平均 %.1f歳  中央値 %.1f歳  範囲 %d-%d歳", s.TotalCount, s.MeanAge, s.MedianAge, s.MinAge, s.MaxAge)
	if s.Peak != nil {
		fmt.Fprintf(w, "  ピーク %d歳 (%d冊)", s.Peak.Age, s.Peak.Count)
	}
	fmt.Fprintln(w)
}

// --- list subcommand ---

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived essays, newest first",
	RunE:  runArticleList,
}

func runArticleList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	articles, err := store.ListArticles(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(articles) == 0 {
		fmt.Fprintln(w, msgNoArticle)
		return nil
	}
	for _, a := range articles {
		fmt.Fprintf(w, "%s  %s  %-8s %-6s %s  %s\n",
			a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Provider, a.Style, narrative.ParseStyle(a.Style).Label(), preview(a.Body, 30))
	}
	return nil
}

// --- clear subcommand ---

var articleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every archived essay",
	RunE:  runArticleClear,
}

func runArticleClear(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.ClearArticles(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %d article(s)\n", n)
	return nil
}

func printArticle(w io.Writer, a archive.Article) {
	fmt.Fprintf(w, "書き方: %s\n", narrative.ParseStyle(a.Style).Label())
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w, strings.TrimSpace(a.Body))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%s  %s %s\n", a.ID, a.Provider, a.Model)
}

// preview returns the first n runes of s on one line.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func init() {
	gf := articleGenerateCmd.Flags()
	addSourceFlags(articleGenerateCmd)
	gf.String("style", string(narrative.StyleStandard), "writing style: standard, critical, poetic, academic, approachable (or the Japanese label)")
	gf.String("notes", "", "your own observations to include in the essay")
	gf.String("provider", "", "generation backend: gemini or claude")
	gf.String("model", "", "model identifier (default depends on provider)")
	gf.Int64("max-tokens", 0, "maximum output tokens (Claude)")
	gf.Duration("timeout", 0, "timeout for the generation call")
	gf.Bool("dry-run", false, "print the prompt without calling the model")

	articleListCmd.Flags().Int("limit", 20, "maximum number of essays to list")

	articleCmd.PersistentFlags().String("archive-dir", "", "directory of the article archive")

	articleCmd.AddCommand(articleGenerateCmd)
	articleCmd.AddCommand(articleShowCmd)
	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleClearCmd)
	rootCmd.AddCommand(articleCmd)
}
