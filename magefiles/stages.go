//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups targets that run the CLI stages against $AGEBOOKS_INPUT
// (default data/books.csv).
type Pipeline mg.Namespace

func input() string {
	if in := os.Getenv("AGEBOOKS_INPUT"); in != "" {
		return in
	}
	return "data/books.csv"
}

func runCLI(args ...string) error {
	mg.Deps(Build)
	return sh.RunV("./"+binDir+"/"+binName, args...)
}

// Analyze prints the age distribution tables.
func (Pipeline) Analyze() error {
	return runCLI("analyze", "--input", input())
}

// Export writes summary.yaml, summary.json, and records.csl.yaml into export/.
func (Pipeline) Export() error {
	return runCLI("export", "--input", input(), "--out", "export", "--csl")
}

// Prompt prints the article prompt without calling a model.
func (Pipeline) Prompt() error {
	return runCLI("article", "generate", "--input", input(), "--dry-run")
}

// Article generates an essay with the configured provider.
func (Pipeline) Article() error {
	if err := runCLI("article", "generate", "--input", input()); err != nil {
		return fmt.Errorf("article: %w", err)
	}
	return nil
}
