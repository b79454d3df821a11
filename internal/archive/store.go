// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists generated articles and summary snapshots in a
// SQLite database so that a session's latest article survives between runs.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/agebooks/pkg/types"
)

const (
	dbFile           = "agebooks.db"
	defaultListLimit = 20
	timestampLayout  = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNoArticle is returned by LatestArticle when the archive is empty.
var ErrNoArticle = errors.New("no article in archive")

// Article is one generated narrative with the settings that produced it.
type Article struct {
	ID        string    `json:"id" yaml:"id"`
	Style     string    `json:"style" yaml:"style"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Provider  string    `json:"provider" yaml:"provider"`
	Model     string    `json:"model" yaml:"model"`
	Body      string    `json:"body" yaml:"body"`
	SummaryID string    `json:"summary_id,omitempty" yaml:"summary_id,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the archive database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the archive at cfg.Dir/agebooks.db and creates the
// schema if it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	zap.L().Debug("archive opened", zap.String("path", dbPath))
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS summaries (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			total_count INTEGER NOT NULL,
			summary_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			style TEXT NOT NULL,
			notes TEXT,
			provider TEXT,
			model TEXT,
			body TEXT NOT NULL,
			summary_id TEXT REFERENCES summaries(id) ON DELETE SET NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertSummary stores a snapshot of summary stamped with at and returns its ID.
func insertSummary(ctx context.Context, ex execer, summary types.Summary, at time.Time) (string, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshaling summary: %w", err)
	}

	id := uuid.NewString()
	_, err = ex.ExecContext(ctx,
		`INSERT INTO summaries (id, created_at, total_count, summary_json) VALUES (?, ?, ?, ?)`,
		id, at.UTC().Format(timestampLayout), summary.TotalCount, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("inserting summary: %w", err)
	}
	return id, nil
}

// LoadSummary returns the snapshot stored under id.
func (s *Store) LoadSummary(ctx context.Context, id string) (types.Summary, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT summary_json FROM summaries WHERE id = ?`, id).Scan(&raw)
	if err != nil {
		return types.Summary{}, fmt.Errorf("loading summary %s: %w", id, err)
	}
	var summary types.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return types.Summary{}, fmt.Errorf("decoding summary %s: %w", id, err)
	}
	return summary, nil
}

// SaveArticle stores a and returns it with ID and CreatedAt filled in. When
// summary is non-nil a snapshot is stored in the same transaction and linked
// to the article.
func (s *Store) SaveArticle(ctx context.Context, a Article, summary *types.Summary) (Article, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Article{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if summary != nil {
		if a.SummaryID, err = insertSummary(ctx, tx, *summary, a.CreatedAt); err != nil {
			return Article{}, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, style, notes, provider, model, body, summary_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Style, a.Notes, a.Provider, a.Model, a.Body,
		nullable(a.SummaryID), a.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return Article{}, fmt.Errorf("inserting article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Article{}, fmt.Errorf("committing article: %w", err)
	}

	zap.L().Info("article archived",
		zap.String("id", a.ID),
		zap.String("style", a.Style),
		zap.Int("chars", len([]rune(a.Body))),
	)
	return a, nil
}

// LatestArticle returns the most recently stored article, or ErrNoArticle.
func (s *Store) LatestArticle(ctx context.Context) (Article, error) {
	articles, err := s.ListArticles(ctx, 1)
	if err != nil {
		return Article{}, err
	}
	if len(articles) == 0 {
		return Article{}, ErrNoArticle
	}
	return articles[0], nil
}

// GetArticle returns the article stored under id.
func (s *Store) GetArticle(ctx context.Context, id string) (Article, error) {
	rows, err := s.db.QueryContext(ctx, selectArticles+` WHERE id = ?`, id)
	if err != nil {
		return Article{}, fmt.Errorf("querying article: %w", err)
	}
	articles, err := scanArticles(rows)
	if err != nil {
		return Article{}, err
	}
	if len(articles) == 0 {
		return Article{}, fmt.Errorf("article %s: %w", id, ErrNoArticle)
	}
	return articles[0], nil
}

// ListArticles returns up to limit articles, newest first. A limit of 0 or
// less uses the default of 20.
func (s *Store) ListArticles(ctx context.Context, limit int) ([]Article, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		selectArticles+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	return scanArticles(rows)
}

// ClearArticles deletes every article and summary snapshot and returns the
// number of articles removed.
func (s *Store) ClearArticles(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM articles`)
	if err != nil {
		return 0, fmt.Errorf("deleting articles: %w", err)
	}
	n, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM summaries`); err != nil {
		return 0, fmt.Errorf("deleting summaries: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing clear: %w", err)
	}

	zap.L().Info("archive cleared", zap.Int64("articles", n))
	return n, nil
}

const selectArticles = `SELECT id, style, COALESCE(notes, ''), COALESCE(provider, ''),
	COALESCE(model, ''), body, COALESCE(summary_id, ''), created_at FROM articles`

func scanArticles(rows *sql.Rows) ([]Article, error) {
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		var created string
		if err := rows.Scan(&a.ID, &a.Style, &a.Notes, &a.Provider, &a.Model,
			&a.Body, &a.SummaryID, &created); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		t, err := time.Parse(timestampLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of %s: %w", a.ID, err)
		}
		a.CreatedAt = t
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
