package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	lawerrors "github.com/brainer3220/law-sub000/internal/errors"
	"github.com/brainer3220/law-sub000/internal/query"
)

// Store owns one SQLite connection pool and the ranking strategy selected
// for it. The strategy is probed once in Open and cached for the life of
// the connection.
type Store struct {
	mu       sync.RWMutex
	db       *sql.DB
	path     string
	cfg      Config
	strategy Strategy
	closed   bool
}

// validateIntegrity checks an existing database file before opening it.
// Returns nil if the file is absent (it will be created) or healthy.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// Open opens (or creates) the document database at path and selects the
// ranking strategy for this connection. An empty path opens an in-memory
// database for testing.
//
// A backend on which neither strategy can be installed is a configuration
// error surfaced here, once, at startup - never per query.
func Open(path string, cfg Config) (*Store, error) {
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultConfig().QueryTimeout
	}
	if cfg.TitleWeight <= cfg.BodyWeight {
		return nil, lawerrors.ConfigError(
			fmt.Sprintf("title weight %.2f must exceed body weight %.2f", cfg.TitleWeight, cfg.BodyWeight), nil)
	}

	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
		}
		if err := validateIntegrity(path); err != nil {
			return nil, lawerrors.BackendError("document database unusable", err).
				WithDetail("path", path).
				WithSuggestion("remove the database file and reindex")
		}
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer prevents SQLite lock contention; reads share it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// DSN params may be ignored by modernc.org/sqlite; set pragmas explicitly.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path, cfg: cfg}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, lawerrors.BackendError("failed to initialize document schema", err)
	}

	strategy, err := s.selectStrategy()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.strategy = strategy

	slog.Info("store_opened",
		slog.String("path", path),
		slog.String("strategy", strategy.Name()))

	return s, nil
}

// initSchema creates the base documents table. The FTS5 shadow index is
// created lazily by the native strategy probe when FTS5 is available.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS documents (
		id     TEXT PRIMARY KEY,
		doc_id TEXT NOT NULL DEFAULT '',
		title  TEXT NOT NULL DEFAULT '',
		path   TEXT NOT NULL DEFAULT '',
		body   TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_documents_doc_id ON documents(doc_id);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// selectStrategy probes the connected engine once and picks the ranking
// strategy for this connection.
func (s *Store) selectStrategy() (Strategy, error) {
	if !s.cfg.ForceFallback && s.hasFTS5() {
		if err := s.initFTSSchema(); err != nil {
			return nil, lawerrors.BackendError("failed to initialize FTS5 index", err)
		}
		return &fts5Strategy{store: s}, nil
	}

	// The fallback strategy only needs the base table; verify it is queryable.
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return nil, lawerrors.BackendError("no usable ranking strategy on this backend", err).
			WithSuggestion("check that the database file is a lawsearch document store")
	}
	return &likeStrategy{store: s}, nil
}

// hasFTS5 probes whether the connected SQLite build ships the FTS5 module.
func (s *Store) hasFTS5() bool {
	_, err := s.db.Exec(`CREATE VIRTUAL TABLE temp.fts5_probe USING fts5(x)`)
	if err != nil {
		return false
	}
	_, _ = s.db.Exec(`DROP TABLE temp.fts5_probe`)
	return true
}

// initFTSSchema creates the FTS5 shadow table used by the native strategy.
// Title and body are indexed; identifiers and path are stored unindexed so
// candidates come back from a single query.
func (s *Store) initFTSSchema() error {
	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
		title,
		body,
		id UNINDEXED,
		doc_id UNINDEXED,
		path UNINDEXED,
		tokenize='unicode61'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// StrategyName returns the name of the active ranking strategy.
func (s *Store) StrategyName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategy.Name()
}

// SearchVariant executes one variant under the per-call timeout and returns
// ranked candidates. Ranking strategy errors pass through untouched so the
// caller can degrade per variant.
func (s *Store) SearchVariant(ctx context.Context, v query.Variant, maxCandidates int) ([]*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if strings.TrimSpace(v.Text) == "" {
		return []*Candidate{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	return s.strategy.Search(ctx, v, maxCandidates)
}

// IndexDocuments inserts or replaces documents. When the native strategy is
// active the FTS5 shadow table is kept in sync in the same transaction.
func (s *Store) IndexDocuments(ctx context.Context, docs []*Document) error {
	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	docStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO documents(id, doc_id, title, path, body) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare document statement: %w", err)
	}
	defer docStmt.Close()

	native := s.strategy.Name() == strategyNameFTS5

	var ftsDelete, ftsInsert *sql.Stmt
	if native {
		// FTS5 virtual tables do not support REPLACE; delete first.
		ftsDelete, err = tx.PrepareContext(ctx, `DELETE FROM documents_fts WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("failed to prepare FTS delete: %w", err)
		}
		defer ftsDelete.Close()

		ftsInsert, err = tx.PrepareContext(ctx,
			`INSERT INTO documents_fts(title, body, id, doc_id, path) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare FTS insert: %w", err)
		}
		defer ftsInsert.Close()
	}

	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document with empty id (doc_id=%q title=%q)", doc.DocID, doc.Title)
		}
		if _, err := docStmt.ExecContext(ctx, doc.ID, doc.DocID, doc.Title, doc.Path, doc.Body); err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
		if native {
			if _, err := ftsDelete.ExecContext(ctx, doc.ID); err != nil {
				return fmt.Errorf("failed to replace FTS row %s: %w", doc.ID, err)
			}
			if _, err := ftsInsert.ExecContext(ctx, doc.Title, doc.Body, doc.ID, doc.DocID, doc.Path); err != nil {
				return fmt.Errorf("failed to index FTS row %s: %w", doc.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("store is closed")
	}

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// Close closes the store. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}
