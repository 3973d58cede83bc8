package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/brainer3220/law-sub000/internal/store"
)

// indexBatchSize is the number of documents written per transaction.
const indexBatchSize = 500

// indexRecord is one JSONL line of the bulk loader input.
type indexRecord struct {
	ID    string `json:"id"`
	DocID string `json:"doc_id"`
	Title string `json:"title"`
	Path  string `json:"path"`
	Body  string `json:"body"`
}

func newIndexCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file.jsonl>",
		Short: "Load documents into the database",
		Long: `Load documents from a JSON Lines file into the document database.

Each line is one document: {"id": ..., "doc_id": ..., "title": ...,
"path": ..., "body": ...}. Existing ids are replaced. An exclusive file
lock guards the database against concurrent index runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, root, args[0])
		},
	}
	return cmd
}

func runIndex(cmd *cobra.Command, root *rootOptions, inputPath string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Serialize index runs on the same database.
	if cfg.Store.Path != "" {
		lock := flock.New(cfg.Store.Path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to acquire index lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another index run holds the lock on %s", cfg.Store.Path)
		}
		defer func() { _ = lock.Unlock() }()
	}

	st, err := store.Open(cfg.Store.Path, store.Config{
		QueryTimeout:  cfg.Store.QueryTimeout(),
		TitleWeight:   cfg.Store.TitleWeight,
		BodyWeight:    cfg.Store.BodyWeight,
		TitleBonus:    cfg.Store.TitleBonus,
		ForceFallback: cfg.Store.ForceFallback,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open input file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	total := 0
	batch := make([]*store.Document, 0, indexBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.IndexDocuments(cmd.Context(), batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var rec indexRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return fmt.Errorf("line %d: invalid JSON: %w", line, err)
		}
		if rec.ID == "" {
			return fmt.Errorf("line %d: missing id", line)
		}
		batch = append(batch, &store.Document{
			ID:    rec.ID,
			DocID: rec.DocID,
			Title: rec.Title,
			Path:  rec.Path,
			Body:  rec.Body,
		})
		if len(batch) >= indexBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("index_complete",
		slog.String("file", inputPath),
		slog.Int("documents", total),
		slog.String("strategy", st.StrategyName()),
		slog.Duration("duration", time.Since(start)))

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents in %s (strategy: %s)\n",
		total, time.Since(start).Round(time.Millisecond), st.StrategyName())
	return nil
}
