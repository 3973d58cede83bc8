package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/brainer3220/law-sub000/internal/query"
)

const (
	strategyNameFTS5 = "fts5"
	strategyNameLike = "like"
)

// fts5Strategy ranks variants with SQLite's native FTS5 BM25 scorer and
// returns engine-generated highlighted snippets.
type fts5Strategy struct {
	store *Store
}

var _ Strategy = (*fts5Strategy)(nil)

func (f *fts5Strategy) Name() string { return strategyNameFTS5 }

// Search submits the variant as a field-scoped MATCH query ranked by
// bm25(). FTS5 reports better matches as more negative values, so scores
// are negated into the non-negative range fusion expects.
func (f *fts5Strategy) Search(ctx context.Context, v query.Variant, maxCandidates int) ([]*Candidate, error) {
	match := matchExpression(v)
	if match == "" {
		return []*Candidate{}, nil
	}

	// Snippet is taken from the variant's leading field; the phrase variant
	// orders fields body-first so its snippet comes from the body.
	snippetCol := ftsColumn(v.Fields[0])

	sqlQuery := fmt.Sprintf(`
		SELECT id, doc_id, title, path, body,
		       bm25(documents_fts) AS score,
		       snippet(documents_fts, %d, '<b>', '</b>', '…', 12) AS snip
		FROM documents_fts
		WHERE documents_fts MATCH ?
		ORDER BY score
		LIMIT ?
	`, snippetCol)

	rows, err := f.store.db.QueryContext(ctx, sqlQuery, match, maxCandidates)
	if err != nil {
		// FTS5 raises errors for unparsable match expressions; treat those
		// as no results rather than a variant failure.
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			return []*Candidate{}, nil
		}
		return nil, fmt.Errorf("fts5 search failed: %w", err)
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		var c Candidate
		var score float64
		if err := rows.Scan(&c.ID, &c.DocID, &c.Title, &c.Path, &c.Body, &score, &c.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.RawScore = -score
		if c.RawScore < 0 {
			c.RawScore = 0
		}
		candidates = append(candidates, &c)
	}

	return candidates, rows.Err()
}

// ftsColumn maps a field to its documents_fts column index.
func ftsColumn(f query.Field) int {
	if f == query.FieldBody {
		return 1
	}
	return 0
}

// matchExpression builds the field-scoped FTS5 MATCH expression for a
// variant. Every term is double-quoted so docket tokens such as
// "2020다12345" pass through the FTS5 query parser verbatim, and terms are
// OR-joined so partial matches still rank (BM25 rewards fuller matches).
func matchExpression(v query.Variant) string {
	units := splitQueryUnits(v.Text)
	if len(units) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(units))
	for _, u := range units {
		quoted = append(quoted, `"`+strings.ReplaceAll(u, `"`, `""`)+`"`)
	}
	terms := strings.Join(quoted, " OR ")

	switch len(v.Fields) {
	case 1:
		return string(v.Fields[0]) + " : (" + terms + ")"
	default:
		return "{title body} : (" + terms + ")"
	}
}

// splitQueryUnits splits variant text into match units: whitespace-separated
// terms, with double-quoted phrases kept as a single unit (quotes removed).
func splitQueryUnits(text string) []string {
	var units []string
	var current strings.Builder
	inQuote := false

	flush := func() {
		if current.Len() > 0 {
			units = append(units, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '"':
			if inQuote {
				flush()
			}
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return units
}
