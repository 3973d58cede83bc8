package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/brainer3220/law-sub000/internal/query"
)

// likeStrategy is the ranking strategy for SQLite builds without FTS5.
// It scores documents with a weighted LIKE relevance expression: title hits
// count strictly more than body hits, and an exact title match of the whole
// query text earns a fixed bonus. Snippets are produced by the headline
// function since there is no engine highlighter to lean on.
type likeStrategy struct {
	store *Store
}

var _ Strategy = (*likeStrategy)(nil)

func (l *likeStrategy) Name() string { return strategyNameLike }

func (l *likeStrategy) Search(ctx context.Context, v query.Variant, maxCandidates int) ([]*Candidate, error) {
	units := splitQueryUnits(v.Text)
	if len(units) == 0 {
		return []*Candidate{}, nil
	}

	cfg := l.store.cfg

	var expr strings.Builder
	var args []any
	for i, unit := range units {
		if i > 0 {
			expr.WriteString(" + ")
		}
		expr.WriteString("(")
		for j, field := range v.Fields {
			if j > 0 {
				expr.WriteString(" + ")
			}
			weight := cfg.BodyWeight
			if field == query.FieldTitle {
				weight = cfg.TitleWeight
			}
			fmt.Fprintf(&expr, "CASE WHEN %s LIKE ? ESCAPE '\\' THEN %g ELSE 0 END", field, weight)
			args = append(args, likePattern(unit))
		}
		expr.WriteString(")")
	}

	// Title matching the whole query text on its own is a strong exactness
	// signal worth a fixed bonus on top of the per-term weights.
	fmt.Fprintf(&expr, " + CASE WHEN title LIKE ? ESCAPE '\\' THEN %g ELSE 0 END", cfg.TitleBonus)
	args = append(args, likePattern(strings.ReplaceAll(v.Text, `"`, "")))

	sqlQuery := fmt.Sprintf(`
		SELECT id, doc_id, title, path, body, score
		FROM (
			SELECT id, doc_id, title, path, body, (%s) AS score
			FROM documents
		)
		WHERE score > 0
		ORDER BY score DESC, id
		LIMIT ?
	`, expr.String())
	args = append(args, maxCandidates)

	rows, err := l.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("like search failed: %w", err)
	}
	defer rows.Close()

	terms := highlightTerms(units)

	var candidates []*Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.DocID, &c.Title, &c.Path, &c.Body, &c.RawScore); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if c.RawScore < 0 {
			c.RawScore = 0
		}
		c.Snippet = headline(c.Body, terms, headlineMaxFragments, headlineMinWords, headlineMaxWords)
		candidates = append(candidates, &c)
	}

	return candidates, rows.Err()
}

// likePattern builds a substring LIKE pattern with metacharacters escaped.
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}

// highlightTerms flattens match units into individual highlightable words:
// phrase units contribute their component words.
func highlightTerms(units []string) []string {
	var terms []string
	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		for _, w := range strings.Fields(u) {
			w = strings.ToLower(w)
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			terms = append(terms, w)
		}
	}
	return terms
}
