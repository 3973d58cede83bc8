package search

import "sort"

// DefaultRRFConstant is the standard RRF smoothing parameter.
// k=60 is empirically validated across domains (used by Azure AI Search,
// OpenSearch, etc.).
const DefaultRRFConstant = 60

// RRFFusion merges per-variant ranked candidate lists using Reciprocal
// Rank Fusion. It is a pure function over its inputs and keeps no state
// across calls.
//
// Algorithm: score(d) = Σ boost_v / (k + rank_v + 1)
//
// Where rank_v is the candidate's 0-indexed position in variant v's list.
type RRFFusion struct {
	K int // RRF smoothing constant (default: 60)
}

// NewRRFFusion creates an RRF fusion instance with default k=60.
func NewRRFFusion() *RRFFusion {
	return &RRFFusion{K: DefaultRRFConstant}
}

// NewRRFFusionWithK creates an RRF fusion with a custom k value.
// If k <= 0, defaults to 60.
func NewRRFFusionWithK(k int) *RRFFusion {
	if k <= 0 {
		k = DefaultRRFConstant
	}
	return &RRFFusion{K: k}
}

// Fuse merges the variants' candidate lists into one ordered page.
//
// Per contribution of variant v at rank r: the fused score and the
// variant's score component both gain boost_v/(k+r+1); the first time v
// contributes to a key, the candidate's raw backend score is recorded
// under "raw:"+name for observability. The retained snippet is the longest
// seen across contributors; title/body/path fill first-writer-wins,
// independently per field.
//
// Ordering is descending by score with ties broken by first-seen insertion
// order (stable sort), which makes the output reproducible for identical
// input ordering. Pagination applies offset then limit over the fully
// ordered list; limit <= 0 short-circuits without doing fusion work.
func (f *RRFFusion) Fuse(results []VariantResult, limit, offset int) []*FusedDocument {
	if limit <= 0 {
		return []*FusedDocument{}
	}
	if offset < 0 {
		offset = 0
	}

	byKey := make(map[string]*FusedDocument)
	var order []*FusedDocument

	for _, vr := range results {
		name := vr.Variant.Name
		boost := vr.Variant.Boost
		rawKey := "raw:" + name

		for rank, c := range vr.Candidates {
			key := c.DocID
			if key == "" {
				key = c.ID
			}

			doc, ok := byKey[key]
			if !ok {
				doc = &FusedDocument{
					Key:             key,
					ScoreComponents: make(map[string]float64),
				}
				byKey[key] = doc
				order = append(order, doc)
			}

			contribution := boost / float64(f.K+rank+1)
			doc.Score += contribution
			if _, seen := doc.ScoreComponents[name]; !seen {
				doc.ScoreComponents[rawKey] = c.RawScore
			}
			doc.ScoreComponents[name] += contribution

			if len(c.Snippet) > len(doc.Snippet) {
				doc.Snippet = c.Snippet
			}
			if doc.Title == "" {
				doc.Title = c.Title
			}
			if doc.Body == "" {
				doc.Body = c.Body
			}
			if doc.Path == "" {
				doc.Path = c.Path
			}
		}
	}

	// Stable sort keeps first-seen insertion order on score ties; no
	// secondary key is consulted.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Score > order[j].Score
	})

	if offset >= len(order) {
		return []*FusedDocument{}
	}
	order = order[offset:]
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
