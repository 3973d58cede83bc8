package query

import "sort"

// Expander widens a normalized token stream with domain synonyms so a query
// phrased in everyday vocabulary still reaches statutory terminology
// (e.g. "근로자" also retrieves documents that say "노동자").
//
// The synonym table is fixed at construction and never mutated afterwards,
// so a single Expander is safe to share across concurrent queries.
type Expander struct {
	synonyms map[string][]string
}

// NewExpander creates an expander over the given normalized-term → synonym
// table. The table is copied and each synonym set is de-duplicated and
// sorted lexicographically so expansion order is reproducible.
func NewExpander(table map[string][]string) *Expander {
	synonyms := make(map[string][]string, len(table))
	for term, syns := range table {
		seen := make(map[string]struct{}, len(syns))
		list := make([]string, 0, len(syns))
		for _, s := range syns {
			if s == "" || s == term {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			list = append(list, s)
		}
		sort.Strings(list)
		synonyms[term] = list
	}
	return &Expander{synonyms: synonyms}
}

// Expand de-duplicates tokens preserving first-seen order, then emits each
// token immediately followed by its not-yet-emitted synonyms. The output is
// strictly longer than the input iff some token has registered synonyms not
// already present in the stream.
func (e *Expander) Expand(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	deduped := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		deduped = append(deduped, t)
	}

	emitted := make(map[string]struct{}, len(deduped))
	expanded := make([]string, 0, len(deduped))
	for _, t := range deduped {
		if _, done := emitted[t]; !done {
			emitted[t] = struct{}{}
			expanded = append(expanded, t)
		}
		for _, syn := range e.synonyms[t] {
			if _, done := emitted[syn]; done {
				continue
			}
			emitted[syn] = struct{}{}
			expanded = append(expanded, syn)
		}
	}

	return expanded
}

// HasSynonyms reports whether any token has at least one registered synonym.
func (e *Expander) HasSynonyms(tokens []string) bool {
	for _, t := range tokens {
		if len(e.synonyms[t]) > 0 {
			return true
		}
	}
	return false
}
