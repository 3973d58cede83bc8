package query

import "strings"

// Field names a searchable document field. Variants scope their text to an
// ordered subset of fields.
type Field string

const (
	FieldTitle Field = "title"
	FieldBody  Field = "body"
)

// Well-known variant names, in emission order.
const (
	VariantBase       = "base"
	VariantTitle      = "title"
	VariantSynonym    = "synonym"
	VariantIdentifier = "identifier"
	VariantPhrase     = "phrase"
)

// Variant is one alternate, field-scoped, boosted phrasing of a user query.
// Variants are built fresh per query and ranked independently before fusion.
type Variant struct {
	Name   string
	Text   string
	Fields []Field
	Boost  float64
}

// Boosts holds the per-variant fusion weights. The defaults are the tuned
// production values; they are query-time constants, never mutated.
type Boosts struct {
	Base       float64
	Title      float64
	Synonym    float64
	Identifier float64
	Phrase     float64
}

// DefaultBoosts returns the production variant weights.
func DefaultBoosts() Boosts {
	return Boosts{
		Base:       1.0,
		Title:      1.25,
		Synonym:    0.9,
		Identifier: 1.1,
		Phrase:     0.85,
	}
}

// Builder composes the normalizer output with synonym expansion, identifier
// extraction, and phrase construction into the per-query variant set.
type Builder struct {
	expander  *Expander
	extractor *Extractor
	boosts    Boosts
}

// NewBuilder creates a variant builder over the given expander and
// extractor.
func NewBuilder(expander *Expander, extractor *Extractor, boosts Boosts) *Builder {
	return &Builder{expander: expander, extractor: extractor, boosts: boosts}
}

// Build emits the variant set for a normalized token stream, in a fixed
// order and de-duplicated by name:
//
//	base        all tokens            title+body
//	title       all tokens            title only
//	synonym     expanded tokens       title+body   (only if expansion grows)
//	identifier  identifier tokens     title+body   (only if any matched)
//	phrase      base + quoted phrase  body+title   (only for 2+ tokens)
//
// An empty token stream yields zero variants; callers treat that as "no
// searchable terms" and return an empty result set.
func (b *Builder) Build(tokens []string) []Variant {
	if len(tokens) == 0 {
		return nil
	}

	baseText := strings.Join(tokens, " ")
	seen := make(map[string]struct{}, 5)
	variants := make([]Variant, 0, 5)
	add := func(v Variant) {
		if _, dup := seen[v.Name]; dup {
			return
		}
		seen[v.Name] = struct{}{}
		variants = append(variants, v)
	}

	add(Variant{
		Name:   VariantBase,
		Text:   baseText,
		Fields: []Field{FieldTitle, FieldBody},
		Boost:  b.boosts.Base,
	})
	add(Variant{
		Name:   VariantTitle,
		Text:   baseText,
		Fields: []Field{FieldTitle},
		Boost:  b.boosts.Title,
	})

	if expanded := b.expander.Expand(tokens); len(expanded) > len(tokens) {
		add(Variant{
			Name:   VariantSynonym,
			Text:   strings.Join(expanded, " "),
			Fields: []Field{FieldTitle, FieldBody},
			Boost:  b.boosts.Synonym,
		})
	}

	if ids := b.extractor.Extract(tokens); len(ids) > 0 {
		add(Variant{
			Name:   VariantIdentifier,
			Text:   strings.Join(ids, " "),
			Fields: []Field{FieldTitle, FieldBody},
			Boost:  b.boosts.Identifier,
		})
	}

	if phrase, ok := BuildPhrase(tokens); ok {
		add(Variant{
			Name:   VariantPhrase,
			Text:   baseText + " " + phrase,
			Fields: []Field{FieldBody, FieldTitle},
			Boost:  b.boosts.Phrase,
		})
	}

	return variants
}
