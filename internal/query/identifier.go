package query

import (
	"fmt"
	"regexp"
)

// DefaultIdentifierPatterns match docket- and citation-shaped tokens:
// bare serial numbers, case-type forms like "2020다12345", and statute
// article forms like "민법750". Patterns are searched within the token, so
// a full docket number matches through its digit run and case-type core.
var DefaultIdentifierPatterns = []string{
	`[0-9]{3,}`,          // serial / docket digit run
	`[0-9]{2,}[가-힣]`,     // year digits + single case-type syllable
	`[가-힣]{2,}[0-9]{2,}`, // statute name + trailing article digits
}

// Extractor detects identifier-shaped tokens in a normalized token stream.
// The pattern set is fixed at construction; the defaults can be replaced
// through configuration without code changes.
type Extractor struct {
	patterns []*regexp.Regexp
}

// NewExtractor compiles the given pattern expressions. Passing nil or an
// empty slice selects DefaultIdentifierPatterns.
func NewExtractor(exprs []string) (*Extractor, error) {
	if len(exprs) == 0 {
		exprs = DefaultIdentifierPatterns
	}
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid identifier pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return &Extractor{patterns: patterns}, nil
}

// MustExtractor is NewExtractor for statically known pattern sets.
func MustExtractor(exprs []string) *Extractor {
	e, err := NewExtractor(exprs)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns the tokens matching any identifier shape, in original
// order. The input stream is never mutated; matched tokens stay in place
// for the other variant builders.
func (e *Extractor) Extract(tokens []string) []string {
	var matches []string
	for _, t := range tokens {
		for _, re := range e.patterns {
			if re.MatchString(t) {
				matches = append(matches, t)
				break
			}
		}
	}
	return matches
}
