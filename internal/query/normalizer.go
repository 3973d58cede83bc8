// Package query builds the lexical query variants executed against the
// full-text backend: tokenization and particle normalization, synonym
// expansion, docket-number detection, and phrase construction.
package query

import "strings"

// particleSuffixes are the trailing Korean case particles stripped during
// normalization. Ordered longest-first so a compound particle wins over a
// shorter particle that is its own tail (e.g. "로부터" before "로").
var particleSuffixes = []string{
	"으로부터",
	"로부터",
	"에게서",
	"에서는",
	"에서도",
	"에게는",
	"한테는",
	"으로서",
	"으로써",
	"보다는",
	"까지는",
	"까지도",
	"부터는",
	"처럼은",
	"조차도",
	"마저도",
	"께서",
	"한테",
	"에게",
	"에서",
	"까지",
	"부터",
	"처럼",
	"보다",
	"조차",
	"마저",
	"이나",
	"라도",
	"으로",
	"은", "는", "이", "가", "을", "를",
	"와", "과", "도", "만", "의", "에", "로",
}

// interpunct marks occasionally carried over from scanned judgment text.
var interpunctRunes = map[rune]struct{}{
	'·': {}, // middle dot
	'‧': {}, // hyphenation point
	'・': {}, // katakana middle dot
	'ㆍ': {}, // hangul letter araea, used as interpunct in older documents
}

// isHangulSyllable reports whether r is a precomposed Hangul syllable.
func isHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

// isWordRune reports whether r belongs to a token: ASCII alphanumerics and
// Hangul syllables form tokens, everything else separates them.
func isWordRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return true
	}
	return isHangulSyllable(r)
}

// Tokenize splits text into maximal runs of ASCII alphanumerics or Hangul
// syllables. Punctuation and whitespace are discarded. May return an empty
// slice.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// Normalize canonicalizes a single token: ASCII characters are lowercased,
// interpunct marks and hyphen/underscore/slash runs are removed, and at most
// one trailing case particle is stripped (longest candidate first, and only
// when the remainder keeps at least 2 runes and carries no strippable tail
// of its own). The result may be empty, in which case the caller must drop
// the token. Normalize(Normalize(t)) == Normalize(t) for every token.
func Normalize(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == '-' || r == '_' || r == '/':
			// dropped; a run collapses to nothing
		default:
			if _, drop := interpunctRunes[r]; drop {
				continue
			}
			b.WriteRune(r)
		}
	}

	return stripParticle(b.String())
}

// stripParticle removes at most one trailing case particle, preferring the
// longest matching suffix. A particle is only stripped when the remaining
// stem keeps at least 2 runes and would not be stripped again itself; a
// stacked particle the suffix table does not cover as one unit leaves the
// token whole rather than half-stripped.
func stripParticle(token string) string {
	runes := []rune(token)
	for _, suffix := range particleSuffixes {
		sr := []rune(suffix)
		if len(runes)-len(sr) < 2 {
			continue
		}
		if string(runes[len(runes)-len(sr):]) != suffix {
			continue
		}
		stem := string(runes[:len(runes)-len(sr)])
		if stripParticle(stem) != stem {
			continue
		}
		return stem
	}
	return token
}

// NormalizeQuery tokenizes raw query text and normalizes every token,
// dropping tokens that normalize to the empty string. The result is the
// token stream every downstream component consumes.
func NormalizeQuery(text string) []string {
	raw := Tokenize(text)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if n := Normalize(t); n != "" {
			tokens = append(tokens, n)
		}
	}
	return tokens
}
