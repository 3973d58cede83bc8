package store

import "strings"

// Headline limits mirroring the highlighter the fallback strategy replaces:
// at most 2 fragments of 15-40 words each.
const (
	headlineMaxFragments = 2
	headlineMinWords     = 15
	headlineMaxWords     = 40
)

// headline extracts up to maxFragments windows of body text around term
// matches, wrapping matched words in <b> tags and joining fragments with an
// ellipsis. Terms must be lowercase. When nothing matches, the opening of
// the body is returned as a single unhighlighted fragment.
func headline(body string, terms []string, maxFragments, minWords, maxWords int) string {
	words := strings.Fields(body)
	if len(words) == 0 {
		return ""
	}

	matched := make([]bool, len(words))
	for i, w := range words {
		lower := strings.ToLower(w)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				matched[i] = true
				break
			}
		}
	}

	var fragments []string
	covered := -1
	for i := 0; i < len(words) && len(fragments) < maxFragments; i++ {
		if !matched[i] || i <= covered {
			continue
		}

		start := i - minWords/2
		if start <= covered {
			start = covered + 1
		}
		if start < 0 {
			start = 0
		}
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		// Pull the window back up to the minimum when the tail is short.
		if end-start < minWords {
			start = end - minWords
			if start <= covered {
				start = covered + 1
			}
			if start < 0 {
				start = 0
			}
		}

		fragments = append(fragments, renderFragment(words[start:end], matched[start:end]))
		covered = end - 1
	}

	if len(fragments) == 0 {
		end := minWords
		if end > len(words) {
			end = len(words)
		}
		return strings.Join(words[:end], " ")
	}

	return strings.Join(fragments, " … ")
}

// renderFragment joins fragment words, wrapping matches in <b> tags.
func renderFragment(words []string, matched []bool) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		if matched[i] {
			b.WriteString("<b>")
			b.WriteString(w)
			b.WriteString("</b>")
		} else {
			b.WriteString(w)
		}
	}
	return b.String()
}
