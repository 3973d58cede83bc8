package query

import "strings"

// BuildPhrase returns a double-quoted, space-joined exact-phrase fragment
// over the normalized tokens. Single-token queries carry no phrase signal,
// so ok is false for fewer than 2 tokens.
func BuildPhrase(tokens []string) (phrase string, ok bool) {
	if len(tokens) < 2 {
		return "", false
	}
	return `"` + strings.Join(tokens, " ") + `"`, true
}
