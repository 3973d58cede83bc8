// Package configs provides configuration data embedded at build time, so
// defaults are available in every distribution without external files.
package configs

import _ "embed"

// DefaultSynonymsYAML is the built-in legal-domain synonym dictionary used
// when no external dictionary is configured. The format is one normalized
// term per key mapping to a list of normalized near-synonyms.
//
//go:embed synonyms.yaml
var DefaultSynonymsYAML string
