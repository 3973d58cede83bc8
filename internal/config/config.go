// Package config loads lawsearch configuration: hardcoded defaults, an
// optional YAML file, then LAWSEARCH_* environment overrides, in that
// order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	lawerrors "github.com/brainer3220/law-sub000/internal/errors"
)

// Config is the complete lawsearch configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Search  SearchConfig  `yaml:"search"`
	Query   QueryConfig   `yaml:"query"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the SQLite retrieval backend.
type StoreConfig struct {
	// Path is the document database file. Empty means in-memory.
	Path string `yaml:"path"`

	// QueryTimeoutMS bounds a single variant execution in milliseconds.
	QueryTimeoutMS int `yaml:"query_timeout_ms"`

	// TitleWeight / BodyWeight are the fallback strategy field weights.
	// TitleWeight must stay strictly above BodyWeight.
	TitleWeight float64 `yaml:"title_weight"`
	BodyWeight  float64 `yaml:"body_weight"`

	// TitleBonus is the fallback whole-query title match bonus.
	TitleBonus float64 `yaml:"title_bonus"`

	// ForceFallback disables the FTS5 probe and uses the LIKE strategy.
	ForceFallback bool `yaml:"force_fallback"`
}

// SearchConfig configures fusion and pagination.
type SearchConfig struct {
	// RRFConstant is the RRF smoothing parameter k (default: 60).
	RRFConstant int `yaml:"rrf_constant"`

	// Parallelism caps concurrent per-variant backend calls.
	Parallelism int `yaml:"parallelism"`

	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	CacheSize    int `yaml:"cache_size"`

	// Variant boosts. Tuned production values; read-only at query time.
	BaseBoost       float64 `yaml:"base_boost"`
	TitleBoost      float64 `yaml:"title_boost"`
	SynonymBoost    float64 `yaml:"synonym_boost"`
	IdentifierBoost float64 `yaml:"identifier_boost"`
	PhraseBoost     float64 `yaml:"phrase_boost"`
}

// QueryConfig configures normalization-adjacent rule sets. Both are loaded
// once at startup and immutable afterwards.
type QueryConfig struct {
	// SynonymsPath points at an external synonym dictionary YAML.
	// Empty selects the embedded default dictionary.
	SynonymsPath string `yaml:"synonyms_path"`

	// IdentifierPatterns override the built-in docket/citation shapes.
	IdentifierPatterns []string `yaml:"identifier_patterns"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

// NewConfig returns the hardcoded defaults.
func NewConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:           "lawsearch.db",
			QueryTimeoutMS: 3000,
			TitleWeight:    2.0,
			BodyWeight:     1.0,
			TitleBonus:     0.1,
		},
		Search: SearchConfig{
			RRFConstant:     60,
			Parallelism:     4,
			DefaultLimit:    10,
			MaxLimit:        100,
			CacheSize:       256,
			BaseBoost:       1.0,
			TitleBoost:      1.25,
			SynonymBoost:    0.9,
			IdentifierBoost: 1.1,
			PhraseBoost:     0.85,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (optional when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, lawerrors.ConfigError(fmt.Sprintf("cannot read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, lawerrors.ConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies LAWSEARCH_* environment overrides. Env has the highest
// precedence.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LAWSEARCH_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("LAWSEARCH_SYNONYMS"); v != "" {
		cfg.Query.SynonymsPath = v
	}
	if v := os.Getenv("LAWSEARCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LAWSEARCH_RRF_CONSTANT"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			cfg.Search.RRFConstant = k
		}
	}
	if v := os.Getenv("LAWSEARCH_FORCE_FALLBACK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Store.ForceFallback = b
		}
	}
}

// Validate rejects configurations that would produce inconsistent ranking.
func (c *Config) Validate() error {
	if c.Store.TitleWeight <= c.Store.BodyWeight {
		return lawerrors.ConfigError(
			fmt.Sprintf("store.title_weight (%.2f) must exceed store.body_weight (%.2f)",
				c.Store.TitleWeight, c.Store.BodyWeight), nil)
	}
	if c.Store.QueryTimeoutMS <= 0 {
		return lawerrors.ConfigError("store.query_timeout_ms must be positive", nil)
	}
	if c.Search.RRFConstant <= 0 {
		return lawerrors.ConfigError("search.rrf_constant must be positive", nil)
	}
	boosts := map[string]float64{
		"search.base_boost":       c.Search.BaseBoost,
		"search.title_boost":      c.Search.TitleBoost,
		"search.synonym_boost":    c.Search.SynonymBoost,
		"search.identifier_boost": c.Search.IdentifierBoost,
		"search.phrase_boost":     c.Search.PhraseBoost,
	}
	for name, b := range boosts {
		if b <= 0 {
			return lawerrors.ConfigError(fmt.Sprintf("%s must be positive", name), nil)
		}
	}
	return nil
}

// QueryTimeout returns the per-variant timeout as a duration.
func (c *StoreConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMS) * time.Millisecond
}
