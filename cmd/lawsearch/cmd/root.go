// Package cmd implements the lawsearch CLI commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brainer3220/law-sub000/internal/config"
	"github.com/brainer3220/law-sub000/internal/logging"
	"github.com/brainer3220/law-sub000/internal/query"
	"github.com/brainer3220/law-sub000/internal/search"
	"github.com/brainer3220/law-sub000/internal/store"
)

// rootOptions holds flags shared by all commands.
type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the lawsearch root command.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "lawsearch",
		Short: "Full-text search over Korean legal documents",
		Long: `lawsearch ranks legal documents with lexical query variants.

A query is normalized and expanded into several field-scoped variants
(synonyms, docket identifiers, exact phrase), each variant is ranked by
the SQLite backend, and the per-variant rankings are merged with
Reciprocal Rank Fusion into one deterministic result list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to document database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newSearchCmd(&opts))
	cmd.AddCommand(newIndexCmd(&opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig builds the effective configuration from flags, file, and env.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Store.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// setupLogging initializes the default logger per configuration.
func setupLogging(cfg *config.Config) (func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.FilePath = cfg.Logging.FilePath
	logCfg.WriteToStderr = false
	return logging.Setup(logCfg)
}

// openService wires the full search stack for one CLI invocation: store,
// dictionaries, variant builder, engine, cached service.
func openService(cfg *config.Config) (*search.Service, *store.Store, error) {
	st, err := store.Open(cfg.Store.Path, store.Config{
		QueryTimeout:  cfg.Store.QueryTimeout(),
		TitleWeight:   cfg.Store.TitleWeight,
		BodyWeight:    cfg.Store.BodyWeight,
		TitleBonus:    cfg.Store.TitleBonus,
		ForceFallback: cfg.Store.ForceFallback,
	})
	if err != nil {
		return nil, nil, err
	}

	table, err := config.LoadSynonyms(cfg.Query.SynonymsPath)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	extractor, err := query.NewExtractor(cfg.Query.IdentifierPatterns)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	builder := query.NewBuilder(query.NewExpander(table), extractor, query.Boosts{
		Base:       cfg.Search.BaseBoost,
		Title:      cfg.Search.TitleBoost,
		Synonym:    cfg.Search.SynonymBoost,
		Identifier: cfg.Search.IdentifierBoost,
		Phrase:     cfg.Search.PhraseBoost,
	})

	engine := search.NewEngine(st, builder, search.EngineConfig{
		RRFConstant:  cfg.Search.RRFConstant,
		Parallelism:  cfg.Search.Parallelism,
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		CacheSize:    cfg.Search.CacheSize,
	})

	svc, err := search.NewService(engine)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return svc, st, nil
}
