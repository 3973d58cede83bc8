package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit      int
	offset     int
	format     string // "text", "json"
	components bool   // include per-variant score components
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the document database",
		Long: `Search the document database with lexical query variants.

Examples:
  lawsearch search "근로자의 손해배상"
  lawsearch search "2020다12345" --limit 5
  lawsearch search "임대차 보증금" --format json --components`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, root, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.components, "components", false, "Show per-variant score components")

	return cmd
}

func runSearch(cmd *cobra.Command, root *rootOptions, queryText string, opts searchOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	svc, st, err := openService(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Info("search_started",
		slog.String("query", queryText),
		slog.Int("limit", opts.limit),
		slog.Int("offset", opts.offset),
		slog.String("strategy", st.StrategyName()))

	docs, err := svc.Search(cmd.Context(), queryText, opts.limit, opts.offset)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	for i, d := range docs {
		fmt.Fprintf(out, "%2d. %s  (score %.4f)\n", opts.offset+i+1, d.Title, d.Score)
		if d.Path != "" {
			fmt.Fprintf(out, "    %s\n", d.Path)
		}
		if d.Snippet != "" {
			fmt.Fprintf(out, "    %s\n", d.Snippet)
		}
		if opts.components {
			for _, name := range sortedComponentNames(d.ScoreComponents) {
				fmt.Fprintf(out, "      %-16s %.6f\n", name, d.ScoreComponents[name])
			}
		}
	}
	return nil
}

// sortedComponentNames orders score components for stable display.
func sortedComponentNames(components map[string]float64) []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
