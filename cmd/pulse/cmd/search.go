package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/pulse/internal/output"
	"github.com/Aman-CERP/pulse/internal/store"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	index    string
	limit    int
	offset   int
	language string
	safe     bool
	json     bool
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search an index",
		Long: `Search an index with a query string over url, title, content and
meta tags. The newest index under the index root is used unless --index
is given.

Query syntax follows bleve query strings: terms, "phrases", +required,
-excluded and field:value.

Examples:
  pulse search river flood
  pulse search 'title:"release notes"' --lang en --safe
  pulse search golang --limit 5 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.wrap(func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, strings.Join(args, " "), opts)
		}),
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "Index directory (default: newest under the index root)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "Only documents with this language tag")
	cmd.Flags().BoolVar(&opts.safe, "safe", false, "Exclude documents flagged NSFW")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, a *app, query string, opts searchOptions) error {
	path := opts.index
	if path == "" {
		latest, err := store.LatestIndex(a.cfg.Index.Root)
		if err != nil {
			return err
		}
		path = latest
	}

	s, err := store.OpenSearcher(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	slog.Info("search_started",
		slog.String("index", path),
		slog.String("query", query),
		slog.Int("limit", opts.limit))

	res, err := s.Search(cmd.Context(), store.Query{
		Text:     query,
		Language: opts.language,
		SafeOnly: opts.safe,
		Limit:    opts.limit,
		Offset:   opts.offset,
	})
	if err != nil {
		return err
	}
	slog.Info("search_complete", slog.Uint64("total", res.Total), slog.Int("returned", len(res.Hits)))

	out := output.New(cmd.OutOrStdout())
	if opts.json {
		return out.JSON(res)
	}
	out.Hits(res, opts.offset)
	return nil
}
