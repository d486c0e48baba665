package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/guiafaen/guia/internal/libs/config"
	"github.com/guiafaen/guia/internal/scope/db"
	"github.com/guiafaen/guia/internal/scope/search"
)

type searchOptions struct {
	catalog string
	offline bool
	limit   int
	asJSON  bool
	timeout time.Duration
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the guide ignoring case and accents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "Catalog file (defaults to CATALOG_PATH or the built-in catalog)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Search the catalog only, without the database")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum number of entries to show (0 shows all)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print results as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Database connect and fetch timeout")
	return cmd
}

func runSearch(ctx context.Context, out, errOut io.Writer, query string, opts searchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	path := opts.catalog
	if path == "" {
		path = cfg.CatalogPath
	}
	catalog, err := search.LoadCatalog(path)
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: errOut}).Level(zerolog.WarnLevel)
	var loader search.Loader
	if !opts.offline {
		connectCtx, cancel := context.WithTimeout(ctx, opts.timeout)
		database, err := db.New(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			fmt.Fprintf(errOut, "database unavailable, searching the catalog only: %v\n", err)
		} else {
			defer database.Close()
			repo := db.NewContentRepo(database.Pool(), db.NewTables(cfg.EditableTables...))
			loader = search.NewFetcher(repo, contentTables(cfg), logger,
				search.WithFetchTimeout(opts.timeout),
				search.WithConcurrency(cfg.FetchConcurrency),
			)
		}
	}

	index := search.NewIndex(catalog, loader, logger)
	if loader != nil {
		index.Load(ctx)
	}

	results := index.Search(query)
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printResults(out, query, results, newStyles(lipgloss.NewRenderer(out)))
	return nil
}

func contentTables(cfg *config.Config) []search.Table {
	tables := make([]search.Table, len(cfg.ContentTables))
	for i, t := range cfg.ContentTables {
		tables[i] = search.Table{Name: t.Name, Screen: t.Screen}
	}
	return tables
}

type styles struct {
	title     lipgloss.Style
	screen    lipgloss.Style
	key       lipgloss.Style
	highlight lipgloss.Style
}

// newStyles binds the styles to r, so colors are dropped when the output
// is not a terminal.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true),
		screen:    r.NewStyle().Foreground(lipgloss.Color("8")),
		key:       r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		highlight: r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
	}
}

// printResults lists each entry with its matching strings, the matched
// spans highlighted.
func printResults(w io.Writer, query string, results []search.Result, st styles) {
	fmt.Fprintf(w, "guia search %q\n\n", query)
	fmt.Fprintf(w, "Results (%d found):\n", len(results))

	for _, r := range results {
		fmt.Fprintf(w, "\n%s %s\n", st.title.Render(r.Title), st.screen.Render("→ "+r.Screen))
		for i, text := range r.Content {
			var b strings.Builder
			for _, seg := range search.Highlight(text, query) {
				if seg.Match {
					b.WriteString(st.highlight.Render(seg.Text))
				} else {
					b.WriteString(seg.Text)
				}
			}
			line := "  " + b.String()
			if i < len(r.Keys) && r.Keys[i] != "" {
				line += " " + st.key.Render("("+r.Keys[i]+")")
			}
			fmt.Fprintln(w, line)
		}
	}
}
