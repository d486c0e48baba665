package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guiafaen/guia/internal/libs/config"
	"github.com/guiafaen/guia/internal/scope/search"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the configured content tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}
			return printTables(cmd.OutOrStdout(), cfg)
		},
	}
}

// printTables lists searched tables in corpus order, then the tables that
// are only editable.
func printTables(out io.Writer, cfg *config.Config) error {
	searched := make(map[string]bool, len(cfg.ContentTables))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tTITLE\tSCREEN\tSEARCHED")
	for _, t := range cfg.ContentTables {
		searched[t.Name] = true
		fmt.Fprintf(tw, "%s\t%s\t%s\tyes\n", t.Name, search.TitleFor(t.Name), t.Screen)
	}
	for _, name := range cfg.EditableTables {
		if !searched[name] {
			fmt.Fprintf(tw, "%s\t%s\t-\tno\n", name, search.TitleFor(name))
		}
	}
	return tw.Flush()
}
