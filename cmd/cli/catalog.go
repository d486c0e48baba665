package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guiafaen/guia/internal/scope/search"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the static catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate a catalog file, or the built-in catalog when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCatalogCheck(cmd.OutOrStdout(), path)
		},
	})
	return cmd
}

func runCatalogCheck(out io.Writer, path string) error {
	catalog, err := search.LoadCatalog(path)
	if err != nil {
		return err
	}

	name := path
	if name == "" {
		name = "built-in catalog"
	}
	fmt.Fprintf(out, "%s: %d entries, %d strings\n\n", name, len(catalog.Entries), catalog.Strings())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tSCREEN\tSTRINGS")
	for _, e := range catalog.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Title, e.Screen, len(e.Content))
	}
	return tw.Flush()
}
