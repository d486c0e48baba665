// Package main implements the guia CLI for searching and checking the guide's content from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "guia",
	Short:        "Student guide CLI",
	SilenceUsage: true,
	Long: `guia searches the student guide the way the app does: the built-in
catalog plus the content tables, matched ignoring case and accents.`,
}

func main() {
	rootCmd.AddCommand(newSearchCmd(), newCatalogCmd(), newTablesCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
