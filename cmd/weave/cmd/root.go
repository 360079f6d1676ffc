// Package cmd implements weave's cobra-based CLI subcommands: run, lex,
// parse, and version.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "weave — a DataWeave-like transformation language",
	Long: `weave runs small transformation scripts that map an input document
(JSON/CSV/XML or a raw value) to an output document through a declarative
expression language: object/list constructors, property and index access,
if/match, default-coalesce, and higher-order map/reduce/filter/flatMap/to.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("weave version {{.Version}} (%s)\n", GitCommit))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
