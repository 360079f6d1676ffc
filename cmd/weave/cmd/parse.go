package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weavelang/weave/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a weave script and print its header and body AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	script, err := parser.ParseScript(string(content))
	if err != nil {
		return err
	}
	fmt.Printf("version: %s\n", script.Header.Version)
	if script.Header.Output != "" {
		fmt.Printf("output:  %s\n", script.Header.Output)
	}
	for _, imp := range script.Header.Imports {
		fmt.Printf("import:  %s\n", imp)
	}
	for _, v := range script.Header.Variables {
		fmt.Printf("var %s = %s\n", v.Name, v.Expression.String())
	}
	fmt.Println("---")
	fmt.Println(script.Body.String())
	return nil
}
