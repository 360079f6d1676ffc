package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weavelang/weave/internal/lexer"
	"github.com/weavelang/weave/pkg/token"
)

var (
	lexShowPos  bool
	lexOnlyErrs bool
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a weave script and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", true, "show line:column for each token")
	lexCmd.Flags().BoolVar(&lexOnlyErrs, "only-errors", false, "print only the lexing error, if any")
}

func runLex(_ *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	l := lexer.New(string(content))
	tokens := l.Tokenize()
	if lexErr := l.Err(); lexErr != nil {
		fmt.Fprintf(os.Stderr, "lex error at %s: %s\n", lexErr.Pos, lexErr.Message)
		return fmt.Errorf("lexing failed")
	}
	if lexOnlyErrs {
		fmt.Println("no lexing errors")
		return nil
	}
	for _, tok := range tokens {
		printToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return nil
}

func printToken(tok token.Token) {
	if lexShowPos {
		fmt.Printf("%-10s %-20q @%s\n", tok.Type, tok.Literal, tok.Pos)
		return
	}
	fmt.Printf("%-10s %q\n", tok.Type, tok.Literal)
}
