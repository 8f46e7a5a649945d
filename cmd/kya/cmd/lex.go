package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Kya file or expression",
	Long: `Tokenize (lex) a Kya program and print the resulting token stream.

Examples:
  kya lex script.kya
  kya lex -e "x = 1"`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
}

func lexScript(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(src)
	count := 0
	for {
		tok, lerr := l.NextToken()
		if lerr != nil {
			return printErrors([]*errors.KyaError{lerr}, src, filename)
		}
		fmt.Printf("[%-13s] %q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		count++
		if tok.Type == lexer.EOF {
			break
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	}
	return nil
}
