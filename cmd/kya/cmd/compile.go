package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/kya/internal/bytecode"
	"github.com/cwbudde/kya/internal/compiler"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Kya file and print its disassembly",
	Long: `Compile a Kya program to bytecode and print a human-readable
disassembly of the resulting CodeObject (and any nested CodeObjects
produced for function or class bodies).

Bytecode is in-memory only; this command never writes an output file.`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	src := string(content)

	code, err := compiler.Compile(src)
	if err != nil {
		if kerr, ok := err.(*errors.KyaError); ok {
			return printErrors([]*errors.KyaError{kerr.WithSource(src, filename)}, src, filename)
		}
		return err
	}

	printDisassembly(code, map[*object.CodeObject]bool{})
	return nil
}

// printDisassembly prints code's own disassembly, then recurses into any
// nested CodeObject constants (function and class bodies), skipping
// CodeObjects already printed to guard against a degenerate self-reference.
func printDisassembly(code *object.CodeObject, seen map[*object.CodeObject]bool) {
	if seen[code] {
		return
	}
	seen[code] = true

	constReprs := make([]string, len(code.Consts))
	var nested []*object.CodeObject
	for i, c := range code.Consts {
		if co, ok := c.(*object.CodeObject); ok {
			constReprs[i] = fmt.Sprintf("<code %s>", co.Name)
			nested = append(nested, co)
			continue
		}
		repr, err := object.Repr(c)
		if err != nil {
			repr = "<unrepr'able const>"
		}
		constReprs[i] = repr
	}

	fmt.Printf("== %s ==\n", code.Name)
	fmt.Print(bytecode.Disassemble(code.Code, constReprs, code.Names))
	fmt.Println()

	for _, co := range nested {
		printDisassembly(co, seen)
	}
}
