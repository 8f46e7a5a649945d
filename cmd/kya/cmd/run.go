package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/kya/internal/builtins"
	"github.com/cwbudde/kya/internal/compiler"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
	"github.com/cwbudde/kya/internal/parser"
	"github.com/cwbudde/kya/internal/vm"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Kya file or expression",
	Long: `Execute a Kya program from a file or inline expression.

Examples:
  # Run a script file
  kya run script.kya

  # Evaluate an inline expression
  kya run -e "print(\"hi\")"

  # Run with AST dump (for debugging)
  kya run --dump-ast script.kya`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST before executing")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print a trace line before executing")
}

func readSource(args []string) (src string, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

func runScript(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", configPath, err)
	}

	if dumpAST {
		mod, errs := parser.Parse(src)
		if len(errs) > 0 {
			return printErrors(errs, src, filename)
		}
		fmt.Println("AST:")
		fmt.Println(mod.String())
		fmt.Println()
	}

	code, err := compiler.Compile(src)
	if err != nil {
		if kerr, ok := err.(*errors.KyaError); ok {
			return printErrors([]*errors.KyaError{kerr.WithSource(src, filename)}, src, filename)
		}
		return err
	}

	restore := setupStdout(cfg)
	defer restore()

	if trace {
		fmt.Fprintf(os.Stderr, "[trace] executing %s\n", filename)
	}

	globals := object.NewDict()
	builtins.Register(globals)

	result, err := vm.Eval(code, globals)
	if err != nil {
		if kerr, ok := err.(*errors.KyaError); ok {
			return printErrors([]*errors.KyaError{kerr.WithSource(src, filename)}, src, filename)
		}
		return err
	}

	if verbose {
		repr, _ := object.Repr(result)
		fmt.Fprintf(os.Stderr, "[trace] top-level result: %s\n", repr)
	}
	return nil
}

// setupStdout points builtins.Stdout at os.Stdout, buffered and flushed
// once at process exit when cfg.PrintFlushEachCall is false, or a writer
// that flushes after every Write otherwise (matching os.Stdout's own
// default unbuffered behavior). The returned func restores the original
// writer and flushes any remaining buffered output.
func setupStdout(cfg Config) (restore func()) {
	original := builtins.Stdout
	bw := bufio.NewWriter(os.Stdout)
	if cfg.PrintFlushEachCall {
		builtins.Stdout = flushingWriter{bw}
	} else {
		builtins.Stdout = bw
	}
	return func() {
		bw.Flush()
		builtins.Stdout = original
	}
}

// flushingWriter flushes the underlying bufio.Writer after every Write, so
// `print` output appears immediately even though it passes through a
// buffer (grounded on cfg.PrintFlushEachCall's documented semantics).
type flushingWriter struct{ w *bufio.Writer }

func (f flushingWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	return n, f.w.Flush()
}

var _ io.Writer = flushingWriter{}

func printErrors(errs []*errors.KyaError, src, filename string) error {
	for _, e := range errs {
		e.WithSource(src, filename)
	}
	isTTY := isTerminal(os.Stderr)
	fmt.Fprint(os.Stderr, errors.FormatErrors(errs, isTTY))
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("failed with %d error(s)", len(errs))
}
