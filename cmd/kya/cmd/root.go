package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags (-ldflags "-X ...").
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "kya",
	Short: "Kya interpreter and compiler",
	Long: `kya is the command-line driver for the Kya scripting language:
compile and run Kya source files, inspect the token stream a file
lexes to, or disassemble the bytecode a file compiles to.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (stack limit, print flushing)")
}
