// Command kya is the command-line driver for the Kya language: it
// compiles and runs Kya source files against the interpreter core.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/kya/cmd/kya/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
