package cmd

import "os"

// isTerminal reports whether f looks like an interactive terminal, used to
// decide whether the error formatter emits ANSI color.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
