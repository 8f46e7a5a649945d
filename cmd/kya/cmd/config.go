package cmd

import (
	"os"
	"runtime/debug"

	"github.com/goccy/go-yaml"
)

// Config is the YAML-driven set of interpreter options the CLI exposes
// beyond the language core's defaults, loaded via the --config flag.
type Config struct {
	// StackLimitBytes bounds the maximum stack any single goroutine may
	// grow to before the Go runtime aborts the process (runtime/debug's own
	// "stack size limit" knob — Kya's threads are plain goroutines, so this
	// is the closest available guard against runaway recursion through the
	// VM's native call-stack-recursive frame calls). Zero leaves the Go
	// runtime default untouched.
	StackLimitBytes int `yaml:"stackLimitBytes"`

	// PrintFlushEachCall controls whether the `print` builtin's writer
	// flushes after every call (the default, matching os.Stdout's own
	// unbuffered behavior) or is left buffered and flushed once at exit.
	PrintFlushEachCall bool `yaml:"printFlushEachCall"`
}

// defaultConfig matches the language core's own defaults: no stack limit
// override, flush on every print call.
func defaultConfig() Config {
	return Config{PrintFlushEachCall: true}
}

// loadConfig reads and parses path as YAML, falling back to defaultConfig
// when path is empty. Applying a nonzero StackLimitBytes calls
// debug.SetMaxStack immediately, since that knob is process-global.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.StackLimitBytes > 0 {
		debug.SetMaxStack(cfg.StackLimitBytes)
	}
	return cfg, nil
}
