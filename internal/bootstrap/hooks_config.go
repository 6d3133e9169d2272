package bootstrap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultHooksConfigPath = "hooks.yaml"

// hooksConfig is the optional hooks.yaml schema. Flags passed on the
// command line take precedence over matching fields here; a field left
// at its zero value defers to whatever hooks.yaml sets.
type hooksConfig struct {
	DebugLogPath string `yaml:"debug_log"`
	ToolVerbose  bool   `yaml:"tool_verbose"`
	AutoCommit   bool   `yaml:"auto_commit"`
}

// loadHooksConfig reads path if present and returns its parsed form. A
// missing file is not an error — it returns a zero-value config, so
// hook assembly falls back entirely to CLI flags.
func loadHooksConfig(path string) (hooksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return hooksConfig{}, nil
		}
		return hooksConfig{}, fmt.Errorf("bootstrap: read %q: %w", path, err)
	}
	var cfg hooksConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return hooksConfig{}, fmt.Errorf("bootstrap: parse %q: %w", path, err)
	}
	return cfg, nil
}

// mergeHooksConfig fills zero-valued opts fields from cfg, leaving any
// value the caller already set (via flags) untouched.
func mergeHooksConfig(opts Options, cfg hooksConfig) Options {
	if opts.DebugLogPath == "" {
		opts.DebugLogPath = cfg.DebugLogPath
	}
	if !opts.ToolVerbose {
		opts.ToolVerbose = cfg.ToolVerbose
	}
	if !opts.AutoCommit {
		opts.AutoCommit = cfg.AutoCommit
	}
	return opts
}
