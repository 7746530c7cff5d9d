package config

import (
	"fmt"

	"sourced/internal/common/fsutil"
	"sourced/pkg/types"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr           string             `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel       string             `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat      string             `json:"log_format" yaml:"log_format" toml:"log_format"`
	SourcesDir     string             `json:"sources_dir" yaml:"sources_dir" toml:"sources_dir"`
	Sources        []types.SourceSpec `json:"sources" yaml:"sources" toml:"sources"`
	MaxBodyBytes   int64              `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	MemoryCapacity int                `json:"memory_capacity" yaml:"memory_capacity" toml:"memory_capacity"`
	CORS           CORS               `json:"cors" yaml:"cors" toml:"cors"`
}

// CORS configures cross-origin access to the HTTP API. Disabled by default.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
// Inline sources must be named, each name once; the rest of a source spec is
// checked when the hub creates it.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	if err := fsutil.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	seen := make(map[string]int, len(cfg.Sources))
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return cfg, fmt.Errorf("%s: sources[%d]: name is required", path, i)
		}
		if j, dup := seen[s.Name]; dup {
			return cfg, fmt.Errorf("%s: sources[%d]: name %q already used by sources[%d]", path, i, s.Name, j)
		}
		seen[s.Name] = i
	}
	return cfg, nil
}
