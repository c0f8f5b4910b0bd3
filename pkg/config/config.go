// Package config loads the optional batch configuration file. The format is
// chosen by file extension through a parser registry; flags given on the
// command line override whatever the file says.
package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Parser is the interface for config parsers.
type Parser interface {
	// Parse parses the config from bytes.
	Parse(ctx context.Context, data []byte) (*Config, error)

	// CanParse checks if this parser can handle the given file.
	CanParse(filename string) bool
}

var parsers []Parser

// Register registers a parser.
func Register(p Parser) {
	parsers = append(parsers, p)
}

// GetParser returns a parser that can handle the given file.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Config is the batch configuration.
type Config struct {
	SourceDir       string `yaml:"source_dir"`
	OutDir          string `yaml:"out_dir"`
	ReplacementFile string `yaml:"replacement_file"`

	// IncludeExt restricts the batch to files matching these extensions or
	// glob patterns.
	IncludeExt []string `yaml:"include_ext,omitempty"`
	// IgnoreExt marks matching files passthrough: renamed but content
	// untouched.
	IgnoreExt []string `yaml:"ignore_ext,omitempty"`

	UseSymlink          bool `yaml:"use_symlink,omitempty"`
	StripProgramHeaders bool `yaml:"strip_program_headers,omitempty"`
	EmitChecksum        bool `yaml:"emit_checksum,omitempty"`

	// TokenLength is the length of generated anonymous tokens.
	TokenLength int `yaml:"token_length,omitempty"`

	// MaxProcs bounds execution concurrency; 0 or 1 means sequential.
	MaxProcs int `yaml:"max_procs,omitempty"`
	// PollIntervalSeconds is the polling scheduler's cycle period.
	PollIntervalSeconds int `yaml:"poll_interval_seconds,omitempty"`
	// Strategy selects the execution engine: "poll" or "pool".
	Strategy string `yaml:"strategy,omitempty"`
}

// PollInterval returns the configured poll interval as a duration.
func (cfg *Config) PollInterval() time.Duration {
	return time.Duration(cfg.PollIntervalSeconds) * time.Second
}

// Validate checks the configuration for contradictions.
func (cfg *Config) Validate() error {
	if cfg.TokenLength < 0 {
		return errors.Errorf("token_length must not be negative, got %d", cfg.TokenLength)
	}
	if cfg.MaxProcs < 0 {
		return errors.Errorf("max_procs must not be negative, got %d", cfg.MaxProcs)
	}
	switch cfg.Strategy {
	case "", "poll", "pool":
	default:
		return errors.Errorf("unknown strategy %q (want poll or pool)", cfg.Strategy)
	}
	return nil
}

// Load loads the configuration from a file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
