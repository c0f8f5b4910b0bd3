package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "batch.hcl", `
source_dir       = "/data/batch42"
out_dir          = "/data/anon42"
replacement_file = "/data/map.tsv"

include_ext = ["bam", "vcf.gz"]
ignore_ext  = ["idat"]

use_symlink           = true
strip_program_headers = true

max_procs             = 8
poll_interval_seconds = 5
strategy              = "poll"
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "/data/batch42", cfg.SourceDir)
	assert.Equal(t, "/data/anon42", cfg.OutDir)
	assert.Equal(t, []string{"bam", "vcf.gz"}, cfg.IncludeExt)
	assert.Equal(t, []string{"idat"}, cfg.IgnoreExt)
	assert.True(t, cfg.UseSymlink)
	assert.True(t, cfg.StripProgramHeaders)
	assert.Equal(t, 8, cfg.MaxProcs)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, "poll", cfg.Strategy)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "batch.yaml", `
source_dir: /data/batch42
out_dir: /data/anon42
replacement_file: /data/map.tsv
ignore_ext:
  - idat
max_procs: 4
strategy: pool
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "/data/batch42", cfg.SourceDir)
	assert.Equal(t, []string{"idat"}, cfg.IgnoreExt)
	assert.Equal(t, 4, cfg.MaxProcs)
	assert.Equal(t, "pool", cfg.Strategy)
}

func TestLoad_UnknownExtension(t *testing.T) {
	path := writeConfig(t, "batch.toml", `x = 1`)
	_, err := Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty_is_valid", Config{}, false},
		{"poll_strategy", Config{Strategy: "poll"}, false},
		{"pool_strategy", Config{Strategy: "pool"}, false},
		{"unknown_strategy", Config{Strategy: "magic"}, true},
		{"negative_max_procs", Config{MaxProcs: -1}, true},
		{"negative_token_length", Config{TokenLength: -3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
