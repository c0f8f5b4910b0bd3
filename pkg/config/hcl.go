package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// HCLParser implements the Parser interface for HCL files.
type HCLParser struct{}

// CanParse checks if this parser can handle the given file.
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// Parse parses the config from HCL.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	type hclConfig struct {
		SourceDir       string `hcl:"source_dir,optional"`
		OutDir          string `hcl:"out_dir,optional"`
		ReplacementFile string `hcl:"replacement_file,optional"`

		IncludeExt []string `hcl:"include_ext,optional"`
		IgnoreExt  []string `hcl:"ignore_ext,optional"`

		UseSymlink          bool `hcl:"use_symlink,optional"`
		StripProgramHeaders bool `hcl:"strip_program_headers,optional"`
		EmitChecksum        bool `hcl:"emit_checksum,optional"`

		TokenLength int `hcl:"token_length,optional"`

		MaxProcs            int    `hcl:"max_procs,optional"`
		PollIntervalSeconds int    `hcl:"poll_interval_seconds,optional"`
		Strategy            string `hcl:"strategy,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &Config{
		SourceDir:           hclCfg.SourceDir,
		OutDir:              hclCfg.OutDir,
		ReplacementFile:     hclCfg.ReplacementFile,
		IncludeExt:          hclCfg.IncludeExt,
		IgnoreExt:           hclCfg.IgnoreExt,
		UseSymlink:          hclCfg.UseSymlink,
		StripProgramHeaders: hclCfg.StripProgramHeaders,
		EmitChecksum:        hclCfg.EmitChecksum,
		TokenLength:         hclCfg.TokenLength,
		MaxProcs:            hclCfg.MaxProcs,
		PollIntervalSeconds: hclCfg.PollIntervalSeconds,
		Strategy:            hclCfg.Strategy,
	}, nil
}
