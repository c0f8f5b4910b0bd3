package commands

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/cmd/genanon/opts"
	"github.com/primed-bio/genanon/pkg/executor"
	"github.com/primed-bio/genanon/pkg/log"
	"github.com/primed-bio/genanon/pkg/pipeline"
	"github.com/primed-bio/genanon/pkg/replacemap"
	"github.com/primed-bio/genanon/pkg/scan"
)

// OptsFunc resolves the shared command dependencies.
type OptsFunc func(ctx context.Context) (*opts.RootOpts, error)

// NewPrepareCmd creates the prepare command: scan a source tree, synthesize
// one transformation command per file and write them to a command file for
// the run command.
func NewPrepareCmd(optsFn OptsFunc) *cobra.Command {
	var (
		sourceDir       string
		outDir          string
		replacementFile string
		commandFile     string
		fileList        string
		includeExt      []string
		ignoreExt       []string
		useSymlink      bool
		stripPG         bool
		emitChecksum    bool
		tokenLength     int
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Synthesize per-file substitution commands for a batch",
		Long: `Prepare walks the source directory, classifies every file by type and
synthesizes the external command that will transform it: binary alignment
containers are decoded, substituted and re-encoded; compressed text is
expanded and recompressed; ignored extensions are copied or linked with
their names rewritten. The commands are written one per line to the command
file, ready for 'genanon run'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "prepare").Logger().WithContext(ctx)

			ro, err := optsFn(ctx)
			if err != nil {
				return err
			}
			cfg := ro.Config
			if sourceDir != "" {
				cfg.SourceDir = sourceDir
			}
			if outDir != "" {
				cfg.OutDir = outDir
			}
			if replacementFile != "" {
				cfg.ReplacementFile = replacementFile
			}
			if len(includeExt) > 0 {
				cfg.IncludeExt = includeExt
			}
			if len(ignoreExt) > 0 {
				cfg.IgnoreExt = ignoreExt
			}
			cfg.UseSymlink = cfg.UseSymlink || useSymlink
			cfg.StripProgramHeaders = cfg.StripProgramHeaders || stripPG
			cfg.EmitChecksum = cfg.EmitChecksum || emitChecksum
			if tokenLength > 0 {
				cfg.TokenLength = tokenLength
			}
			if cfg.SourceDir == "" || cfg.OutDir == "" || cfg.ReplacementFile == "" {
				return errors.New("--source-dir, --out-dir and --replacement-file are required (via flags or config file)")
			}

			ui := log.New(os.Stdout, zerolog.Ctx(ctx).GetLevel())
			ui.Header("preparing batch")

			m, err := replacemap.Load(ctx, cfg.ReplacementFile, cfg.TokenLength)
			if err != nil {
				return err
			}
			for _, overlap := range pipeline.LintMap(m) {
				ui.Warningf("replacement map overlap: %s (result is order-dependent)", overlap)
			}

			scanner := &scan.Scanner{
				Map:                 m,
				IncludePatterns:     cfg.IncludeExt,
				PassthroughPatterns: cfg.IgnoreExt,
			}
			if fileList != "" {
				list, err := readFileList(fileList)
				if err != nil {
					return err
				}
				scanner.FileList = list
			}

			entries, err := scanner.Scan(ctx, cfg.SourceDir, cfg.OutDir)
			if err != nil {
				return errors.Errorf("scanning source directory: %w", err)
			}
			if err := scan.EnsureTargetDirs(entries); err != nil {
				return err
			}

			synthOpts := pipeline.Options{
				UseSymlink:          cfg.UseSymlink,
				StripProgramHeaders: cfg.StripProgramHeaders,
				EmitChecksum:        cfg.EmitChecksum,
			}
			commands := make([]string, 0, len(entries))
			for _, entry := range entries {
				c, err := pipeline.Synthesize(entry, m, synthOpts)
				if err != nil {
					return errors.Errorf("synthesizing command for %s: %w", entry.Source, err)
				}
				commands = append(commands, c)
				ui.LogFileOperation(ctx, log.FileOperation{
					Path:     entry.Source,
					Format:   string(entry.Format),
					Status:   "prepared",
					IsPassed: entry.Format == pipeline.FormatPassthrough || entry.Format == pipeline.FormatSequenceRead,
				})
			}

			if err := executor.WriteCommandFile(commandFile, commands); err != nil {
				return err
			}
			ui.Successf("wrote %d commands to %s", len(commands), commandFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source-dir", "", "path to the input directory")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "path to the output directory (existing files are overwritten)")
	cmd.Flags().StringVar(&replacementFile, "replacement-file", "", "two-column TSV of original and replacement strings")
	cmd.Flags().StringVar(&commandFile, "command-file", "command_list.sh", "output file for the synthesized commands")
	cmd.Flags().StringVar(&fileList, "file-list", "", "file listing source paths (relative to --source-dir) to restrict the batch to")
	cmd.Flags().StringSliceVar(&includeExt, "include-ext", nil, "only process files matching these extensions or globs")
	cmd.Flags().StringSliceVar(&ignoreExt, "ignore-ext", nil, "rename but never substitute the contents of matching files")
	cmd.Flags().BoolVar(&useSymlink, "use-symlink", false, "symlink instead of copying passthrough files")
	cmd.Flags().BoolVar(&stripPG, "strip-pg", false, "strip @PG provenance lines from alignment headers")
	cmd.Flags().BoolVar(&emitChecksum, "md5", false, "write an md5 sidecar for every substituted output")
	cmd.Flags().IntVar(&tokenLength, "token-length", 0, "length of generated anonymous tokens")
	return cmd
}

// readFileList reads one source path per line, skipping blanks.
func readFileList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file list: %w", err)
	}
	var list []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			list = append(list, line)
		}
	}
	return list, nil
}
