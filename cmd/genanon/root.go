package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/cmd/genanon/commands"
	"github.com/primed-bio/genanon/cmd/genanon/opts"
	"github.com/primed-bio/genanon/pkg/config"
)

const defaultConfigFile = ".genanon.hcl"

var (
	// Flags
	configFile string
	debug      bool
)

// newRootOpts resolves the shared dependencies of all subcommands. A missing
// config file is only an error when the user named one explicitly.
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	ro := &opts.RootOpts{Config: &config.Config{}}

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && configFile == defaultConfigFile {
			return ro, nil
		}
		return nil, errors.Errorf("loading config: %w", err)
	}
	ro.Config = cfg
	return ro, nil
}

// setupLogging configures zerolog based on flags.
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

// NewRootCmd builds the CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "genanon",
		Short: "Batch string replacement across genomics datasets",
		Long: `genanon relabels genomics datasets by replacing literal strings
(sample identifiers) in file contents and in file and directory names.
Binary alignment containers are decoded and re-encoded; compressed text is
expanded and recompressed; configured extensions are copied or linked
untouched.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigFile, "config file path")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	root.AddCommand(
		commands.NewPrepareCmd(newRootOpts),
		commands.NewRunCmd(newRootOpts),
		commands.NewReplaceCmd(),
		commands.NewVersionCmd(),
	)
	return root
}
