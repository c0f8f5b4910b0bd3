package commands

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/primed-bio/genanon/pkg/executor"
	"github.com/primed-bio/genanon/pkg/log"
)

// NewRunCmd creates the run command: execute a previously synthesized
// command file under bounded concurrency.
func NewRunCmd(optsFn OptsFunc) *cobra.Command {
	var (
		commandFile  string
		maxProcs     int
		pollInterval int
		strategy     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a synthesized command file",
		Long: `Run reads the command file written by 'genanon prepare' and executes
every command under the configured concurrency bound. With more than one
worker a failing command is logged and the batch continues; with a single
worker the batch aborts on the first failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			ro, err := optsFn(ctx)
			if err != nil {
				return err
			}
			cfg := ro.Config
			if maxProcs > 0 {
				cfg.MaxProcs = maxProcs
			}
			if pollInterval > 0 {
				cfg.PollIntervalSeconds = pollInterval
			}
			if strategy != "" {
				cfg.Strategy = strategy
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			jobs, err := executor.ReadCommandFile(commandFile)
			if err != nil {
				return err
			}

			ui := log.New(os.Stdout, zerolog.Ctx(ctx).GetLevel())
			ui.Header("running batch")

			if cfg.MaxProcs <= 1 {
				// Sequential mode is fail-fast: the first non-zero exit
				// aborts the remaining batch.
				result, err := executor.RunSequential(ctx, jobs, nil)
				if err != nil {
					return errors.Errorf("sequential batch aborted: %w", err)
				}
				ui.Successf("ran %d jobs", len(result.ExitCodes))
				return nil
			}

			engineCfg := executor.Config{
				MaxProcs:     cfg.MaxProcs,
				PollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
			}

			var result *executor.BatchResult
			switch cfg.Strategy {
			case "pool":
				result, err = executor.NewWorkerPool(engineCfg, nil).Run(ctx, jobs)
			default:
				result, err = executor.NewPollingScheduler(engineCfg, nil).Run(ctx, jobs)
			}
			if err != nil {
				return errors.Errorf("running batch: %w", err)
			}

			if failures := result.Failures(); failures > 0 {
				// Job failures surface via logs only; the process still
				// exits zero in concurrent mode.
				ui.Warningf("%d of %d jobs exited non-zero", failures, len(result.ExitCodes))
			} else {
				ui.Successf("ran %d jobs", len(result.ExitCodes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commandFile, "command-file", "command_list.sh", "file of commands to run, one per line")
	cmd.Flags().IntVarP(&maxProcs, "max-procs", "j", 0, "number of simultaneous jobs (<=1 runs sequentially and fail-fast)")
	cmd.Flags().IntVar(&pollInterval, "poll-interval", 0, "polling period in seconds for the poll strategy")
	cmd.Flags().StringVar(&strategy, "strategy", "", "execution strategy: poll or pool")
	return cmd
}
