package executor

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// WorkerPool runs a batch on a fixed pool of workers, each pulling a job
// from a shared queue and executing it synchronously. The caller blocks
// until the whole batch drains; there is no incremental progress view.
type WorkerPool struct {
	cfg    Config
	runner Runner
}

// NewWorkerPool creates a pool. A nil runner means the default shell runner.
func NewWorkerPool(cfg Config, runner Runner) *WorkerPool {
	if runner == nil {
		runner = NewShellRunner()
	}
	return &WorkerPool{cfg: cfg, runner: runner}
}

type poolResult struct {
	index int
	code  int
}

// Run executes every job to completion and returns the batch result.
// Non-zero exits are logged at error severity after the batch drains;
// failures never halt sibling jobs.
func (p *WorkerPool) Run(ctx context.Context, jobs []Job) (*BatchResult, error) {
	defer closeJobHandles(ctx, jobs)

	log := zerolog.Ctx(ctx)
	workers := p.cfg.maxProcs()
	log.Info().Int("jobs", len(jobs)).Int("workers", workers).Msg("worker pool starting")

	queue := make(chan int)
	results := make(chan poolResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for idx := range queue {
				job := jobs[idx]
				code, err := p.runner.Run(gctx, job)
				if err != nil {
					log.Warn().Err(err).Int("job", idx).Msg("command could not be run")
				}
				results <- poolResult{index: idx, code: code}
			}
			return nil
		})
	}

	for idx := range jobs {
		queue <- idx
	}
	close(queue)

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("draining worker pool: %w", err)
	}
	close(results)

	codes := make([]int, len(jobs))
	for r := range results {
		codes[r.index] = r.code
	}
	result := &BatchResult{ExitCodes: codes}

	for idx, code := range codes {
		if code != 0 {
			log.Error().Int("job", idx).Int("exit_code", code).Str("command", jobs[idx].Command).
				Msg("job exited non-zero")
		}
	}
	log.Info().Int("jobs", len(jobs)).Int("failures", result.Failures()).Msg("worker pool done")
	return result, nil
}

// RunSequential runs jobs one at a time on the calling goroutine. Unlike the
// concurrent strategies it is deliberately fail-fast: the first non-zero
// exit aborts the batch and the remaining jobs are never launched. This is
// the debugging mode for a misbehaving batch.
func RunSequential(ctx context.Context, jobs []Job, runner Runner) (*BatchResult, error) {
	if runner == nil {
		runner = NewShellRunner()
	}
	defer closeJobHandles(ctx, jobs)

	log := zerolog.Ctx(ctx)
	codes := make([]int, 0, len(jobs))
	for idx, job := range jobs {
		log.Info().Int("job", idx).Str("command", job.Command).Msg("running job")
		code, err := runner.Run(ctx, job)
		if err != nil {
			return nil, errors.Errorf("running job %d: %w", idx, err)
		}
		codes = append(codes, code)
		if code != 0 {
			return nil, errors.Errorf("job %d exited with code %d: %s", idx, code, job.Command)
		}
	}
	return &BatchResult{ExitCodes: codes}, nil
}
