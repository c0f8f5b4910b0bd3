package executor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Config carries the engine's scheduling knobs. Zero values fall back to
// defaults; the zero Clock is the wall clock.
type Config struct {
	// MaxProcs bounds the number of simultaneously running jobs.
	MaxProcs int
	// PollInterval is how long strategy A sleeps between poll cycles.
	PollInterval time.Duration
	// Clock is the sleep source, injectable for deterministic tests.
	Clock Clock
}

const (
	defaultMaxProcs     = 4
	defaultPollInterval = 15 * time.Second
)

func (c Config) maxProcs() int {
	if c.MaxProcs <= 0 {
		return defaultMaxProcs
	}
	return c.MaxProcs
}

func (c Config) pollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return defaultPollInterval
	}
	return c.PollInterval
}

func (c Config) clock() Clock {
	if c.Clock == nil {
		return realClock{}
	}
	return c.Clock
}

// PollingScheduler runs a batch by admitting jobs FIFO up to the concurrency
// bound and polling running processes each cycle. The control loop itself is
// single-threaded: it alone owns the state table and the waiting queue.
//
// A job that never terminates stalls the loop forever; there is no timeout
// or forced cancellation.
type PollingScheduler struct {
	cfg      Config
	launcher Launcher
}

// NewPollingScheduler creates a scheduler. A nil launcher means the default
// shell launcher.
func NewPollingScheduler(cfg Config, launcher Launcher) *PollingScheduler {
	if launcher == nil {
		launcher = NewShellLauncher()
	}
	return &PollingScheduler{cfg: cfg, launcher: launcher}
}

// Run executes every job to COMPLETE and returns the batch result. A job's
// non-zero exit is logged and recorded but never aborts the batch. All bound
// stdin/stdout handles are closed exactly once before Run returns.
func (s *PollingScheduler) Run(ctx context.Context, jobs []Job) (*BatchResult, error) {
	defer closeJobHandles(ctx, jobs)

	log := zerolog.Ctx(ctx)
	total := len(jobs)
	log.Info().Int("jobs", total).Int("max_procs", s.cfg.maxProcs()).Msg("scheduler starting")

	states := make([]State, total)
	codes := make([]int, total)
	waiting := make([]int, total)
	for i := range jobs {
		waiting[i] = i
	}
	running := map[int]Handle{}
	remaining := total

	for remaining > 0 {
		// Admission: fill free slots in batch order.
		for len(running) < s.cfg.maxProcs() && len(waiting) > 0 {
			idx := waiting[0]
			waiting = waiting[1:]
			log.Info().Int("job", idx).Str("command", jobs[idx].Command).Msg("launching job")
			h, err := s.launcher.Launch(ctx, jobs[idx])
			if err != nil {
				log.Warn().Err(err).Int("job", idx).Msg("launch failed")
				states[idx] = StateComplete
				codes[idx] = -1
				remaining--
				continue
			}
			states[idx] = StateRunning
			running[idx] = h
		}

		// Polling: non-blocking exit check of every running job.
		for idx, h := range running {
			if states[idx] != StateRunning {
				continue
			}
			done, code := h.Poll()
			if !done {
				continue
			}
			delete(running, idx)
			states[idx] = StateComplete
			codes[idx] = code
			remaining--
			if code != 0 {
				log.Warn().Int("job", idx).Int("exit_code", code).Str("command", jobs[idx].Command).
					Msg("job exited non-zero")
			} else {
				log.Debug().Int("job", idx).Msg("job complete")
			}
			log.Debug().
				Int("waiting", len(waiting)).
				Int("running", len(running)).
				Int("complete", total-remaining).
				Msg("scheduler state")
		}

		if remaining > 0 {
			s.cfg.clock().Sleep(s.cfg.pollInterval())
		}
	}

	log.Info().Int("jobs", total).Msg("scheduler done")
	return &BatchResult{ExitCodes: codes}, nil
}
