package executor

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"gitlab.com/tozd/go/errors"
)

// Clock abstracts the scheduler's sleep so tests run without wall-clock
// waits.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Handle tracks a launched process. Poll is non-blocking: it reports whether
// the process has exited and, once it has, the exit code.
type Handle interface {
	Poll() (done bool, exitCode int)
}

// Launcher starts a Job's command as a new process. The default launcher
// hands the command to the shell; tests substitute fakes.
type Launcher interface {
	Launch(ctx context.Context, job Job) (Handle, error)
}

// Runner executes a Job synchronously to completion and returns its exit
// code. Used by the worker pool and the sequential fallback.
type Runner interface {
	Run(ctx context.Context, job Job) (int, error)
}

// shellLauncher runs commands through the shell. Synthesized pipelines use
// pipes and process substitution, so they need bash rather than argv
// splitting.
type shellLauncher struct{}

// NewShellLauncher returns the default process launcher.
func NewShellLauncher() Launcher {
	return shellLauncher{}
}

func (shellLauncher) Launch(ctx context.Context, job Job) (Handle, error) {
	cmd := exec.Command("bash", "-c", job.Command)
	if job.Stdin != nil {
		cmd.Stdin = job.Stdin
	}
	if job.Stdout != nil {
		cmd.Stdout = job.Stdout
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Errorf("starting command: %w", err)
	}

	h := &shellHandle{}
	go func() {
		err := cmd.Wait()
		h.mu.Lock()
		defer h.mu.Unlock()
		h.done = true
		h.code = exitCode(err)
	}()
	return h, nil
}

type shellHandle struct {
	mu   sync.Mutex
	done bool
	code int
}

func (h *shellHandle) Poll() (bool, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done, h.code
}

// shellRunner is the synchronous counterpart of shellLauncher.
type shellRunner struct{}

// NewShellRunner returns the default synchronous command runner.
func NewShellRunner() Runner {
	return shellRunner{}
}

func (shellRunner) Run(ctx context.Context, job Job) (int, error) {
	cmd := exec.Command("bash", "-c", job.Command)
	if job.Stdin != nil {
		cmd.Stdin = job.Stdin
	}
	if job.Stdout != nil {
		cmd.Stdout = job.Stdout
	}
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.Errorf("running command: %w", err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
