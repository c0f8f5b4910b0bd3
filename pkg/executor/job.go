package executor

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// State is the lifecycle state of one Job. Transitions are monotonic:
// WAITING -> RUNNING -> COMPLETE, never retried, never reverted.
type State int

const (
	StateWaiting State = iota
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateRunning:
		return "RUNNING"
	case StateComplete:
		return "COMPLETE"
	}
	return "UNKNOWN"
}

// Job is one independent external command. Its identity is its index in the
// originating batch. Stdin and Stdout, when set, are bound to the launched
// process and closed exactly once by the engine when the batch finishes.
type Job struct {
	Command string
	Stdin   *os.File
	Stdout  *os.File
}

// BatchResult aggregates the final exit code of every Job in a batch. It is
// produced only once every Job has reached COMPLETE.
type BatchResult struct {
	ExitCodes []int
}

// Failures counts jobs that exited non-zero.
func (r *BatchResult) Failures() int {
	n := 0
	for _, code := range r.ExitCodes {
		if code != 0 {
			n++
		}
	}
	return n
}

// Failed reports whether job i exited non-zero.
func (r *BatchResult) Failed(i int) bool {
	return r.ExitCodes[i] != 0
}

// closeJobHandles closes every bound stdin/stdout handle exactly once,
// deduplicating shared pointers.
func closeJobHandles(ctx context.Context, jobs []Job) {
	log := zerolog.Ctx(ctx)
	seen := map[io.Closer]bool{}
	for _, job := range jobs {
		for _, h := range []*os.File{job.Stdin, job.Stdout} {
			if h == nil || seen[h] {
				continue
			}
			seen[h] = true
			if err := h.Close(); err != nil {
				log.Warn().Err(err).Msg("closing job handle")
			}
		}
	}
}

// WriteCommandFile serializes synthesized commands, one per line, so
// synthesis and execution can run as separate invocations.
func WriteCommandFile(path string, commands []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating command file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, cmd := range commands {
		if _, err := w.WriteString(cmd + "\n"); err != nil {
			return errors.Errorf("writing command file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Errorf("flushing command file: %w", err)
	}
	return nil
}

// ReadCommandFile reads a newline-delimited command file back into jobs,
// skipping blank lines.
func ReadCommandFile(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening command file: %w", err)
	}
	defer f.Close()

	var jobs []Job
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		jobs = append(jobs, Job{Command: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading command file: %w", err)
	}
	return jobs, nil
}
