// Package dispatch fans rotation jobs out across a fixed-size worker pool and
// streams their outcomes back in completion order.
//
// Every job runs to completion; the pool never cancels or skips work because
// a sibling failed. Completion order differs from submission order whenever
// jobs take different amounts of time.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"tifrotate/internal/jobs"
	"tifrotate/internal/logging"
	"tifrotate/internal/rotation"
)

// Rotator executes one job. *rotation.Executor satisfies it.
type Rotator interface {
	Rotate(ctx context.Context, job jobs.Job) rotation.Outcome
}

// RotatorFunc adapts a function to Rotator.
type RotatorFunc func(ctx context.Context, job jobs.Job) rotation.Outcome

func (f RotatorFunc) Rotate(ctx context.Context, job jobs.Job) rotation.Outcome {
	return f(ctx, job)
}

// Completion pairs an outcome with the job's position in the submitted list.
type Completion struct {
	Index   int
	Outcome rotation.Outcome
}

// Pool runs jobs on a bounded number of goroutines.
type Pool struct {
	workers int
	logger  *slog.Logger
}

// NewPool constructs a pool. workers <= 0 selects runtime.NumCPU().
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers, logger: logging.NewComponentLogger(logger, "dispatch")}
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

type task struct {
	index int
	job   jobs.Job
}

// Run submits every job and returns a channel yielding exactly len(list)
// completions as they finish. The channel closes after the last completion.
// ctx is handed to the rotator unchanged; Run itself never abandons work.
func (p *Pool) Run(ctx context.Context, list []jobs.Job, rotator Rotator) <-chan Completion {
	completions := make(chan Completion, len(list))
	if len(list) == 0 {
		close(completions)
		return completions
	}

	workers := p.workers
	if workers > len(list) {
		workers = len(list)
	}

	tasks := make(chan task, len(list))
	for i, job := range list {
		tasks <- task{index: i, job: job}
	}
	close(tasks)

	logging.WithContext(ctx, p.logger).Debug("dispatching",
		logging.Int("jobs", len(list)),
		logging.Int(logging.FieldWorkers, workers),
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				completions <- Completion{Index: t.index, Outcome: p.runOne(ctx, rotator, t.job)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(completions)
	}()
	return completions
}

// runOne isolates a single job so a panic in the rotator only fails that job.
func (p *Pool) runOne(ctx context.Context, rotator Rotator, job jobs.Job) (outcome rotation.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logging.WithContext(ctx, p.logger).Error("rotation panicked",
				logging.String(logging.FieldPath, job.TargetPath),
				logging.Any("panic", r),
			)
			outcome = rotation.Failed(job, fmt.Errorf("rotation panicked: %v", r))
		}
	}()
	return rotator.Rotate(ctx, job)
}
