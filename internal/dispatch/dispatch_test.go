package dispatch_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tifrotate/internal/dispatch"
	"tifrotate/internal/jobs"
	"tifrotate/internal/logging"
	"tifrotate/internal/rotation"
)

func makeJobs(n int) []jobs.Job {
	list := make([]jobs.Job, n)
	for i := range list {
		list[i] = jobs.Job{TargetPath: fmt.Sprintf("/scans/%04d.TIF", i), RotationSpec: "90R", Line: i + 2}
	}
	return list
}

func drain(ch <-chan dispatch.Completion) []dispatch.Completion {
	var out []dispatch.Completion
	for c := range ch {
		out = append(out, c)
	}
	return out
}

func TestRunProducesOneCompletionPerJob(t *testing.T) {
	list := makeJobs(50)
	pool := dispatch.NewPool(4, logging.NewNop())

	var calls atomic.Int64
	rotator := dispatch.RotatorFunc(func(ctx context.Context, job jobs.Job) rotation.Outcome {
		calls.Add(1)
		return rotation.Outcome{Job: job}
	})

	completions := drain(pool.Run(context.Background(), list, rotator))
	if len(completions) != len(list) {
		t.Fatalf("expected %d completions, got %d", len(list), len(completions))
	}
	if calls.Load() != int64(len(list)) {
		t.Fatalf("expected %d rotations, got %d", len(list), calls.Load())
	}
	seen := make(map[int]bool, len(list))
	for _, c := range completions {
		if seen[c.Index] {
			t.Fatalf("index %d completed twice", c.Index)
		}
		seen[c.Index] = true
		if c.Outcome.Job.TargetPath != list[c.Index].TargetPath {
			t.Fatalf("completion %d carries wrong job %q", c.Index, c.Outcome.Job.TargetPath)
		}
	}
}

func TestRunEmptyListClosesImmediately(t *testing.T) {
	pool := dispatch.NewPool(2, nil)
	completions := drain(pool.Run(context.Background(), nil, dispatch.RotatorFunc(func(ctx context.Context, job jobs.Job) rotation.Outcome {
		t.Fatal("rotator should not run")
		return rotation.Outcome{}
	})))
	if len(completions) != 0 {
		t.Fatalf("expected no completions, got %d", len(completions))
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := dispatch.NewPool(workers, nil)

	var active, peak atomic.Int64
	rotator := dispatch.RotatorFunc(func(ctx context.Context, job jobs.Job) rotation.Outcome {
		now := active.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return rotation.Outcome{Job: job}
	})

	drain(pool.Run(context.Background(), makeJobs(30), rotator))
	if peak.Load() > workers {
		t.Fatalf("expected at most %d concurrent rotations, saw %d", workers, peak.Load())
	}
}

func TestRunYieldsCompletionOrder(t *testing.T) {
	pool := dispatch.NewPool(2, nil)
	list := makeJobs(2)

	release := make(chan struct{})
	rotator := dispatch.RotatorFunc(func(ctx context.Context, job jobs.Job) rotation.Outcome {
		if job.TargetPath == list[0].TargetPath {
			<-release
		}
		return rotation.Outcome{Job: job}
	})

	ch := pool.Run(context.Background(), list, rotator)
	first := <-ch
	if first.Index != 1 {
		t.Fatalf("expected the unblocked second job to complete first, got index %d", first.Index)
	}
	close(release)
	second := <-ch
	if second.Index != 0 {
		t.Fatalf("expected first job to complete second, got index %d", second.Index)
	}
	if _, ok := <-ch; ok {
		t.Fatal("expected channel to close after all completions")
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	list := makeJobs(20)
	failing := list[7].TargetPath
	pool := dispatch.NewPool(4, nil)

	var mu sync.Mutex
	executed := map[string]int{}
	rotator := dispatch.RotatorFunc(func(ctx context.Context, job jobs.Job) rotation.Outcome {
		mu.Lock()
		executed[job.TargetPath]++
		mu.Unlock()
		if job.TargetPath == failing {
			return rotation.Outcome{Job: job, Err: &rotation.RotationFailure{Path: job.TargetPath, Message: "boom"}}
		}
		return rotation.Outcome{Job: job}
	})

	failures := 0
	for c := range pool.Run(context.Background(), list, rotator) {
		if !c.Outcome.OK() {
			failures++
			if c.Outcome.Job.TargetPath != failing {
				t.Fatalf("unexpected failure for %s", c.Outcome.Job.TargetPath)
			}
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one failure, got %d", failures)
	}
	for _, job := range list {
		if executed[job.TargetPath] != 1 {
			t.Fatalf("expected %s to execute once, got %d", job.TargetPath, executed[job.TargetPath])
		}
	}
}

func TestRunRecoversPanics(t *testing.T) {
	list := makeJobs(5)
	pool := dispatch.NewPool(2, nil)
	rotator := dispatch.RotatorFunc(func(ctx context.Context, job jobs.Job) rotation.Outcome {
		if job.TargetPath == list[2].TargetPath {
			panic("tool wrapper exploded")
		}
		return rotation.Outcome{Job: job}
	})

	completions := drain(pool.Run(context.Background(), list, rotator))
	if len(completions) != len(list) {
		t.Fatalf("expected %d completions, got %d", len(list), len(completions))
	}
	for _, c := range completions {
		if c.Index == 2 {
			if c.Outcome.OK() {
				t.Fatal("expected panicking job to fail")
			}
			continue
		}
		if !c.Outcome.OK() {
			t.Fatalf("unexpected failure at index %d: %v", c.Index, c.Outcome.Err)
		}
	}
}

func TestNewPoolDefaultsToCPUCount(t *testing.T) {
	if dispatch.NewPool(0, nil).Workers() < 1 {
		t.Fatal("expected at least one worker")
	}
	if got := dispatch.NewPool(5, nil).Workers(); got != 5 {
		t.Fatalf("expected 5 workers, got %d", got)
	}
}
