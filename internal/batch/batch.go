package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"tifrotate/internal/config"
	"tifrotate/internal/deps"
	"tifrotate/internal/dispatch"
	"tifrotate/internal/jobs"
	"tifrotate/internal/ledger"
	"tifrotate/internal/logging"
	"tifrotate/internal/manifest"
	"tifrotate/internal/preflight"
	"tifrotate/internal/progress"
	"tifrotate/internal/rotation"
)

// Recorder persists run history. *ledger.Store satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, id, manifest string, total int, startedAt time.Time) error
	RecordOutcome(ctx context.Context, runID string, o ledger.Outcome) error
	FinishRun(ctx context.Context, runID string, failed int, finishedAt time.Time) error
}

// Runner executes manifests with a fixed configuration.
type Runner struct {
	cfg      *config.Config
	base     *slog.Logger
	logger   *slog.Logger
	reporter progress.Reporter
	invoker  rotation.Invoker
	recorder Recorder
	newID    func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.base = logger
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(rep progress.Reporter) Option {
	return func(r *Runner) {
		if rep != nil {
			r.reporter = rep
		}
	}
}

// WithInvoker replaces process execution for the rotation tool.
func WithInvoker(inv rotation.Invoker) Option {
	return func(r *Runner) { r.invoker = inv }
}

// WithRecorder supplies a ledger instead of opening the configured one.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// New constructs a Runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:   cfg,
		base:  logging.NewNop(),
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.reporter == nil {
		r.reporter = progress.NewLines(io.Discard, r.base)
	}
	r.logger = logging.NewComponentLogger(r.base, "batch")
	return r
}

// Run processes the manifest at manifestPath. The returned error is non-nil
// only when the batch could not start.
func (r *Runner) Run(ctx context.Context, manifestPath string) (Summary, error) {
	rows, err := manifest.Load(manifestPath)
	if err != nil {
		return Summary{}, err
	}
	list, err := jobs.Build(rows)
	if err != nil {
		return Summary{}, fmt.Errorf("map manifest %s: %w", manifestPath, err)
	}

	lock, err := AcquireLock(manifestPath)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("lock release failed", logging.Error(err))
		}
	}()

	summary := Summary{
		RunID:    r.newID(),
		Manifest: manifestPath,
		Rows:     len(rows),
		Skipped:  len(rows) - len(list),
		Total:    len(list),
		DryRun:   r.cfg.Rotation.DryRun,
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	pool := dispatch.NewPool(r.cfg.WorkerCount(), r.base)
	logger.Info("batch starting",
		logging.String("manifest", manifestPath),
		logging.Int("rows", summary.Rows),
		logging.Int("jobs", summary.Total),
		logging.Int("skipped", summary.Skipped),
		logging.Int(logging.FieldWorkers, pool.Workers()),
		logging.Bool("dry_run", summary.DryRun),
	)
	r.warnMissingTool(logger)

	rec, closeLedger := r.openLedger(logger)
	defer closeLedger()

	started := time.Now()
	r.ledgerWrite(logger, "begin run", func() error {
		return rec.BeginRun(ctx, summary.RunID, manifestPath, summary.Total, started)
	})

	executor := rotation.NewExecutor(
		rotation.WithBinary(r.cfg.RotationBinary()),
		rotation.WithArgs(r.cfg.Rotation.Args...),
		rotation.WithDryRun(r.cfg.Rotation.DryRun),
		rotation.WithInvoker(r.invoker),
		rotation.WithLogger(r.base),
	)

	r.reporter.Start(summary.Total)
	defer r.reporter.Finish()

	type indexed struct {
		index   int
		outcome rotation.Outcome
	}
	var failures []indexed
	// A live bar already shows each failure; the log line would tear it.
	failureLevel := slog.LevelError
	if progress.IsLive(r.reporter) {
		failureLevel = slog.LevelDebug
	}
	for c := range pool.Run(ctx, list, executor) {
		o := c.Outcome
		if o.OK() {
			summary.Succeeded++
		} else {
			failures = append(failures, indexed{c.Index, o})
			r.reporter.PrintFailure(o.Job.TargetPath, o.Message())
			logger.Log(ctx, failureLevel, "rotation failed",
				logging.String(logging.FieldPath, o.Job.TargetPath),
				logging.String(logging.FieldRotation, o.Job.RotationSpec),
				logging.Error(o.Err),
			)
		}
		r.reporter.Advance()
		r.ledgerWrite(logger, "record outcome", func() error {
			return rec.RecordOutcome(ctx, summary.RunID, ledger.Outcome{
				Path:     o.Job.TargetPath,
				Rotation: o.Job.RotationSpec,
				OK:       o.OK(),
				Message:  o.Message(),
				Duration: o.Duration,
			})
		})
	}

	slices.SortFunc(failures, func(a, b indexed) int { return a.index - b.index })
	for _, f := range failures {
		summary.Failures = append(summary.Failures, f.outcome)
	}
	summary.Elapsed = time.Since(started)

	r.ledgerWrite(logger, "finish run", func() error {
		return rec.FinishRun(ctx, summary.RunID, summary.Failed(), time.Now())
	})
	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) warnMissingTool(logger *slog.Logger) {
	if r.invoker != nil {
		return
	}
	for _, status := range deps.Missing(preflight.CheckSystemDeps(r.cfg)) {
		logger.Warn("rotation tool unavailable; jobs will fail",
			logging.String("binary", status.Command),
			logging.String("detail", status.Detail),
		)
	}
}

type nopRecorder struct{}

func (nopRecorder) BeginRun(context.Context, string, string, int, time.Time) error { return nil }
func (nopRecorder) RecordOutcome(context.Context, string, ledger.Outcome) error   { return nil }
func (nopRecorder) FinishRun(context.Context, string, int, time.Time) error       { return nil }

func (r *Runner) openLedger(logger *slog.Logger) (Recorder, func()) {
	if r.recorder != nil {
		return r.recorder, func() {}
	}
	if !r.cfg.Ledger.Enabled {
		return nopRecorder{}, func() {}
	}
	store, err := ledger.Open(r.cfg.Paths.LedgerPath)
	if err != nil {
		logger.Warn("ledger unavailable; run history disabled", logging.Error(err))
		return nopRecorder{}, func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("ledger close failed", logging.Error(err))
		}
	}
}

func (r *Runner) ledgerWrite(logger *slog.Logger, op string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("ledger write failed", logging.String("op", op), logging.Error(err))
	}
}
