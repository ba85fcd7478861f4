package rotation

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"tifrotate/internal/jobs"
	"tifrotate/internal/logging"
)

// DefaultBinary is the ImageMagick tool that edits files in place.
const DefaultBinary = "mogrify"

// RotationFailure reports an error raised by the external tool.
type RotationFailure struct {
	Path    string
	Message string
}

func (e *RotationFailure) Error() string {
	return e.Message
}

// Outcome is the result of one job. Err is nil on success and otherwise a
// *ParseError or *RotationFailure.
type Outcome struct {
	Job      jobs.Job
	Angle    int
	Err      error
	Duration time.Duration
}

// OK reports whether the job succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Message returns the failure text, or "" on success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Failed builds a failure outcome for job; used when a job never reaches the
// tool.
func Failed(job jobs.Job, err error) Outcome {
	return Outcome{Job: job, Err: err}
}

// Option configures the Executor.
type Option func(*Executor)

// WithBinary overrides the default tool name.
func WithBinary(binary string) Option {
	return func(e *Executor) {
		if binary = strings.TrimSpace(binary); binary != "" {
			e.binary = binary
		}
	}
}

// WithArgs sets arguments placed before "-rotate", e.g. "mogrify" when the
// binary is ImageMagick 7's "magick".
func WithArgs(args ...string) Option {
	return func(e *Executor) {
		e.leadArgs = append([]string(nil), args...)
	}
}

// WithInvoker replaces process execution, primarily for tests.
func WithInvoker(inv Invoker) Option {
	return func(e *Executor) {
		if inv != nil {
			e.invoker = inv
		}
	}
}

// WithDryRun logs commands instead of running them.
func WithDryRun(enabled bool) Option {
	return func(e *Executor) {
		e.dryRun = enabled
	}
}

// WithLogger sets the logger used for per-job diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Executor rotates files in place by invoking an external tool.
type Executor struct {
	binary   string
	leadArgs []string
	invoker  Invoker
	dryRun   bool
	logger   *slog.Logger
}

// NewExecutor constructs an Executor using defaults.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{binary: DefaultBinary, invoker: ExecInvoker{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "rotation")
	return e
}

// Binary returns the tool the executor invokes.
func (e *Executor) Binary() string { return e.binary }

// Request returns the invocation that rotates path by angle degrees.
func (e *Executor) Request(path string, angle int) Request {
	args := make([]string, 0, len(e.leadArgs)+3)
	args = append(args, e.leadArgs...)
	args = append(args, "-rotate", strconv.Itoa(angle), path)
	return Request{Binary: e.binary, Args: args}
}

// Rotate runs job to completion and reports its outcome. It blocks until the
// tool exits. The file may be left partially written when the tool fails.
func (e *Executor) Rotate(ctx context.Context, job jobs.Job) Outcome {
	start := time.Now()
	logger := logging.WithContext(ctx, e.logger).With(
		logging.String(logging.FieldPath, job.TargetPath),
		logging.String(logging.FieldRotation, job.RotationSpec),
	)

	angle, err := ParseSpec(job.RotationSpec)
	if err != nil {
		return Outcome{Job: job, Err: err, Duration: time.Since(start)}
	}
	outcome := Outcome{Job: job, Angle: angle}

	req := e.Request(job.TargetPath, angle)
	if e.dryRun {
		logger.Info("dry run", logging.String("command", e.binary+" "+strings.Join(req.Args, " ")))
		outcome.Duration = time.Since(start)
		return outcome
	}

	resp := e.invoker.Invoke(ctx, req)
	outcome.Duration = time.Since(start)
	switch {
	case resp.Err != nil:
		outcome.Err = &RotationFailure{Path: job.TargetPath, Message: resp.Err.Error()}
	case resp.Stderr != "":
		outcome.Err = &RotationFailure{Path: job.TargetPath, Message: resp.Stderr}
	case resp.ExitCode != 0:
		logger.Warn("rotation tool exited non-zero without error output",
			logging.Int("exit_code", resp.ExitCode),
		)
	default:
		logger.Debug("rotated",
			logging.Int(logging.FieldAngle, angle),
			logging.Duration("elapsed", outcome.Duration),
		)
	}
	return outcome
}
