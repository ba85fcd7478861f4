package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"tifrotate/internal/logging"
)

// Reporter observes batch completions.
type Reporter interface {
	// Start fixes the total and begins timing. Call once.
	Start(total int)
	// Advance records one completed job.
	Advance()
	// PrintFailure prints a failure line for path immediately.
	PrintFailure(path, message string)
	// Finish stops rendering. Safe to call more than once.
	Finish()
	// Count returns the number of completed jobs.
	Count() int
}

// IsLive reports whether r redraws a terminal line that other writes to the
// same terminal would break.
func IsLive(r Reporter) bool {
	live, ok := r.(interface{ Live() bool })
	return ok && live.Live()
}

// Interactive reports whether w is a terminal that can host a live bar.
func Interactive(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New picks a bar for terminals and a line reporter otherwise.
func New(w io.Writer, logger *slog.Logger) Reporter {
	if Interactive(w) {
		return NewBar(w)
	}
	return NewLines(w, logger)
}

type counter struct {
	total     int
	completed atomic.Int64
	started   time.Time
}

func (c *counter) start(total int) {
	c.total = total
	c.started = time.Now()
}

// advance increments the count, never past total.
func (c *counter) advance() int {
	for {
		cur := c.completed.Load()
		if c.total > 0 && cur >= int64(c.total) {
			return int(cur)
		}
		if c.completed.CompareAndSwap(cur, cur+1) {
			return int(cur + 1)
		}
	}
}

func (c *counter) Count() int { return int(c.completed.Load()) }

func failurePrinter(colorize bool) *color.Color {
	c := color.New(color.FgRed, color.Bold)
	if colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func failureLine(path, message string) string {
	message = strings.TrimRight(message, "\r\n")
	return fmt.Sprintf("✗ %s: %s", path, message)
}

// spinnerFrames cycle in front of the bar description. progressbar only
// draws its own spinner for bars of unknown length.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	barDescription = "Rotating"
	spinInterval   = 120 * time.Millisecond
)

// Bar renders a live progress bar.
type Bar struct {
	counter
	w       io.Writer
	bar     *progressbar.ProgressBar
	red     *color.Color
	mu      sync.Mutex // serializes bar writes between Advance and the spinner
	frame   atomic.Int64
	stopped atomic.Bool
	done    chan struct{}
	spinner sync.WaitGroup
}

// NewBar constructs a bar that writes to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w, red: failurePrinter(true)}
}

// Live reports that failures already reach the terminal through the bar.
func (b *Bar) Live() bool { return true }

func (b *Bar) Start(total int) {
	b.start(total)
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(b.description()),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionFullWidth(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(b.w)
		}),
	)
	b.done = make(chan struct{})
	b.spinner.Add(1)
	go b.spin()
}

func (b *Bar) description() string {
	frame := spinnerFrames[int(b.frame.Load())%len(spinnerFrames)]
	return frame + " " + barDescription
}

// spin advances the spinner while jobs are running so a slow file still
// shows activity.
func (b *Bar) spin() {
	defer b.spinner.Done()
	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.step()
		}
	}
}

func (b *Bar) step() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Add(1)
	if b.active() {
		b.bar.Describe(b.description())
	}
}

// active reports whether the bar is still being drawn.
func (b *Bar) active() bool {
	return b.bar != nil && !b.stopped.Load() && !b.bar.IsFinished()
}

func (b *Bar) Advance() {
	b.advance()
	if b.bar == nil {
		return
	}
	b.step()
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.bar.Add(1)
}

func (b *Bar) PrintFailure(path, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.active()
	if live {
		_ = b.bar.Clear()
	}
	b.red.Fprintln(b.w, failureLine(path, message))
	if live {
		_ = b.bar.RenderBlank()
	}
}

func (b *Bar) Finish() {
	if b.stopped.Swap(true) || b.bar == nil {
		return
	}
	close(b.done)
	b.spinner.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar.IsFinished() {
		return
	}
	_ = b.bar.Finish()
}

// Lines reports progress as sampled log lines for non-interactive output.
type Lines struct {
	counter
	w       io.Writer
	logger  *slog.Logger
	sampler *Sampler
	red     *color.Color
	stopped atomic.Bool
}

// NewLines constructs a line reporter. Progress goes to logger; failures
// are written to w.
func NewLines(w io.Writer, logger *slog.Logger) *Lines {
	return &Lines{
		w:       w,
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: NewSampler(10),
		red:     failurePrinter(false),
	}
}

func (l *Lines) Start(total int) {
	l.start(total)
	l.sampler.Reset()
	l.emit(0)
}

func (l *Lines) Advance() {
	l.emit(l.advance())
}

func (l *Lines) emit(done int) {
	percent := 100.0
	if l.total > 0 {
		percent = float64(done) * 100 / float64(l.total)
	}
	if !l.sampler.ShouldLog(percent) {
		return
	}
	l.logger.Info("progress",
		logging.Int("completed", done),
		logging.Int("total", l.total),
		logging.String("percent", fmt.Sprintf("%.0f%%", percent)),
		logging.Duration("elapsed", time.Since(l.started)),
	)
}

func (l *Lines) PrintFailure(path, message string) {
	l.red.Fprintln(l.w, failureLine(path, message))
}

func (l *Lines) Finish() {
	l.stopped.Store(true)
}
