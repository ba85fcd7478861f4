// Package progress renders batch progress as jobs complete.
//
// A Reporter is told the job total once, then advanced once per completion
// whatever the job's outcome. Interactive terminals get a live progress bar
// (spinner, elapsed time, percentage, bar, completed/total); redirected
// output gets sampled log lines instead. Failures are printed as they
// arrive, one colored line per file.
//
// Reporters are driven from a single consumer goroutine. The completed
// count is still kept atomically so observers on other goroutines read a
// consistent, monotonic value.
package progress
