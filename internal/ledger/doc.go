// Package ledger records batch runs and per-file outcomes in SQLite.
//
// The ledger is optional. The batch runner writes a run row when a batch
// starts, an outcome row per completed job, and closes the run with its
// totals. The history command reads recent runs back. Write failures are
// the caller's to log; they never change a batch's outcome.
package ledger
