// Package batch runs one manifest end to end.
//
// A run loads the manifest, maps eligible rows to jobs, takes an exclusive
// lock beside the manifest, and fans the jobs out over the dispatch pool.
// The single consumer loop in Run is the only place that advances progress,
// prints failure lines, and writes ledger rows. Manifest, mapping, and lock
// errors are returned before any job runs; per-file failures never are.
package batch
