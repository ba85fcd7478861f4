// Package manifest reads the CSV manifest that drives a rotation batch.
//
// The first record is the header; every following record becomes a Row keyed
// by header name with file order preserved. Column semantics live in the jobs
// package; this package only guarantees an ordered, read-only view of the
// file and reports unreadable or headerless input as an InputError.
package manifest
