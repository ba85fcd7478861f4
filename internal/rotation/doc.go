// Package rotation executes a single rotation job through an external image
// tool.
//
// A rotation instruction is a decimal magnitude followed by one direction
// character: "L" rotates counter-clockwise (negative angle), anything else
// clockwise. The Executor parses the instruction, asks its Invoker to run the
// tool in place on the target file, and reports an Outcome. Failures (bad
// instructions, tool errors) are reported in the Outcome, never returned, so
// one broken file cannot stop a batch.
//
// The Invoker port is the only place that touches os/exec; tests swap it for
// a stub.
package rotation
