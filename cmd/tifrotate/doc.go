// Package main hosts the tifrotate CLI entrypoint and command graph.
//
// The root command rotates every eligible file named by a CSV manifest.
// Subcommands cover tool preflight, configuration scaffolding, and the
// optional run history. Batch behaviour lives in internal/batch; this
// package resolves configuration, applies flag overrides, and renders
// results for the terminal.
package main
