// Package config loads, normalizes, and validates tifrotate configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TIFROTATE_WORKERS. The Config type centralizes the rotation tool, worker
// pool sizing, logging, and run ledger settings so the CLI resolves them in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
