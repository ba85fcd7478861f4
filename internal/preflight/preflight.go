package preflight

import (
	"path/filepath"

	"tifrotate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable filesystem checks for the given config.
// When manifestPath is set, its directory must be writable for the batch
// lock file.
func RunAll(cfg *config.Config, manifestPath string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Log directory", cfg.Paths.LogDir)}
	if cfg.Ledger.Enabled {
		results = append(results, CheckDirectoryAccess("Ledger directory", filepath.Dir(cfg.Paths.LedgerPath)))
	}
	if manifestPath != "" {
		results = append(results, CheckDirectoryAccess("Manifest directory", filepath.Dir(manifestPath)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
