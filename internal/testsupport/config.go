package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tifrotate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "ledger.db")
	cfgVal.Rotation.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithWorkers sets the pool size on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rotation.Workers = n
	}
}

// WithLedger enables the run ledger under the test's temp directory.
func WithLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = true
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rotation.DryRun = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, a no-op mogrify is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"mogrify"}
		}
		for _, name := range names {
			writeBinary(b, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithRecordingTool stubs the configured rotation binary with a script that
// appends its arguments to a log under the base directory and writes to
// stderr whenever the target path contains "FAIL". Read the log with
// Invocations.
func WithRecordingTool() ConfigOption {
	return func(b *configBuilder) {
		logPath := filepath.Join(b.baseDir, "invocations.log")
		script := "#!/bin/sh\n" +
			"echo \"$@\" >> '" + logPath + "'\n" +
			"for last; do :; done\n" +
			"case \"$last\" in *FAIL*) echo \"mogrify: unable to open image '$last'\" >&2; exit 1;; esac\n" +
			"exit 0\n"
		writeBinary(b, b.cfg.Rotation.Binary, script)
	}
}

func writeBinary(b *configBuilder, name, script string) {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	if dirs := filepath.SplitList(os.Getenv("PATH")); len(dirs) == 0 || dirs[0] != binDir {
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
