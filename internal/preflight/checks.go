package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"tifrotate/internal/config"
	"tifrotate/internal/deps"
)

// CheckDirectoryAccess verifies path is an existing directory the process
// can read, write, and traverse.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries a batch needs. Dry runs
// need none.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil || cfg.Rotation.DryRun {
		return nil
	}
	return []deps.Status{deps.CheckRotationTool(cfg.RotationBinary())}
}
