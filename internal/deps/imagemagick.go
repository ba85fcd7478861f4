package deps

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	mogrifyName = "mogrify"
	magickName  = "magick"
)

// CheckRotationTool reports whether the configured rotation binary resolves.
//
// ImageMagick 7 installs often ship only the "magick" front end. When the
// legacy "mogrify" binary is configured but missing and "magick" is present,
// the status detail names the config change that selects it.
func CheckRotationTool(binary string) Status {
	status := CheckBinaries(RotationRequirements(binary))[0]
	if status.Available {
		return status
	}
	if filepath.Base(strings.TrimSpace(binary)) != mogrifyName {
		return status
	}
	if alt, err := exec.LookPath(magickName); err == nil {
		status.Detail = fmt.Sprintf(
			"binary %q not found; %s is available, set rotation.binary = %q and rotation.args = [%q]",
			mogrifyName, alt, magickName, mogrifyName,
		)
	}
	return status
}

// RotationRequirements lists the binaries a batch run needs.
func RotationRequirements(binary string) []Requirement {
	return []Requirement{{
		Name:        "ImageMagick",
		Command:     binary,
		Description: "Rotates TIFF files in place",
	}}
}
