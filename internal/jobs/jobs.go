// Package jobs turns manifest rows into rotation jobs.
package jobs

import (
	"fmt"
	"strings"

	"tifrotate/internal/manifest"
)

// Required manifest columns.
const (
	ColumnFolder     = "Folder"
	ColumnFilenumber = "Filenumber"
	ColumnRotation   = "Rotation"
)

// ImageSuffix is appended to Folder+Filenumber to form the target path.
const ImageSuffix = ".TIF"

// splitMarker excludes multi-part scans from rotation.
const splitMarker = "Split"

var requiredColumns = []string{ColumnFolder, ColumnFilenumber, ColumnRotation}

// Job is a single file rotation derived from one eligible manifest row.
type Job struct {
	TargetPath   string
	RotationSpec string
	// Line is the manifest record the job came from; diagnostics only.
	Line int
}

// MissingFieldError reports a manifest row without a required column.
type MissingFieldError struct {
	Line  int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("manifest line %d: missing required field %q", e.Line, e.Field)
}

// Eligible reports whether a row's rotation instruction should be executed.
// Rows whose Rotation mentions "Split" are held back for manual splitting.
func Eligible(row manifest.Row) bool {
	rotation, _ := row.Get(ColumnRotation)
	return !strings.Contains(rotation, splitMarker)
}

// FromRow maps a row to a Job without checking eligibility.
func FromRow(row manifest.Row) (Job, error) {
	values := make(map[string]string, len(requiredColumns))
	for _, name := range requiredColumns {
		value, ok := row.Get(name)
		if !ok {
			return Job{}, &MissingFieldError{Line: row.Line, Field: name}
		}
		values[name] = value
	}
	return Job{
		TargetPath:   values[ColumnFolder] + values[ColumnFilenumber] + ImageSuffix,
		RotationSpec: values[ColumnRotation],
		Line:         row.Line,
	}, nil
}

// Build maps every eligible row to a Job, preserving row order. Every row is
// checked for required fields, eligible or not, and the first missing field
// aborts the whole build.
func Build(rows []manifest.Row) ([]Job, error) {
	out := make([]Job, 0, len(rows))
	for _, row := range rows {
		job, err := FromRow(row)
		if err != nil {
			return nil, err
		}
		if !Eligible(row) {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}
