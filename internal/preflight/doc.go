// Package preflight provides readiness checks for the rotation tool and the
// filesystem paths tifrotate writes to.
//
// These checks run in two contexts:
//   - The batch runner calls CheckSystemDeps before dispatching so a missing
//     tool is reported once instead of once per file.
//   - The CLI "tifrotate check" command runs RunAll and renders every result.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
