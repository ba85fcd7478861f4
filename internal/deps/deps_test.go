package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  ", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Resolved != present {
		t.Fatalf("expected first requirement to resolve, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}

	missing := Missing(results)
	if len(missing) != 1 || missing[0].Name != "Missing" {
		t.Fatalf("Missing should skip optional entries, got %#v", missing)
	}
}

func TestCheckRotationToolSuggestsMagick(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "magick")
	t.Setenv("PATH", binDir)

	status := CheckRotationTool("mogrify")
	if status.Available {
		t.Fatal("expected mogrify to be unavailable")
	}
	if !strings.Contains(status.Detail, `rotation.binary = "magick"`) {
		t.Fatalf("expected magick suggestion, got %q", status.Detail)
	}
}

func TestCheckRotationToolFound(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "mogrify")
	t.Setenv("PATH", binDir)

	status := CheckRotationTool("mogrify")
	if !status.Available {
		t.Fatalf("expected mogrify to resolve, got %q", status.Detail)
	}
	reqs := RotationRequirements("mogrify")
	if len(reqs) != 1 {
		t.Fatal("expected a single requirement")
	}
	if status.Name != reqs[0].Name || status.Command != reqs[0].Command {
		t.Fatalf("status %#v does not describe requirement %#v", status, reqs[0])
	}
}

func TestCheckRotationToolOtherBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	status := CheckRotationTool("convert-that-does-not-exist")
	if status.Available || !strings.Contains(status.Detail, "not found") {
		t.Fatalf("unexpected status: %#v", status)
	}
}
