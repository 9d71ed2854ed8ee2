package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunBuildCleanFileExitsOK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "m.sv")
	if err := os.WriteFile(path, []byte("module m;\n  wire a;\nendmodule\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errb bytes.Buffer
	code := run([]string{"build", path}, &out, &errb)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d; stderr=%q", code, exitOK, errb.String())
	}
}

func TestRunBuildReportsDiagnosticsAndExitsNonZero(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.sv")
	src := "module a;\n  timeunit 1ns;\nendmodule\nmodule b;\n  timeunit 1ps;\nendmodule\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errb bytes.Buffer
	code := run([]string{"build", path}, &out, &errb)
	if code != exitDiagnostics {
		t.Fatalf("exit code = %d, want %d", code, exitDiagnostics)
	}
	if !strings.Contains(out.String(), "timeunit") {
		t.Fatalf("stdout missing diagnostic message: %q", out.String())
	}
}

func TestRunBuildMissingFileIsInternalError(t *testing.T) {
	t.Parallel()

	var out, errb bytes.Buffer
	code := run([]string{"build", filepath.Join(t.TempDir(), "missing.sv")}, &out, &errb)
	if code != exitInternal {
		t.Fatalf("exit code = %d, want %d", code, exitInternal)
	}
}

func TestRunVersionPrintsDev(t *testing.T) {
	t.Parallel()

	var out, errb bytes.Buffer
	code := run([]string{"version"}, &out, &errb)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d", code, exitOK)
	}
	if strings.TrimSpace(out.String()) != "dev" {
		t.Fatalf("stdout = %q, want %q", out.String(), "dev")
	}
}

func TestRunDefinesPrintsConfiguredMacros(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "slang.yaml")
	if err := os.WriteFile(path, []byte("predefines:\n  WIDTH: \"8\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errb bytes.Buffer
	code := run([]string{"defines", "--config", path}, &out, &errb)
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d; stderr=%q", code, exitOK, errb.String())
	}
	if strings.TrimSpace(out.String()) != "WIDTH=8" {
		t.Fatalf("stdout = %q, want %q", out.String(), "WIDTH=8")
	}
}
