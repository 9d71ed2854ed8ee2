package sourcemgr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/afs"

	"github.com/VeriOpen/slang/internal/text"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	return path
}

func TestLoadPathDedupesByCleanPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.sv", "module m; endmodule\n")
	m := NewManager(afs.New())

	id1, err := m.LoadPath(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	id2, err := m.LoadPath(context.Background(), filepath.Join(dir, ".", "a.sv"))
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same BufferID for equivalent paths, got %d and %d", id1, id2)
	}
}

func TestLoadPathNotFound(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(afs.New())
	if _, err := m.LoadPath(context.Background(), filepath.Join(dir, "missing.sv")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestOpenIncludeSearchesUserThenSystemDirs(t *testing.T) {
	dir := t.TempDir()
	sysDir := filepath.Join(dir, "sys")
	userDir := filepath.Join(dir, "user")
	if err := os.Mkdir(sysDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sysDir, "defs.svh", "`define SYS 1\n")
	writeFile(t, userDir, "defs.svh", "`define USER 1\n")

	m := NewManager(afs.New())
	parentID := m.LoadMemory("top.sv", []byte("`include \"defs.svh\"\n"))
	site := text.Location{Buffer: parentID, Offset: 0}

	id, err := m.OpenInclude(context.Background(), "defs.svh", parentID, site, []string{userDir}, []string{sysDir})
	if err != nil {
		t.Fatalf("OpenInclude: %v", err)
	}
	buf := m.Buffer(id)
	if string(buf.Text) != "`define USER 1\n" {
		t.Fatalf("expected user dir to win, got %q", buf.Text)
	}
	if buf.Origin != OriginInclude || buf.Include == nil || buf.Include.From != site {
		t.Fatalf("include metadata not recorded: %+v", buf)
	}
}

func TestOpenIncludeNotFoundAcrossAllDirs(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(afs.New())
	parentID := m.LoadMemory("top.sv", []byte("`include \"missing.svh\"\n"))
	_, err := m.OpenInclude(context.Background(), "missing.svh", parentID, text.Location{Buffer: parentID}, []string{dir}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExpansionChainWalksBackToCallSite(t *testing.T) {
	m := NewManager(afs.New())
	fileID := m.LoadMemory("top.sv", []byte("`FOO\n"))
	callSite := text.Location{Buffer: fileID, Offset: 0}
	expID := m.NewExpansionBuffer("FOO", callSite, []byte("1"))

	chain := m.ExpansionChain(text.Location{Buffer: expID, Offset: 0})
	if len(chain) != 1 {
		t.Fatalf("len(chain) = %d, want 1", len(chain))
	}
	if chain[0].MacroName != "FOO" || chain[0].CallSite != callSite {
		t.Fatalf("chain[0] = %+v", chain[0])
	}

	origin := m.OriginatingFile(expID)
	if origin == nil || origin.ID != fileID {
		t.Fatalf("OriginatingFile() = %+v, want buffer %d", origin, fileID)
	}
}

func TestResolveReturnsLineAndColumn(t *testing.T) {
	m := NewManager(afs.New())
	id := m.LoadMemory("top.sv", []byte("module m;\nendmodule\n"))

	resolved, err := m.Resolve(text.Location{Buffer: id, Offset: 10})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Line != 1 || resolved.Column != 0 {
		t.Fatalf("Resolve() = %+v, want line 1 col 0", resolved)
	}
}

func TestIncludeDepthExceeded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svh", "x")
	m := NewManager(afs.New())
	m.SetMaxIncludeDepth(1)

	fileID := m.LoadMemory("top.sv", []byte("`include \"a.svh\"\n"))
	site := text.Location{Buffer: fileID}
	first, err := m.OpenInclude(context.Background(), "a.svh", fileID, site, []string{dir}, nil)
	if err != nil {
		t.Fatalf("first OpenInclude: %v", err)
	}
	if _, err := m.OpenInclude(context.Background(), "a.svh", first, site, []string{dir}, nil); !errors.Is(err, ErrIncludeDepth) {
		t.Fatalf("expected ErrIncludeDepth, got %v", err)
	}
}
