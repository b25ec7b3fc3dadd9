package safeio

import (
	"os"
	"path/filepath"
	"testing"
)

func newFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f, dir
}

func TestResolveRelativeUnderRoot(t *testing.T) {
	f, dir := newFS(t)
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := f.Resolve("a.txt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(got) != "a.txt" {
		t.Fatalf("resolved to %s", got)
	}
	data, err := f.ReadFile("a.txt")
	if err != nil || string(data) != "x" {
		t.Fatalf("read: %q %v", data, err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	f, _ := newFS(t)
	for _, p := range []string{"..", "../x", "../../etc/passwd", "a/../../x"} {
		if _, err := f.Resolve(p); err == nil {
			t.Fatalf("expected %q to be rejected", p)
		}
	}
}

func TestResolveRejectsAbsoluteOutsideRoot(t *testing.T) {
	f, _ := newFS(t)
	outside := t.TempDir()
	if _, err := f.Resolve(outside); err == nil {
		t.Fatalf("expected path outside root to be rejected")
	}
}

func TestResolveAllowsAbsoluteUnderRoot(t *testing.T) {
	f, _ := newFS(t)
	p := filepath.Join(f.Root(), "b.txt")
	if err := os.WriteFile(p, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Resolve(p); err != nil {
		t.Fatalf("absolute under root: %v", err)
	}
}

func TestResolveDirRejectsFiles(t *testing.T) {
	f, dir := newFS(t)
	if err := os.WriteFile(filepath.Join(dir, "plain"), []byte("z"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ResolveDir("plain"); err == nil {
		t.Fatalf("expected file to be rejected as directory")
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ResolveDir("sub"); err != nil {
		t.Fatalf("resolve dir: %v", err)
	}
}

func TestNewRejectsMissingRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("empty root accepted")
	}
	if _, err := New(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("missing root accepted")
	}
}
