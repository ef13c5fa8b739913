package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicFileCommit(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")
	f, err := CreateAtomic(dst)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.WriteString("hello\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("destination visible before commit: %v", err)
	}
	if err := f.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "hello\n" {
		t.Fatalf("got %q, %v", b, err)
	}
	if _, err := os.Stat(dst + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	f.Abort() // no-op after commit
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("abort after commit removed output: %v", err)
	}
}

func TestAtomicFileAbort(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	f, err := CreateAtomic(dst)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = f.WriteString("partial")
	f.Abort()
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir after abort, found %d entries", len(entries))
	}
}

func TestSafeWriteFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "m.yaml")
	if err := SafeWriteFile(dst, []byte("a: 1\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SafeWriteFile(dst, []byte("a: 2\n")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "a: 2\n" {
		t.Fatalf("got %q", b)
	}
}
