package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results", "nested", "out.html")

	if err := WriteFile(path, []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "<html></html>" {
		t.Errorf("content = %q, want %q", got, "<html></html>")
	}
}

func TestReplaceFile_FailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("original"), 0o600); err != nil {
		t.Fatal(err)
	}

	fillErr := errors.New("repair blew up")
	err := ReplaceFile(path, 0o600, func(tmpPath string) error {
		// Simulate a half-written replacement before failing.
		_ = os.WriteFile(tmpPath, []byte("half"), 0o600)
		return fillErr
	})
	if !errors.Is(err, fillErr) {
		t.Fatalf("ReplaceFile() error = %v, want %v", err, fillErr)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Errorf("original content changed to %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp file to be cleaned up, dir has %d entries", len(entries))
	}
}

func TestReplaceFile_PreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}

	err := ReplaceFile(path, 0o640, func(tmpPath string) error {
		return os.WriteFile(tmpPath, []byte("new"), 0o600)
	})
	if err != nil {
		t.Fatalf("ReplaceFile() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(0o640))
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
}
