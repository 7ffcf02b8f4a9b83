// Package fsutil provides crash-safe file replacement.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReplaceFile atomically replaces dest with content produced by fill.
//
// fill receives the path of a fresh temporary file in dest's directory and
// must leave the complete new content there. The temporary file is synced and
// renamed over dest only if fill succeeds, so a crash at any point leaves
// either the old file or the new one in place, never a partial write.
func ReplaceFile(dest string, perm os.FileMode, fill func(tmpPath string) error) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := fill(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := syncFile(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename over %s: %w", dest, err)
	}
	// Best effort: persist the rename itself.
	_ = syncDir(dir)
	return nil
}

// WriteFile atomically writes data to path, creating parent directories.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return ReplaceFile(path, perm, func(tmpPath string) error {
		return os.WriteFile(tmpPath, data, perm)
	})
}

func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
