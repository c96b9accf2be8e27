package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultStateDirName is the per-user state directory under $HOME.
	DefaultStateDirName = ".envault"
	// DirPermissions is the permission for state directories (owner-only).
	DirPermissions = 0o700
	// FilePermissions is the permission for state files (owner read/write).
	FilePermissions = 0o600
)

// StateDir returns the state directory, honoring the ENVAULT_STATE_DIR
// override. It returns an absolute path when possible.
func StateDir() string {
	if env := os.Getenv("ENVAULT_STATE_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStateDirName
	}
	return filepath.Join(home, DefaultStateDirName)
}

// EnsureDirectory creates dir with owner-only permissions if it does not
// exist. An existing directory has its permissions forced back to 0700, so a
// loosened state directory is corrected on the next startup.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	// MkdirAll leaves an existing directory's mode alone.
	if err := os.Chmod(dir, DirPermissions); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dir, err)
	}
	return nil
}

// AtomicWriteFile writes data to path by first writing a temp file in the
// same directory, restricting it to owner read/write, then renaming it over
// the target. The target is either fully updated or untouched; a failed write
// never leaves a partial file behind.
func AtomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDirectory(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(FilePermissions); err != nil {
		cleanup()
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// ReadFile returns the full contents of path. Errors (including not-found)
// propagate to the caller; there is no retry here.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the controlled state dir
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
