package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a document path to form its sidecar backup
// path.
const BackupSuffix = ".goeditable.bak"

// BackupPath returns the sidecar backup path for the given file.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies the file at path to its sidecar backup unless one
// already exists, and reports whether a backup was created. An existing
// backup is never overwritten, so repeated in-place rewrites keep the
// very first original around. A missing source is not an error; there is
// simply nothing to back up.
func CreateBackup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}

	dst := BackupPath(path)
	if _, err := os.Lstat(dst); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}

	content, stamp, err := ReadFile(ctx, path)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("backup %s: %w", path, err)
	}

	if err := WriteAtomic(ctx, dst, content, stamp.Mode); err != nil {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}

	return true, nil
}

// RestoreBackup copies the sidecar backup's content back over the
// original file, leaving the backup in place. It reports whether a
// restore happened; a missing backup is not an error.
func RestoreBackup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	content, stamp, err := ReadFile(ctx, BackupPath(path))
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	if err := WriteAtomic(ctx, path, content, stamp.Mode); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	return true, nil
}

// RemoveBackup deletes the sidecar backup for path if one exists and
// reports whether anything was removed.
func RemoveBackup(path string) (bool, error) {
	switch err := os.Remove(BackupPath(path)); {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("remove backup: %w", err)
	}
}

// BackupExists reports whether a sidecar backup exists for path.
func BackupExists(path string) bool {
	_, err := os.Stat(BackupPath(path))
	return err == nil
}
