// Package fsutil covers the disk side of document editing: reads that
// stamp what was loaded, atomic replacement writes, and sidecar backups
// for in-place rewrites.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrNilStamp is returned when a nil Stamp is asked about its file.
	ErrNilStamp = errors.New("nil stamp")
)

// Stamp records what a document file held when it was read. A caller that
// keeps the stamp around can ask Changed before writing the document back
// and notice a concurrent edit instead of clobbering it.
type Stamp struct {
	// Path is the file the stamp was taken from.
	Path string

	// Mode holds the file's permission bits at read time.
	Mode os.FileMode

	// Size is the content length in bytes.
	Size int64

	// Sum is the SHA-256 digest of the content.
	Sum [sha256.Size]byte
}

// ReadFile returns the file's content together with a stamp of its state.
// The file is opened once, so content, size and digest stay consistent
// even when the file is being replaced concurrently.
func ReadFile(ctx context.Context, path string) ([]byte, *Stamp, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	stamp := &Stamp{
		Path: path,
		Mode: stat.Mode(),
		Size: int64(len(content)),
		Sum:  sha256.Sum256(content),
	}

	return content, stamp, nil
}

// Changed reports whether the file's content diverged from the stamp.
// A deleted file counts as changed. Mod time is deliberately not part of
// the comparison: a bare touch, or a rewrite that restored the original
// bytes, leaves the pending write safe and is not reported as a change.
func (s *Stamp) Changed(ctx context.Context) (bool, error) {
	if s == nil {
		return false, ErrNilStamp
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check %s: %w", s.Path, err)
	}

	stat, err := os.Stat(s.Path)
	switch {
	case os.IsNotExist(err):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	case stat.IsDir():
		return true, nil
	case stat.Size() != s.Size:
		return true, nil
	}

	// Same length. Only the digest can tell an in-place rewrite apart
	// from the content the stamp was taken over.
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}

	return sha256.Sum256(content) != s.Sum, nil
}

// classify maps os errors onto the package sentinels so callers can use
// errors.Is without reaching for the os package.
func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}
