// Package storage is the filesystem blob store for uploaded CSV files and
// their images. CSV blobs live directly in the base directory, image blobs
// under an images/ subdirectory; both directories are created up front.
// Relative paths always use forward slashes, so they can be stored and
// compared as plain strings regardless of platform.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const imagesSubDir = "images"

type Store interface {
	// SaveCSV writes a CSV blob and returns its relative path.
	SaveCSV(filename string, src io.Reader) (string, error)
	// SaveImage writes an image blob under images/ and returns its relative path.
	SaveImage(filename string, src io.Reader) (string, error)
	// Read returns the full contents of a blob.
	Read(relPath string) ([]byte, error)
	// Remove deletes a blob. A blob that is already gone is not an error.
	Remove(relPath string) error
	// Exists reports whether a blob is present on disk.
	Exists(relPath string) bool
}

// Local implements Store on a local directory.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("invalid uploads dir %q: %w", baseDir, err)
	}
	if err := os.MkdirAll(filepath.Join(abs, imagesSubDir), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dirs: %w", err)
	}
	return &Local{baseDir: abs}, nil
}

func (s *Local) SaveCSV(filename string, src io.Reader) (string, error) {
	return s.save(filename, src)
}

func (s *Local) SaveImage(filename string, src io.Reader) (string, error) {
	return s.save(path.Join(imagesSubDir, filename), src)
}

func (s *Local) save(relPath string, src io.Reader) (string, error) {
	abs, err := s.fullPath(relPath)
	if err != nil {
		return "", err
	}
	dst, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w", relPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(abs)
		return "", fmt.Errorf("write blob %s: %w", relPath, err)
	}
	return relPath, nil
}

func (s *Local) Read(relPath string) ([]byte, error) {
	abs, err := s.fullPath(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", relPath, err)
	}
	return data, nil
}

func (s *Local) Remove(relPath string) error {
	abs, err := s.fullPath(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", relPath, err)
	}
	return nil
}

func (s *Local) Exists(relPath string) bool {
	abs, err := s.fullPath(relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// fullPath resolves a relative blob path and rejects anything that would
// escape the base directory.
func (s *Local) fullPath(relPath string) (string, error) {
	abs := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	if !strings.HasPrefix(filepath.Clean(abs), s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("blob path %q escapes uploads dir", relPath)
	}
	return abs, nil
}
