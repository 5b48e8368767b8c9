// Package filex holds the local temp-file plumbing used while multipart
// uploads are staged on disk before they are pushed to the media store.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EnsureSubdDir creates dirName under the current working directory when it
// is relative (absolute paths are used as is) and returns the absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// TempPath returns a fresh path inside dir that keeps the extension of the
// client supplied file name. Nothing is created on disk.
func TempPath(dir, originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	return filepath.Join(dir, uuid.NewString()+ext)
}

// Remove deletes path and treats a missing file as success.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
