// Package batch resolves the input path and drives the per-file pipeline.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phambaophuc/photomark/pkg/utils"
)

var (
	ErrInputNotFound = errors.New("input path does not exist")
	ErrNotDirectory  = errors.New("batch mode requires a directory")
)

// Target is a resolved input path.
type Target struct {
	Path  string
	IsDir bool
}

func Resolve(path string) (Target, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Target{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return Target{}, fmt.Errorf("failed to stat input: %w", err)
	}
	return Target{Path: path, IsDir: info.IsDir()}, nil
}

// ListImages returns the regular files directly inside dir whose extension is
// supported, in name order. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !utils.IsSupportedImage(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// DefaultOutputDir is <dir>/<basename(dir)><suffix>.
func DefaultOutputDir(dir, suffix string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return filepath.Join(abs, filepath.Base(abs)+suffix), nil
}
