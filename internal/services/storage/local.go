package storage

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/photomark/internal/config"
)

// LocalWriter persists composited images on the local filesystem.
type LocalWriter struct {
	jpegQuality int
}

func NewLocalWriter(jpegQuality int) *LocalWriter {
	return &LocalWriter{jpegQuality: config.NormalizeJPEGQuality(jpegQuality)}
}

// Save encodes img by the extension of path, creating parent directories.
func (w *LocalWriter) Save(img image.Image, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(w.jpegQuality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
