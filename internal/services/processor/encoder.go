package processor

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// FormatFromPath picks the output encoder from the file extension.
func FormatFromPath(path string) (imaging.Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("unsupported output format for %s: %w", path, err)
	}
	return f, nil
}

// FormatFromName maps a decoder name ("jpeg", "png", ...) to an encoder.
func FormatFromName(name string) (imaging.Format, error) {
	return imaging.FormatFromExtension(name)
}

// ContentType returns the MIME type served for an encoded format.
func ContentType(f imaging.Format) string {
	return "image/" + strings.ToLower(f.String())
}

func (p *ImageProcessor) Encode(w io.Writer, img image.Image, format imaging.Format, quality int) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
