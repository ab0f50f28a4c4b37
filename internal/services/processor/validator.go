package processor

import (
	"bytes"
	"fmt"
	"image"
)

// ValidateImage checks the upload size and decodes it. It returns the decoded
// image and the name of the format it was stored in.
func (p *ImageProcessor) ValidateImage(data []byte, maxSize int64) (image.Image, string, error) {
	if size := int64(len(data)); size > maxSize {
		return nil, "", fmt.Errorf("file size %d exceeds maximum allowed size %d", size, maxSize)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("invalid image format: %w", err)
	}

	return img, format, nil
}
