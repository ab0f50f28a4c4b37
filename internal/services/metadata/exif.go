// Package metadata reads capture dates embedded in photographs.
package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"
)

const (
	exifLayout = "2006:01:02 15:04:05"
	DateLayout = "2006-01-02"
)

// ErrNoCaptureDate means the image carries no usable DateTimeOriginal. It is
// a skip signal, not a failure.
var ErrNoCaptureDate = errors.New("no capture date in image metadata")

type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// CaptureDate returns the DateTimeOriginal of the file at path as YYYY-MM-DD.
// ok is false when the file has no EXIF block, no such tag, a malformed value,
// or cannot be read at all.
func (e *Extractor) CaptureDate(path string) (date string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		e.logger.Debug("Cannot open image for metadata", zap.String("file", path), zap.Error(err))
		return "", false
	}
	defer f.Close()

	t, err := e.captureTime(f)
	if err != nil {
		e.logger.Debug("No capture date", zap.String("file", path), zap.Error(err))
		return "", false
	}
	return t.Format(DateLayout), true
}

// CaptureDateFrom is CaptureDate for an in-memory or streamed image.
func (e *Extractor) CaptureDateFrom(r io.Reader) (string, bool) {
	t, err := e.captureTime(r)
	if err != nil {
		e.logger.Debug("No capture date", zap.Error(err))
		return "", false
	}
	return t.Format(DateLayout), true
}

func (e *Extractor) captureTime(r io.Reader) (t time.Time, err error) {
	// goexif panics on some truncated blocks.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: exif decoder panic: %v", ErrNoCaptureDate, rec)
		}
	}()

	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureDate, err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureDate, err)
	}

	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoCaptureDate, err)
	}

	t, err = time.Parse(exifLayout, strings.TrimRight(strings.TrimSpace(raw), "\x00"))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed DateTimeOriginal %q", ErrNoCaptureDate, raw)
	}
	return t, nil
}
