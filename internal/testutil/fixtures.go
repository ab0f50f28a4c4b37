// Package testutil builds image fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"

	"github.com/disintegration/imaging"
)

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

// WriteImage saves a solid image to path, encoded by the path's extension.
func WriteImage(t testing.TB, path string, w, h int, c color.Color) {
	t.Helper()
	if err := imaging.Save(Solid(w, h, c), path); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
}

// JPEGWithCaptureDate encodes a solid JPEG carrying an EXIF APP1 segment whose
// DateTimeOriginal is dateTime ("YYYY:MM:DD HH:MM:SS").
func JPEGWithCaptureDate(t testing.TB, w, h int, dateTime string) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Solid(w, h, color.NRGBA{90, 120, 150, 255}), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	img := buf.Bytes()

	payload := append([]byte("Exif\x00\x00"), exifTIFF(dateTime)...)

	out := make([]byte, 0, len(img)+len(payload)+4)
	out = append(out, img[:2]...) // SOI
	out = append(out, 0xFF, 0xE1)
	out = binary.BigEndian.AppendUint16(out, uint16(len(payload)+2))
	out = append(out, payload...)
	out = append(out, img[2:]...)
	return out
}

// WriteJPEGWithCaptureDate writes JPEGWithCaptureDate to path.
func WriteJPEGWithCaptureDate(t testing.TB, path string, w, h int, dateTime string) {
	t.Helper()
	if err := os.WriteFile(path, JPEGWithCaptureDate(t, w, h, dateTime), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
}

// exifTIFF lays out a little-endian TIFF block: IFD0 holding only the Exif
// sub-IFD pointer, and the Exif IFD holding only DateTimeOriginal.
func exifTIFF(dateTime string) []byte {
	value := append([]byte(dateTime), 0)

	const (
		ifd0Off  = 8
		exifOff  = ifd0Off + 2 + 12 + 4
		valueOff = exifOff + 2 + 12 + 4
	)

	le := binary.LittleEndian
	b := []byte("II")
	b = le.AppendUint16(b, 42)
	b = le.AppendUint32(b, ifd0Off)

	// IFD0
	b = le.AppendUint16(b, 1)
	b = le.AppendUint16(b, 0x8769) // ExifIFDPointer
	b = le.AppendUint16(b, 4)      // LONG
	b = le.AppendUint32(b, 1)
	b = le.AppendUint32(b, exifOff)
	b = le.AppendUint32(b, 0)

	// Exif IFD
	b = le.AppendUint16(b, 1)
	b = le.AppendUint16(b, 0x9003) // DateTimeOriginal
	b = le.AppendUint16(b, 2)      // ASCII
	b = le.AppendUint32(b, uint32(len(value)))
	b = le.AppendUint32(b, valueOff)
	b = le.AppendUint32(b, 0)

	return append(b, value...)
}
