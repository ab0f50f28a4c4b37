package metadata

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/phambaophuc/photomark/internal/testutil"
	"go.uber.org/zap/zaptest"
)

func TestCaptureDate(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor(zaptest.NewLogger(t))

	withDate := filepath.Join(dir, "with_date.jpg")
	testutil.WriteJPEGWithCaptureDate(t, withDate, 16, 16, "2024:01:01 08:30:00")

	noExif := filepath.Join(dir, "plain.png")
	testutil.WriteImage(t, noExif, 16, 16, color.White)

	plainJPEG := filepath.Join(dir, "plain.jpg")
	testutil.WriteImage(t, plainJPEG, 16, 16, color.White)

	malformed := filepath.Join(dir, "malformed.jpg")
	testutil.WriteJPEGWithCaptureDate(t, malformed, 16, 16, "2024-01-01 08:30:00")

	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("definitely not a photo"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		want   string
		wantOK bool
	}{
		{"exif date", withDate, "2024-01-01", true},
		{"png without exif", noExif, "", false},
		{"jpeg without exif", plainJPEG, "", false},
		{"malformed date", malformed, "", false},
		{"garbage bytes", garbage, "", false},
		{"missing file", filepath.Join(dir, "nope.jpg"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.CaptureDate(tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CaptureDate() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCaptureDateFrom(t *testing.T) {
	e := NewExtractor(nil)

	data := testutil.JPEGWithCaptureDate(t, 8, 8, "2019:12:31 23:59:59")
	got, ok := e.CaptureDateFrom(bytes.NewReader(data))
	if !ok || got != "2019-12-31" {
		t.Errorf("expected 2019-12-31, got (%q, %v)", got, ok)
	}

	if _, ok := e.CaptureDateFrom(bytes.NewReader(nil)); ok {
		t.Error("expected no date from empty input")
	}
}
