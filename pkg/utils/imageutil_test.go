package utils

import (
	"strings"
	"testing"
)

func TestIsSupportedImage(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":       true,
		"B.JPEG":      true,
		"c.Png":       true,
		"d.bmp":       true,
		"e.GIF":       true,
		"notes.txt":   false,
		"archive.tif": false,
		"noext":       false,
		".jpg.bak":    false,
	}

	for name, want := range tests {
		if got := IsSupportedImage(name); got != want {
			t.Errorf("IsSupportedImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatermarkedFilename(t *testing.T) {
	tests := []struct {
		original string
		format   string
		want     string
	}{
		{"holiday.png", "png", "holiday_watermark.png"},
		{"holiday.png", "jpeg", "holiday_watermark.jpeg"},
		{"uploads/beach.JPG", "jpeg", "beach_watermark.jpeg"},
		{"", "", "image_watermark.jpeg"},
	}

	for _, tt := range tests {
		if got := WatermarkedFilename(tt.original, tt.format); got != tt.want {
			t.Errorf("WatermarkedFilename(%q, %q) = %s, want %s", tt.original, tt.format, got, tt.want)
		}
	}
}

func TestGenerateStorageKey(t *testing.T) {
	a := GenerateStorageKey("holiday_watermark.jpeg")
	b := GenerateStorageKey("holiday_watermark.jpeg")

	if !strings.HasPrefix(a, "watermarked/holiday_watermark_") || !strings.HasSuffix(a, ".jpeg") {
		t.Errorf("unexpected key layout: %s", a)
	}
	if a == b {
		t.Error("expected unique keys")
	}
}
