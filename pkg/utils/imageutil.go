package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SupportedExtensions are the image file extensions picked up in directory mode.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// IsSupportedImage reports whether the file name carries a supported
// extension, ignoring case.
func IsSupportedImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// WatermarkedFilename names a watermarked result after its source file as
// <base>_watermark.<format>. An empty format means jpeg and a source without
// a usable base name becomes "image".
func WatermarkedFilename(original, format string) string {
	if format == "" {
		format = "jpeg"
	}
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return fmt.Sprintf("%s_watermark.%s", base, format)
}

func GenerateStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	timestamp := time.Now().Unix()
	uuid := uuid.New().String()[:8]

	return fmt.Sprintf("watermarked/%s_%d_%s%s", name, timestamp, uuid, ext)
}
