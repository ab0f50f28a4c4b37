package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidOpacity  = errors.New("invalid opacity")
	ErrInvalidScale    = errors.New("invalid scale")
	ErrInvalidFontSize = errors.New("invalid font size")
)

// White is substituted for malformed colors.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// ParseColor parses an "R,G,B" triple. Malformed input returns White and
// ErrInvalidColor so callers can log the substitution and carry on.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return White, fmt.Errorf("%w: %q: want R,G,B", ErrInvalidColor, s)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return White, fmt.Errorf("%w: %q: channel %d out of range", ErrInvalidColor, s, i)
		}
		ch[i] = uint8(v)
	}

	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}

// NormalizeOpacity returns v when it lies in [0,255], DefaultOpacity otherwise.
func NormalizeOpacity(v int) (uint8, error) {
	if v < 0 || v > 255 {
		return DefaultOpacity, fmt.Errorf("%w: %d not in [0,255]", ErrInvalidOpacity, v)
	}
	return uint8(v), nil
}

// NormalizeScale returns s when it lies in (0,1], DefaultScale otherwise.
func NormalizeScale(s float64) (float64, error) {
	if s <= 0 || s > 1 {
		return DefaultScale, fmt.Errorf("%w: %g not in (0,1]", ErrInvalidScale, s)
	}
	return s, nil
}

// NormalizeFontSize returns size when positive, DefaultFontSize otherwise.
func NormalizeFontSize(size int) (int, error) {
	if size <= 0 {
		return DefaultFontSize, fmt.Errorf("%w: %d must be positive", ErrInvalidFontSize, size)
	}
	return size, nil
}

// NormalizeJPEGQuality clamps q into [1,100].
func NormalizeJPEGQuality(q int) int {
	if q <= 0 {
		return DefaultJPEGQuality
	}
	return min(100, q)
}
