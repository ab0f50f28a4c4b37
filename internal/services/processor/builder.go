package processor

import (
	"image"

	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/models"
	"go.uber.org/zap"
)

// TextSettings are the user-supplied text watermark settings before
// validation.
type TextSettings struct {
	Text     string
	FontSize int
	Color    string
	Opacity  int
	Position string
}

// ImageSettings are the user-supplied image watermark settings before
// validation.
type ImageSettings struct {
	Source  image.Image
	Scale   float64
	Opacity int
}

// Builder turns raw settings into watermarks. Invalid values are replaced by
// their defaults and reported with a warning; they never abort the run.
type Builder struct {
	fonts  *FontChain
	logger *zap.Logger
}

func NewBuilder(fonts *FontChain, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{fonts: fonts, logger: logger}
}

func (b *Builder) Text(s TextSettings) *TextWatermark {
	c, err := config.ParseColor(s.Color)
	if err != nil {
		b.logger.Warn("Invalid color, using white", zap.String("color", s.Color), zap.Error(err))
	}

	pos, err := models.ParsePosition(s.Position)
	if err != nil {
		b.logger.Warn("Invalid position, using bottom-right", zap.String("position", s.Position))
	}

	size, err := config.NormalizeFontSize(s.FontSize)
	if err != nil {
		b.logger.Warn("Invalid font size, using default",
			zap.Int("font_size", s.FontSize),
			zap.Int("default", config.DefaultFontSize))
	}

	return &TextWatermark{
		Text:     s.Text,
		FontSize: size,
		Color:    c,
		Opacity:  b.opacity(s.Opacity),
		Position: pos,
		Fonts:    b.fonts,
	}
}

func (b *Builder) Image(s ImageSettings) *ImageWatermark {
	scale, err := config.NormalizeScale(s.Scale)
	if err != nil {
		b.logger.Warn("Invalid scale, using default",
			zap.Float64("scale", s.Scale),
			zap.Float64("default", config.DefaultScale))
	}

	return &ImageWatermark{
		Source:  s.Source,
		Scale:   scale,
		Opacity: b.opacity(s.Opacity),
	}
}

func (b *Builder) opacity(v int) uint8 {
	o, err := config.NormalizeOpacity(v)
	if err != nil {
		b.logger.Warn("Opacity out of range, using default",
			zap.Int("opacity", v),
			zap.Int("default", config.DefaultOpacity))
	}
	return o
}
