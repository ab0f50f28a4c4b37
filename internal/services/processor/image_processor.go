// Package processor composites text and image watermarks onto photographs.
package processor

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/photomark/internal/models"
	"go.uber.org/zap"
)

// WatermarkMargin is the distance in pixels kept between a watermark and the
// edges it is anchored to.
const WatermarkMargin = 20

var (
	ErrEmptyText        = errors.New("watermark text is empty")
	ErrNoWatermarkImage = errors.New("watermark image is missing")
)

// Watermark is anything that can paint itself onto a transparent overlay the
// size of the source image.
type Watermark interface {
	Kind() models.WatermarkKind
	Draw(overlay *image.RGBA) error
}

type ImageProcessor struct {
	logger *zap.Logger
}

func NewImageProcessor(logger *zap.Logger) *ImageProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageProcessor{logger: logger}
}

// Open decodes the image at path.
func (p *ImageProcessor) Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Apply renders wm onto a transparent layer, composites it over src and
// returns an opaque image with exactly src's dimensions. Source pixels the
// watermark does not touch keep their color, transparent ones included.
func (p *ImageProcessor) Apply(src image.Image, wm Watermark) (*image.NRGBA, error) {
	base := imaging.Clone(src)
	canvas := base.Bounds()

	overlay := image.NewRGBA(canvas)
	if err := wm.Draw(overlay); err != nil {
		return nil, fmt.Errorf("failed to draw %s watermark: %w", wm.Kind(), err)
	}

	composite(base, overlay)

	p.logger.Debug("Watermark composited",
		zap.String("kind", string(wm.Kind())),
		zap.Int("width", canvas.Dx()),
		zap.Int("height", canvas.Dy()))

	flatten(base)
	return base, nil
}

// composite blends the premultiplied overlay over base in place using
// source-over on straight alpha. Both images share origin and size.
func composite(base *image.NRGBA, overlay *image.RGBA) {
	for i := 0; i+3 < len(base.Pix) && i+3 < len(overlay.Pix); i += 4 {
		sa := int(overlay.Pix[i+3])
		if sa == 0 {
			continue
		}

		da := int(base.Pix[i+3])
		dw := da * (255 - sa)
		outA := sa*255 + dw

		for c := 0; c < 3; c++ {
			v := (int(overlay.Pix[i+c])*255*255 + int(base.Pix[i+c])*dw + outA/2) / outA
			base.Pix[i+c] = uint8(min(v, 255))
		}
		base.Pix[i+3] = uint8((outA + 127) / 255)
	}
}

// flatten makes every pixel fully opaque, keeping its straight color.
func flatten(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
