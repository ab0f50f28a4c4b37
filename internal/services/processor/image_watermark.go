package processor

import (
	"image"
	"image/draw"

	"github.com/phambaophuc/photomark/internal/models"
)

// ImageWatermark pastes a scaled logo at the bottom-right corner.
type ImageWatermark struct {
	Source  image.Image
	Scale   float64
	Opacity uint8
}

func (w *ImageWatermark) Kind() models.WatermarkKind {
	return models.KindImage
}

func (w *ImageWatermark) Draw(overlay *image.RGBA) error {
	if w.Source == nil {
		return ErrNoWatermarkImage
	}

	canvas := overlay.Bounds().Size()
	mark := ScaleWatermark(w.Source, canvas.X, w.Scale)
	fadeAlpha(mark, w.Opacity)

	r := Place(models.PositionBottomRight, canvas, mark.Bounds().Size())
	draw.Draw(overlay, r, mark, mark.Bounds().Min, draw.Over)

	return nil
}
