package processor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ScaleWatermark resizes mark to scale × sourceWidth pixels wide, keeping its
// aspect ratio. The result is never narrower than one pixel.
func ScaleWatermark(mark image.Image, sourceWidth int, scale float64) *image.NRGBA {
	width := max(1, int(math.Round(scale*float64(sourceWidth))))
	return imaging.Resize(mark, width, 0, imaging.Lanczos)
}

// fadeAlpha multiplies every pixel's alpha by opacity/255, keeping whatever
// transparency the mark already had.
func fadeAlpha(img *image.NRGBA, opacity uint8) {
	if opacity == 0xff {
		return
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(uint16(img.Pix[i]) * uint16(opacity) / 0xff)
	}
}
