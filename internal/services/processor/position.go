package processor

import (
	"image"

	"github.com/phambaophuc/photomark/internal/models"
)

// Anchor returns the top-left corner for a box of size box on a canvas of
// size canvas. Unknown positions anchor bottom-right. A box larger than the
// canvas gets negative coordinates and clips.
func Anchor(pos models.Position, canvas, box image.Point) image.Point {
	m := WatermarkMargin

	switch pos {
	case models.PositionTopLeft:
		return image.Pt(m, m)
	case models.PositionTopRight:
		return image.Pt(canvas.X-box.X-m, m)
	case models.PositionBottomLeft:
		return image.Pt(m, canvas.Y-box.Y-m)
	case models.PositionCenter:
		return image.Pt(floorDiv(canvas.X-box.X, 2), floorDiv(canvas.Y-box.Y, 2))
	default:
		return image.Pt(canvas.X-box.X-m, canvas.Y-box.Y-m)
	}
}

// Place is Anchor expressed as the rectangle the box occupies.
func Place(pos models.Position, canvas, box image.Point) image.Rectangle {
	at := Anchor(pos, canvas, box)
	return image.Rectangle{Min: at, Max: at.Add(box)}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
