package processor

import (
	"image"
	"image/color"

	"github.com/phambaophuc/photomark/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextWatermark draws a single line of text at one of the anchor positions.
type TextWatermark struct {
	Text     string
	FontSize int
	Color    color.RGBA
	Opacity  uint8
	Position models.Position
	Fonts    *FontChain
}

func (w *TextWatermark) Kind() models.WatermarkKind {
	return models.KindText
}

func (w *TextWatermark) Draw(overlay *image.RGBA) error {
	if w.Text == "" {
		return ErrEmptyText
	}

	face := w.Fonts.Face(float64(w.FontSize))
	defer face.Close()

	box := TextBox(face, w.Text)
	placed := Place(w.Position, overlay.Bounds().Size(), box.Size())

	// The box is measured relative to the baseline origin; shift the dot so
	// the box's top-left corner lands on the anchor.
	dot := fixed.P(placed.Min.X-box.Min.X, placed.Min.Y-box.Min.Y)

	d := &font.Drawer{
		Dst:  overlay,
		Src:  image.NewUniform(color.NRGBA{R: w.Color.R, G: w.Color.G, B: w.Color.B, A: w.Opacity}),
		Face: face,
		Dot:  dot,
	}
	d.DrawString(w.Text)

	return nil
}

// Placement reports where the text box lands on a canvas of the given size.
func (w *TextWatermark) Placement(canvas image.Point) image.Rectangle {
	face := w.Fonts.Face(float64(w.FontSize))
	defer face.Close()

	return Place(w.Position, canvas, TextBox(face, w.Text).Size())
}

// TextBox returns the pixel bounds of text drawn with its dot at the origin.
func TextBox(face font.Face, text string) image.Rectangle {
	b, _ := font.BoundString(face, text)
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}
