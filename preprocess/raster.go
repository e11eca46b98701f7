package preprocess

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/juruen/quickdraw/model"
)

// Rasterize draws strokes onto a fresh width x height canvas.
//
// Polarity is white ink (255) on a black background (0). Strokes with two or
// more distinct points are stroked with round caps and joins; a stroke that
// collapses to a single location is drawn as a filled circle of radius
// lineWidth/2. Anything outside the canvas is clipped.
func Rasterize(strokes []model.Stroke, width, height int, lineWidth float64) (*image.Gray, error) {
	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.ClearWithColor(gg.Black)
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(lineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for i, stroke := range strokes {
		if len(stroke) == 0 {
			continue
		}

		if isDot(stroke) {
			dc.DrawCircle(stroke[0].X, stroke[0].Y, lineWidth/2)
			if err := dc.Fill(); err != nil {
				return nil, errors.Wrapf(err, "can't draw dot for stroke %d", i)
			}
			continue
		}

		dc.MoveTo(stroke[0].X, stroke[0].Y)
		for _, p := range stroke[1:] {
			dc.LineTo(p.X, p.Y)
		}
		if err := dc.Stroke(); err != nil {
			return nil, errors.Wrapf(err, "can't draw stroke %d", i)
		}
	}

	return toGray(dc.Image()), nil
}

func isDot(stroke model.Stroke) bool {
	first := stroke[0]
	for _, p := range stroke[1:] {
		if p.X != first.X || p.Y != first.Y {
			return false
		}
	}
	return true
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
