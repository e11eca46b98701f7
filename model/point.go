package model

import (
	"image"
	"math"
)

// Point is a single pointer sample in canvas coordinates.
// StrokeEnd marks an explicit stroke boundary, the point itself carries no ink.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	StrokeEnd bool    `json:"strokeEnd,omitempty"`
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Stroke is one continuous pen-down gesture. It always holds at least one point.
type Stroke []Point

// BoundingBox is an integer region in canvas coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the box is degenerate.
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Within reports whether the box lies inside a width x height canvas.
func (b BoundingBox) Within(width, height int) bool {
	return b.X >= 0 && b.Y >= 0 && b.X+b.Width <= width && b.Y+b.Height <= height
}

func (b BoundingBox) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

func BoxFromRect(r image.Rectangle) BoundingBox {
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
