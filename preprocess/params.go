package preprocess

import (
	"math"

	"github.com/pkg/errors"
)

// Params is the configuration surface of the pipeline. Values are fixed when
// a Pipeline is built and never change per request.
type Params struct {
	CanvasWidth  int
	CanvasHeight int

	TargetWidth  int
	TargetHeight int

	MinLineWidth float64
	MaxLineWidth float64

	MedianKernel   int
	GaussianKernel int

	// MinContentArea is the smallest dominant region, in pixels, that is
	// trusted as content. Smaller regions fall back to the full canvas.
	MinContentArea int

	// StrokeGap splits strokes when consecutive points are farther apart.
	// Zero derives it from the canvas size, negative disables the split.
	StrokeGap float64
}

// DefaultParams matches a 400x400 drawing canvas and a 64x64 classifier input.
func DefaultParams() Params {
	return Params{
		CanvasWidth:    400,
		CanvasHeight:   400,
		TargetWidth:    64,
		TargetHeight:   64,
		MinLineWidth:   2,
		MaxLineWidth:   6,
		MedianKernel:   15,
		GaussianKernel: 5,
		MinContentArea: 1000,
	}
}

func (p Params) Validate() error {
	switch {
	case p.CanvasWidth <= 0 || p.CanvasHeight <= 0:
		return errors.Errorf("invalid canvas size %dx%d", p.CanvasWidth, p.CanvasHeight)
	case p.TargetWidth <= 0 || p.TargetHeight <= 0:
		return errors.Errorf("invalid target size %dx%d", p.TargetWidth, p.TargetHeight)
	case p.MinLineWidth <= 0 || p.MaxLineWidth < p.MinLineWidth:
		return errors.Errorf("invalid line width bounds [%g, %g]", p.MinLineWidth, p.MaxLineWidth)
	case p.MedianKernel <= 0 || p.MedianKernel%2 == 0:
		return errors.Errorf("median kernel must be odd and positive, got %d", p.MedianKernel)
	case p.GaussianKernel <= 0 || p.GaussianKernel%2 == 0:
		return errors.Errorf("gaussian kernel must be odd and positive, got %d", p.GaussianKernel)
	case p.MinContentArea < 0:
		return errors.Errorf("negative minimum content area %d", p.MinContentArea)
	}
	return nil
}

// LineWidth is the stroke width for the configured canvas.
func (p Params) LineWidth() float64 {
	return LineWidth(p.CanvasWidth, p.CanvasHeight, p.MinLineWidth, p.MaxLineWidth)
}

// Gap is the effective stroke-gap threshold.
func (p Params) Gap() float64 {
	if p.StrokeGap == 0 {
		return float64(max(p.CanvasWidth, p.CanvasHeight)) / 2
	}
	return p.StrokeGap
}

// Median is the effective median kernel. It never exceeds the line width, so
// a window centred on a dot or a stroke is mostly ink.
func (p Params) Median() int {
	limit := int(math.Floor(p.LineWidth()))
	if limit%2 == 0 {
		limit--
	}
	k := p.MedianKernel
	if limit >= 1 && k > limit {
		k = limit
	}
	return max(k, 1)
}

// LineWidth returns clamp(min(width, height)/50, minWidth, maxWidth).
func LineWidth(width, height int, minWidth, maxWidth float64) float64 {
	w := float64(min(width, height)) / 50
	return math.Max(minWidth, math.Min(maxWidth, w))
}
