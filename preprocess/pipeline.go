// Package preprocess turns a freehand point stream into the fixed-size,
// normalized tensor a sketch classifier expects.
//
// The chain is: segment points into strokes, rasterize them, denoise and
// binarize the canvas, locate the dominant content region, crop and
// resample it, and normalize to [0, 1]. Every stage is deterministic and
// allocates its own buffers, so a Pipeline is safe for concurrent use.
package preprocess

import (
	"image"

	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
)

// Pipeline turns point streams into tensors with a fixed set of Params.
type Pipeline struct {
	params Params
}

// Result carries every intermediate artifact of one run.
type Result struct {
	Strokes   []model.Stroke
	LineWidth float64
	Canvas    *image.Gray
	Mask      *image.Gray
	Threshold uint8
	Location  Location
	Crop      *image.Gray
	Tensor    model.Tensor
}

// Stages lists the names accepted by Result.Stage, in pipeline order.
var Stages = []string{"canvas", "mask", "crop", "tensor"}

// Stage returns the image of a named intermediate stage.
func (r *Result) Stage(name string) (*image.Gray, error) {
	switch name {
	case "canvas":
		return r.Canvas, nil
	case "mask":
		return r.Mask, nil
	case "crop":
		return r.Crop, nil
	case "tensor":
		return Denormalize(r.Tensor), nil
	}
	return nil, errors.Errorf("unknown stage %q, want one of %v", name, Stages)
}

func New(params Params) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pipeline parameters")
	}
	return &Pipeline{params: params}, nil
}

func (p *Pipeline) Params() Params {
	return p.params
}

// Shape is the shape of every tensor this pipeline produces.
func (p *Pipeline) Shape() model.Shape {
	return model.ImageShape(p.params.TargetHeight, p.params.TargetWidth)
}

// Tensor runs the pipeline and returns only the tensor.
func (p *Pipeline) Tensor(points []model.Point) (model.Tensor, error) {
	res, err := p.Run(points)
	if err != nil {
		return model.Tensor{}, err
	}
	return res.Tensor, nil
}

// Run executes the full chain on points given in canvas coordinates.
func (p *Pipeline) Run(points []model.Point) (*Result, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	strokes := Segment(points, p.params.Gap())
	if len(strokes) == 0 {
		return nil, ErrDegenerateContent
	}

	res := &Result{Strokes: strokes, LineWidth: p.params.LineWidth()}

	canvas, err := Rasterize(strokes, p.params.CanvasWidth, p.params.CanvasHeight, res.LineWidth)
	if err != nil {
		return nil, errors.Wrap(err, "rasterize")
	}
	res.Canvas = canvas

	res.Mask, res.Threshold = Denoise(canvas, p.params.Median(), p.params.GaussianKernel)
	res.Location = Locate(res.Mask, p.params.MinContentArea)
	if res.Location.Fallback {
		log.Trace.Printf("preprocess: no significant content (largest area %d of %d components), using full canvas",
			res.Location.Area, res.Location.Components)
	}

	res.Crop = Crop(res.Mask, res.Location.Box)
	res.Tensor = Normalize(Resample(res.Crop, p.params.TargetWidth, p.params.TargetHeight))

	log.Trace.Printf("preprocess: %d points, %d strokes, threshold %d, box %+v",
		len(points), len(strokes), res.Threshold, res.Location.Box)
	return res, nil
}
