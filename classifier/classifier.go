// Package classifier defines the capability that maps a preprocessed sketch
// tensor to a probability vector, plus an HTTP client for a model server.
package classifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/model"
)

// ErrModelUnavailable is returned when a classifier cannot be constructed,
// for example because the model server does not answer.
var ErrModelUnavailable = errors.New("model unavailable")

// Classifier is an opaque model. Classify returns one probability per label,
// in label-set order.
type Classifier interface {
	InputShape() model.Shape
	Classify(ctx context.Context, t model.Tensor) ([]float64, error)
}

// Func adapts a plain function with a fixed input shape to a Classifier.
type Func struct {
	Shape model.Shape
	Fn    func(ctx context.Context, t model.Tensor) ([]float64, error)
}

func (f Func) InputShape() model.Shape {
	return f.Shape
}

func (f Func) Classify(ctx context.Context, t model.Tensor) ([]float64, error) {
	return f.Fn(ctx, t)
}
