// Package predict runs sketches through the preprocessing pipeline and an
// injected classifier, and turns probability vectors into ranked labels.
package predict

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/classifier"
	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
	"github.com/juruen/quickdraw/preprocess"
)

// DefaultConcurrency is the PredictBatch fan-out when none is configured.
const DefaultConcurrency = 3

// Dispatcher runs the preprocessing pipeline and hands the tensor to a
// classifier.
type Dispatcher struct {
	pipeline    *preprocess.Pipeline
	classifier  classifier.Classifier
	labels      classifier.LabelSet
	concurrency int64
	timeout     time.Duration
}

type Option func(*Dispatcher)

// WithConcurrency bounds the number of in-flight classifications of PredictBatch.
func WithConcurrency(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithTimeout caps every classifier call. Zero leaves the caller's context alone.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

func New(pipeline *preprocess.Pipeline, c classifier.Classifier, labels classifier.LabelSet, opts ...Option) (*Dispatcher, error) {
	if pipeline == nil || c == nil {
		return nil, errors.New("pipeline and classifier are required")
	}
	if err := labels.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid label set")
	}

	d := &Dispatcher{
		pipeline:    pipeline,
		classifier:  c,
		labels:      labels,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Dispatcher) Labels() classifier.LabelSet {
	return d.labels
}

func (d *Dispatcher) Pipeline() *preprocess.Pipeline {
	return d.pipeline
}

func (d *Dispatcher) InputShape() model.Shape {
	return d.classifier.InputShape()
}

// Outcome is a prediction together with the artifacts that produced it.
type Outcome struct {
	Prediction *model.Prediction
	Preprocess *preprocess.Result
	// Tensor is what the classifier received; it differs from
	// Preprocess.Tensor only when Corrected is set.
	Tensor    model.Tensor
	Corrected bool
}

// Predict classifies a sketch given in canvas coordinates.
//
// Pipeline errors are returned as is. A classifier error yields the unknown
// placeholder prediction together with an error matching ErrClassifierFailure.
func (d *Dispatcher) Predict(ctx context.Context, points []model.Point) (*model.Prediction, error) {
	out, err := d.Dispatch(ctx, points)
	if out == nil {
		return nil, err
	}
	return out.Prediction, err
}

// Dispatch is Predict returning every intermediate result.
func (d *Dispatcher) Dispatch(ctx context.Context, points []model.Point) (*Outcome, error) {
	res, err := d.pipeline.Run(points)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Preprocess: res}
	out.Tensor, out.Corrected, err = conform(res.Tensor, d.classifier.InputShape())
	if err != nil {
		return nil, err
	}
	if out.Corrected {
		log.Warning.Printf("predict: resized tensor %s to classifier input %s", res.Tensor.Shape, out.Tensor.Shape)
	}

	out.Prediction, err = d.classify(ctx, out.Tensor)
	return out, err
}

func (d *Dispatcher) classify(ctx context.Context, t model.Tensor) (*model.Prediction, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	probs, err := d.classifier.Classify(ctx, t)
	if err != nil {
		log.Error.Printf("predict: classifier: %v", err)
		return model.Unknown(), fmt.Errorf("%w: %w", ErrClassifierFailure, err)
	}
	if len(probs) != len(d.labels) {
		return model.Unknown(), fmt.Errorf("%w: got %d probabilities for %d labels",
			ErrClassifierFailure, len(probs), len(d.labels))
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return model.Unknown(), fmt.Errorf("%w: non-finite probability for %q", ErrClassifierFailure, d.labels[i])
		}
	}

	return Rank(d.labels, probs), nil
}

// Rank orders labels by descending probability; ties keep label-set order.
func Rank(labels classifier.LabelSet, probs []float64) *model.Prediction {
	ranked := make([]model.Ranked, len(probs))
	for i, p := range probs {
		ranked[i] = model.Ranked{Label: labels[i], Probability: p}
	}
	slices.SortStableFunc(ranked, func(a, b model.Ranked) int {
		return cmp.Compare(b.Probability, a.Probability)
	})

	if len(ranked) == 0 {
		return model.Unknown()
	}
	return &model.Prediction{Label: ranked[0].Label, Confidence: ranked[0].Probability, Ranked: ranked}
}

// conform returns t reshaped to shape, resampling at most once.
func conform(t model.Tensor, shape model.Shape) (model.Tensor, bool, error) {
	if t.Shape == shape {
		return t, false, nil
	}
	if shape[0] != 1 || shape[3] != 1 || shape.Height() <= 0 || shape.Width() <= 0 {
		return model.Tensor{}, false, errors.Wrapf(ErrShapeMismatch, "have %s, want %s", t.Shape, shape)
	}

	img := preprocess.Resample(preprocess.Denormalize(t), shape.Width(), shape.Height())
	resized := preprocess.Normalize(img)
	if resized.Shape != shape {
		return model.Tensor{}, false, errors.Wrapf(ErrShapeMismatch, "have %s after resize, want %s", resized.Shape, shape)
	}
	return resized, true, nil
}

// Check reports whether a prediction names the expected object.
func Check(prediction *model.Prediction, expected string) bool {
	if prediction == nil || prediction.Label == model.UnknownLabel {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(prediction.Label), strings.TrimSpace(expected))
}
