package predict

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/quickdraw/classifier"
	"github.com/juruen/quickdraw/model"
	"github.com/juruen/quickdraw/preprocess"
)

var (
	labels = classifier.LabelSet{"apple", "banana", "cat"}

	apple = []model.Point{
		{X: 100, Y: 100}, {X: 150, Y: 120}, {X: 200, Y: 100}, {X: 250, Y: 150},
		{X: 200, Y: 200}, {X: 150, Y: 180}, {X: 100, Y: 200},
	}
)

func fixed(shape model.Shape, probs []float64, err error) classifier.Func {
	return classifier.Func{
		Shape: shape,
		Fn: func(ctx context.Context, t model.Tensor) ([]float64, error) {
			if t.Shape != shape {
				return nil, errors.New("wrong shape")
			}
			return probs, err
		},
	}
}

func newDispatcher(t *testing.T, c classifier.Classifier, opts ...Option) *Dispatcher {
	p, err := preprocess.New(preprocess.DefaultParams())
	require.NoError(t, err)
	d, err := New(p, c, labels, opts...)
	require.NoError(t, err)
	return d
}

func TestPredictRanksLabels(t *testing.T) {
	d := newDispatcher(t, fixed(model.ImageShape(64, 64), []float64{0.2, 0.1, 0.7}, nil))

	pred, err := d.Predict(context.Background(), apple)
	require.NoError(t, err)
	assert.Equal(t, "cat", pred.Label)
	assert.Equal(t, 0.7, pred.Confidence)
	assert.Equal(t, []model.Ranked{
		{Label: "cat", Probability: 0.7},
		{Label: "apple", Probability: 0.2},
		{Label: "banana", Probability: 0.1},
	}, pred.Ranked)
}

func TestPredictTiesKeepLabelOrder(t *testing.T) {
	pred := Rank(labels, []float64{0.3, 0.4, 0.3})
	assert.Equal(t, "banana", pred.Label)
	assert.Equal(t, "apple", pred.Ranked[1].Label)
	assert.Equal(t, "cat", pred.Ranked[2].Label)
}

func TestPredictEmptyInput(t *testing.T) {
	var calls atomic.Int32
	c := classifier.Func{
		Shape: model.ImageShape(64, 64),
		Fn: func(ctx context.Context, t model.Tensor) ([]float64, error) {
			calls.Add(1)
			return []float64{1, 0, 0}, nil
		},
	}
	d := newDispatcher(t, c)

	pred, err := d.Predict(context.Background(), nil)
	assert.Nil(t, pred)
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = d.Predict(context.Background(), []model.Point{{StrokeEnd: true}})
	assert.True(t, errors.Is(err, ErrEmptyInput))
	assert.True(t, errors.Is(err, ErrDegenerateContent))

	assert.Zero(t, calls.Load())
}

func TestPredictClassifierFailure(t *testing.T) {
	cause := errors.New("model crashed")
	d := newDispatcher(t, fixed(model.ImageShape(64, 64), nil, cause))

	pred, err := d.Predict(context.Background(), apple)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassifierFailure))
	assert.True(t, errors.Is(err, cause))
	require.NotNil(t, pred)
	assert.Equal(t, model.UnknownLabel, pred.Label)
	assert.Zero(t, pred.Confidence)
}

func TestPredictWrongProbabilityCount(t *testing.T) {
	d := newDispatcher(t, fixed(model.ImageShape(64, 64), []float64{1}, nil))

	pred, err := d.Predict(context.Background(), apple)
	assert.True(t, errors.Is(err, ErrClassifierFailure))
	assert.Equal(t, model.UnknownLabel, pred.Label)
}

func TestPredictCorrectsShape(t *testing.T) {
	d := newDispatcher(t, fixed(model.ImageShape(28, 28), []float64{0.9, 0.05, 0.05}, nil))

	out, err := d.Dispatch(context.Background(), apple)
	require.NoError(t, err)
	assert.True(t, out.Corrected)
	assert.Equal(t, model.ImageShape(28, 28), out.Tensor.Shape)
	assert.True(t, out.Tensor.Valid())
	assert.Equal(t, model.ImageShape(64, 64), out.Preprocess.Tensor.Shape)
	assert.Equal(t, "apple", out.Prediction.Label)
}

func TestPredictShapeMismatch(t *testing.T) {
	d := newDispatcher(t, fixed(model.Shape{1, 64, 64, 3}, []float64{1, 0, 0}, nil))

	pred, err := d.Predict(context.Background(), apple)
	assert.Nil(t, pred)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestPredictTimeout(t *testing.T) {
	c := classifier.Func{
		Shape: model.ImageShape(64, 64),
		Fn: func(ctx context.Context, t model.Tensor) ([]float64, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	d := newDispatcher(t, c, WithTimeout(20*time.Millisecond))

	pred, err := d.Predict(context.Background(), apple)
	assert.True(t, errors.Is(err, ErrClassifierFailure))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, model.UnknownLabel, pred.Label)
}

func TestNewValidates(t *testing.T) {
	p, err := preprocess.New(preprocess.DefaultParams())
	require.NoError(t, err)
	c := fixed(model.ImageShape(64, 64), nil, nil)

	_, err = New(p, c, nil)
	assert.Error(t, err)
	_, err = New(p, c, classifier.LabelSet{"a", "A"})
	assert.Error(t, err)
	_, err = New(nil, c, labels)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	assert.True(t, Check(&model.Prediction{Label: "Apple"}, "apple "))
	assert.False(t, Check(&model.Prediction{Label: "cat"}, "apple"))
	assert.False(t, Check(model.Unknown(), "unknown"))
	assert.False(t, Check(nil, "apple"))
}

func TestPredictBatch(t *testing.T) {
	var inFlight, peak atomic.Int32
	c := classifier.Func{
		Shape: model.ImageShape(64, 64),
		Fn: func(ctx context.Context, t model.Tensor) ([]float64, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return []float64{0.1, 0.8, 0.1}, nil
		},
	}
	d := newDispatcher(t, c, WithConcurrency(2))

	sketches := [][]model.Point{apple, nil, apple, apple, apple}
	results := d.PredictBatch(context.Background(), sketches)

	require.Len(t, results, len(sketches))
	assert.True(t, errors.Is(results[1].Err, ErrEmptyInput))
	for _, i := range []int{0, 2, 3, 4} {
		require.NoError(t, results[i].Err)
		assert.Equal(t, "banana", results[i].Prediction.Label)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPredictBatchCancelled(t *testing.T) {
	d := newDispatcher(t, fixed(model.ImageShape(64, 64), []float64{1, 0, 0}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := d.PredictBatch(ctx, [][]model.Point{apple, apple})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}
