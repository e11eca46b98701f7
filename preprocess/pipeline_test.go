package preprocess

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/quickdraw/model"
)

var apple = []model.Point{
	pt(100, 100), pt(150, 120), pt(200, 100), pt(250, 150),
	pt(200, 200), pt(150, 180), pt(100, 200),
}

func newPipeline(t *testing.T) *Pipeline {
	p, err := New(DefaultParams())
	require.NoError(t, err)
	return p
}

func TestPipelineApple(t *testing.T) {
	p := newPipeline(t)

	res, err := p.Run(apple)
	require.NoError(t, err)

	assert.Len(t, res.Strokes, 1)
	assert.Equal(t, 6.0, res.LineWidth)
	assert.Equal(t, model.ImageShape(64, 64), res.Tensor.Shape)
	assert.Len(t, res.Tensor.Data, 64*64)
	assert.True(t, res.Tensor.Valid())
	assert.Greater(t, res.Tensor.Sum(), 0.0)

	assert.False(t, res.Location.Fallback)
	assert.Greater(t, res.Location.Area, 1000)
	assert.True(t, res.Location.Box.Within(400, 400))
	// the box hugs the drawing, not the canvas
	assert.Less(t, res.Location.Box.Width, 200)
	assert.GreaterOrEqual(t, res.Location.Box.X, 90)
}

func TestPipelineSinglePoint(t *testing.T) {
	p := newPipeline(t)

	first, err := p.Run([]model.Point{pt(200, 200)})
	require.NoError(t, err)
	assert.Equal(t, p.Shape(), first.Tensor.Shape)
	assert.True(t, first.Tensor.Valid())

	// the dot survives denoising even though it is too small to crop to
	assert.Greater(t, countAbove(first.Mask, 0), 12)
	assert.Equal(t, 1, first.Location.Components)
	assert.True(t, first.Location.Fallback)
	assert.Greater(t, first.Tensor.Sum(), 0.0)

	second, err := p.Run([]model.Point{pt(200, 200)})
	require.NoError(t, err)
	assert.Equal(t, first.Tensor, second.Tensor)
	assert.Equal(t, first.Location, second.Location)
}

func TestPipelineEmptyInput(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Run(nil)
	assert.Equal(t, ErrEmptyInput, err)

	_, err = p.Tensor([]model.Point{})
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestPipelineOnlyMarkers(t *testing.T) {
	p := newPipeline(t)

	_, err := p.Run([]model.Point{end(), end()})
	assert.Equal(t, ErrDegenerateContent, err)
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestPipelineIdempotent(t *testing.T) {
	p := newPipeline(t)

	a, err := p.Tensor(apple)
	require.NoError(t, err)
	b, err := p.Tensor(apple)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPipelineConcurrent(t *testing.T) {
	p := newPipeline(t)
	want, err := p.Tensor(apple)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]model.Tensor, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Tensor(apple)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestPipelineOutOfRangePoints(t *testing.T) {
	p := newPipeline(t)

	res, err := p.Run([]model.Point{pt(-100, -100), pt(50, 50), pt(450, 390), end(), pt(1000, 1000)})
	require.NoError(t, err)
	assert.True(t, res.Tensor.Valid())
	assert.True(t, res.Location.Box.Within(400, 400))
}

func TestPipelineMultipleStrokes(t *testing.T) {
	p := newPipeline(t)

	points := []model.Point{
		pt(50, 50), pt(200, 50), pt(350, 50), end(),
		pt(50, 300), pt(200, 300), pt(350, 300),
	}
	res, err := p.Run(points)
	require.NoError(t, err)
	assert.Len(t, res.Strokes, 2)
	assert.Equal(t, 2, res.Location.Components)
	assert.False(t, res.Location.Fallback)
}

func TestPipelineGapSplitKeepsDots(t *testing.T) {
	p := newPipeline(t)

	// both jumps exceed the gap, so every point becomes its own dot
	points := []model.Point{
		pt(50, 50), pt(350, 50), end(),
		pt(50, 300), pt(350, 300),
	}
	res, err := p.Run(points)
	require.NoError(t, err)
	assert.Len(t, res.Strokes, 4)
	assert.Equal(t, 4, res.Location.Components)
	assert.True(t, res.Location.Fallback)
	assert.Greater(t, res.Tensor.Sum(), 0.0)
}

func TestNewRejectsInvalidParams(t *testing.T) {
	params := DefaultParams()
	params.MedianKernel = 4
	_, err := New(params)
	assert.Error(t, err)

	params = DefaultParams()
	params.TargetWidth = 0
	_, err = New(params)
	assert.Error(t, err)
}

func TestParams(t *testing.T) {
	params := DefaultParams()
	assert.Equal(t, 6.0, params.LineWidth())
	assert.Equal(t, 200.0, params.Gap())
	assert.Equal(t, 5, params.Median())

	params.StrokeGap = -1
	assert.Equal(t, -1.0, params.Gap())

	params.MedianKernel = 3
	assert.Equal(t, 3, params.Median())

	params.MedianKernel = 15
	params.CanvasWidth, params.CanvasHeight = 275, 275
	assert.Equal(t, 5, params.Median())

	params.CanvasWidth, params.CanvasHeight = 100, 100
	assert.Equal(t, 1, params.Median())
}

func TestResultStage(t *testing.T) {
	res, err := newPipeline(t).Run(apple)
	require.NoError(t, err)

	for _, name := range Stages {
		img, err := res.Stage(name)
		require.NoError(t, err, name)
		assert.NotNil(t, img, name)
	}
	tensor, err := res.Stage("tensor")
	require.NoError(t, err)
	assert.Equal(t, 64, tensor.Bounds().Dx())

	_, err = res.Stage("histogram")
	assert.Error(t, err)
}
