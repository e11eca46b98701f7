package classifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/quickdraw/model"
)

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels([]byte("labels: [apple, banana, cat]\n"))
	require.NoError(t, err)
	assert.Equal(t, LabelSet{"apple", "banana", "cat"}, labels)
	assert.Equal(t, 1, labels.Index("Banana"))
	assert.Equal(t, -1, labels.Index("dog"))
	assert.Contains(t, labels, labels.Random())
}

func TestParseLabelsInvalid(t *testing.T) {
	for _, doc := range []string{
		"labels: []",
		"labels: [apple, Apple]",
		"labels: [apple, '  ']",
		"labels: {apple: 1}",
	} {
		_, err := ParseLabels([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestLoadLabelsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	data, err := LabelSet{"apple", "car"}.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, LabelSet{"apple", "car"}, labels)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFunc(t *testing.T) {
	f := Func{
		Shape: model.ImageShape(4, 4),
		Fn: func(ctx context.Context, t model.Tensor) ([]float64, error) {
			return []float64{t.Sum()}, nil
		},
	}

	var c Classifier = f
	assert.Equal(t, model.ImageShape(4, 4), c.InputShape())
	probs, err := c.Classify(context.Background(), model.NewTensor(c.InputShape()))
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, probs)
}
