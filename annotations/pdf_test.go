package annotations

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/quickdraw/encoding/sketch"
	"github.com/juruen/quickdraw/model"
)

func testPage() Page {
	return Page{
		Title: "apple",
		Sketch: &sketch.Sketch{Width: 400, Height: 400, Strokes: []model.Stroke{
			{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 250, Y: 150}},
			{{X: 300, Y: 300}},
		}},
		Prediction: &model.Prediction{Label: "apple", Confidence: 0.8, Ranked: []model.Ranked{
			{Label: "apple", Probability: 0.8}, {Label: "cat", Probability: 0.2},
		}},
		Tensor: image.NewGray(image.Rect(0, 0, 64, 64)),
	}
}

func TestWrite(t *testing.T) {
	gen := CreatePdfGenerator("", PdfGeneratorOptions{AddPageNumbers: true, LineWidth: 6})

	var buf bytes.Buffer
	require.NoError(t, gen.Write(&buf, []Page{testPage(), {Title: "empty", Sketch: &sketch.Sketch{}}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, CreatePdfGenerator(out, PdfGeneratorOptions{}).Generate([]Page{testPage()}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteRejectsEmpty(t *testing.T) {
	gen := CreatePdfGenerator("", PdfGeneratorOptions{})
	assert.Error(t, gen.Write(&bytes.Buffer{}, nil))
	assert.Error(t, gen.Write(&bytes.Buffer{}, []Page{{Title: "no sketch"}}))
}

func TestRankingLines(t *testing.T) {
	assert.Equal(t, []string{"not recognized"}, rankingLines(nil))

	lines := rankingLines(testPage().Prediction)
	require.Len(t, lines, 3)
	assert.Equal(t, "prediction: apple (80.0%)", lines[0])
	assert.Contains(t, lines[2], "cat")
}
