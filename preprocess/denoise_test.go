package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juruen/quickdraw/model"
)

func fillRect(img *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[y*img.Stride+x] = v
		}
	}
}

func TestOtsuThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	fillRect(img, image.Rect(0, 0, 20, 10), 40)
	fillRect(img, image.Rect(0, 10, 20, 20), 200)

	th := OtsuThreshold(img)
	assert.GreaterOrEqual(t, th, uint8(40))
	assert.Less(t, th, uint8(200))

	mask := Binarize(img, th)
	assert.Equal(t, uint8(0), mask.GrayAt(5, 5).Y)
	assert.Equal(t, uint8(255), mask.GrayAt(5, 15).Y)
}

func TestOtsuThresholdBinaryImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	fillRect(img, image.Rect(2, 2, 5, 5), 255)

	// the first maximum sits on the background level
	assert.Equal(t, uint8(0), OtsuThreshold(img))
	assert.Equal(t, 9, countAbove(Binarize(img, 0), 0))
}

func TestOtsuThresholdBlank(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	th := OtsuThreshold(img)
	assert.Equal(t, uint8(0), th)
	assert.Equal(t, 0, countAbove(Binarize(img, th), 0))
}

func TestMedianFilterRemovesSpeckle(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	img.SetGray(3, 3, color.Gray{Y: 255})
	fillRect(img, image.Rect(10, 10, 25, 25), 255)

	out := MedianFilter(img, 5)
	assert.Zero(t, out.GrayAt(3, 3).Y)
	assert.Equal(t, uint8(255), out.GrayAt(17, 17).Y)
	assert.Equal(t, uint8(255), out.GrayAt(11, 11).Y, "block interior near the corner survives")
	assert.Zero(t, out.GrayAt(5, 20).Y)
}

func TestMedianFilterEdgesReplicate(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	fillRect(img, image.Rect(0, 0, 10, 10), 77)

	out := MedianFilter(img, 7)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(77), v)
	}
}

func TestMedianFilterSizeOne(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Pix[5] = 9
	out := MedianFilter(img, 1)
	assert.Equal(t, img.Pix, out.Pix)
	assert.NotSame(t, img, out)
}

func TestGaussianBlurKeepsUniform(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 12, 8))
	fillRect(img, img.Bounds(), 123)

	out := GaussianBlur(img, 5)
	for _, v := range out.Pix {
		assert.InDelta(t, 123, float64(v), 1)
	}
}

func TestGaussianBlurSpreadsImpulse(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 11, 11))
	img.Pix[5*11+5] = 255

	out := GaussianBlur(img, 5)
	centre := out.GrayAt(5, 5).Y
	assert.Less(t, centre, uint8(255))
	assert.Greater(t, centre, uint8(0))
	assert.GreaterOrEqual(t, centre, out.GrayAt(6, 5).Y)
	assert.Equal(t, out.GrayAt(6, 5).Y, out.GrayAt(4, 5).Y)
	assert.Equal(t, out.GrayAt(5, 6).Y, out.GrayAt(5, 4).Y)
	assert.InDelta(t, float64(out.GrayAt(5, 6).Y), float64(out.GrayAt(6, 5).Y), 1)

	// a 5-tap kernel reaches two pixels out
	assert.Greater(t, out.GrayAt(7, 5).Y, uint8(0))
	assert.Zero(t, out.GrayAt(8, 5).Y)
	assert.Zero(t, out.GrayAt(0, 0).Y)
}

func TestGaussianBlurSizeOne(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Pix[5] = 9
	out := GaussianBlur(img, 1)
	assert.Equal(t, img.Pix, out.Pix)
	assert.NotSame(t, img, out)
}

func TestMedianFilterKeepsLineWidthDot(t *testing.T) {
	canvas, err := Rasterize([]model.Stroke{{pt(20, 20)}}, 40, 40, 6)
	if !assert.NoError(t, err) {
		return
	}

	out := MedianFilter(canvas, DefaultParams().Median())
	assert.Greater(t, countAbove(out, 127), 12)
	assert.Equal(t, uint8(255), out.GrayAt(20, 20).Y)
}

func TestDenoiseDeterministic(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	fillRect(img, image.Rect(5, 5, 30, 12), 255)
	img.SetGray(35, 35, color.Gray{Y: 255})

	mask1, t1 := Denoise(img, 5, 5)
	mask2, t2 := Denoise(img, 5, 5)
	assert.Equal(t, t1, t2)
	assert.Equal(t, mask1.Pix, mask2.Pix)

	assert.Zero(t, mask1.GrayAt(35, 35).Y)
	assert.Equal(t, uint8(255), mask1.GrayAt(15, 8).Y)
	for _, v := range mask1.Pix {
		assert.True(t, v == 0 || v == 255)
	}
}
