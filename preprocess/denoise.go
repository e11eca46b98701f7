package preprocess

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Denoise removes rasterization speckle and returns a binary mask (0 or 255)
// together with the threshold that produced it.
func Denoise(canvas *image.Gray, medianSize, gaussianSize int) (*image.Gray, uint8) {
	smoothed := GaussianBlur(MedianFilter(canvas, medianSize), gaussianSize)
	t := OtsuThreshold(smoothed)
	return Binarize(smoothed, t), t
}

// MedianFilter applies a size x size median filter with replicated edges.
func MedianFilter(src *image.Gray, size int) *image.Gray {
	if size <= 1 || src.Bounds().Empty() {
		return cloneGray(src)
	}
	return toGray(effect.Median(src, float64(size/2)))
}

// GaussianBlur smooths src with a separable Gaussian kernel of size taps and
// replicated edges.
func GaussianBlur(src *image.Gray, size int) *image.Gray {
	if size <= 1 || src.Bounds().Empty() {
		return cloneGray(src)
	}
	return toGray(blur.Gaussian(src, float64(size/2)))
}

// OtsuThreshold returns the intensity that maximizes the between-class
// variance of the histogram. Pixels strictly above it are foreground.
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[grayAt(img, x, y)]++
		}
	}

	total := w * h
	var sum float64
	for v, n := range hist {
		sum += float64(v * n)
	}

	var (
		sumB, best float64
		weightB    int
		threshold  uint8
	)
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * hist[t])

		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			threshold = uint8(t)
		}
	}
	return threshold
}

// Binarize maps pixels above t to 255 and everything else to 0.
func Binarize(img *image.Gray, t uint8) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if grayAt(img, x, y) > t {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

// grayAt reads the pixel at (x, y) relative to img.Rect.Min. Pix of a
// sub-image already starts at Min.
func grayAt(img *image.Gray, x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

func cloneGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	copyGray(dst, src)
	return dst
}

func copyGray(dst, src *image.Gray) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
