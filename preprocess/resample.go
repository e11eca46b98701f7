package preprocess

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/juruen/quickdraw/model"
)

// Crop copies the box region of img into a new image anchored at (0, 0).
// The box is clipped to the image; an empty intersection yields the whole image.
func Crop(img *image.Gray, box model.BoundingBox) *image.Gray {
	b := img.Bounds()
	r := box.Rect().Add(b.Min).Intersect(b)
	if r.Empty() {
		r = b
	}

	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	sub := img.SubImage(r).(*image.Gray)
	copyGray(out, sub)
	return out
}

// Resample resizes img to exactly width x height with a Lanczos3 kernel.
// Aspect ratio is not preserved.
func Resample(img *image.Gray, width, height int) *image.Gray {
	// the resizer indexes Pix from zero, so only zero-origin images go in
	if img.Rect.Min != (image.Point{}) {
		img = Crop(img, model.BoundingBox{Width: img.Rect.Dx(), Height: img.Rect.Dy()})
	}
	return toGray(resize.Resize(uint(width), uint(height), img, resize.Lanczos3))
}

// Normalize scales intensities to [0, 1] in a (1, H, W, 1) tensor.
func Normalize(img *image.Gray) model.Tensor {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	t := model.NewTensor(model.ImageShape(h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.Data[y*w+x] = float32(grayAt(img, x, y)) / 255
		}
	}
	return t
}

// Denormalize turns a single-image tensor back into an 8-bit image.
func Denormalize(t model.Tensor) *image.Gray {
	h, w := t.Shape.Height(), t.Shape.Width()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range t.Data[:w*h] {
		img.Pix[i] = clampUint8(float64(v) * 255)
	}
	return img
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// for inspecting tensors by eye.
func Upscale(img *image.Gray, factor int) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
