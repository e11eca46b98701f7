package model

import (
	"fmt"
	"math"
)

// Shape is a rank-4 tensor layout: batch, height, width, channel.
type Shape [4]int

// ImageShape returns the (1, h, w, 1) layout used for single grayscale images.
func ImageShape(h, w int) Shape {
	return Shape{1, h, w, 1}
}

func (s Shape) Height() int { return s[1] }
func (s Shape) Width() int  { return s[2] }

func (s Shape) Size() int {
	return s[0] * s[1] * s[2] * s[3]
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", s[0], s[1], s[2], s[3])
}

// Tensor holds row-major float32 data laid out according to Shape.
type Tensor struct {
	Shape Shape     `json:"shape"`
	Data  []float32 `json:"data"`
}

func NewTensor(shape Shape) Tensor {
	return Tensor{Shape: shape, Data: make([]float32, shape.Size())}
}

// At returns the value at row y, column x of a single-image tensor.
func (t Tensor) At(y, x int) float32 {
	return t.Data[y*t.Shape[2]+x]
}

func (t Tensor) Sum() float64 {
	var sum float64
	for _, v := range t.Data {
		sum += float64(v)
	}
	return sum
}

// Valid reports whether the data length matches the shape and every value
// is a finite number in [0, 1].
func (t Tensor) Valid() bool {
	if len(t.Data) != t.Shape.Size() {
		return false
	}
	for _, v := range t.Data {
		f := float64(v)
		if math.IsNaN(f) || f < 0 || f > 1 {
			return false
		}
	}
	return true
}

// Rows returns the tensor as [height][width] for a single-image tensor.
func (t Tensor) Rows() [][]float32 {
	h, w := t.Shape[1], t.Shape[2]
	rows := make([][]float32, h)
	for y := 0; y < h; y++ {
		rows[y] = t.Data[y*w : (y+1)*w]
	}
	return rows
}
