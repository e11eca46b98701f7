package predict

import (
	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/preprocess"
)

var (
	ErrEmptyInput        = preprocess.ErrEmptyInput
	ErrDegenerateContent = preprocess.ErrDegenerateContent

	// ErrShapeMismatch is returned when the tensor still disagrees with the
	// classifier input shape after one corrective resize.
	ErrShapeMismatch = errors.New("tensor shape does not match classifier input")

	// ErrClassifierFailure wraps any error raised by the classifier. A
	// placeholder prediction is returned alongside it.
	ErrClassifierFailure = errors.New("classifier failure")
)
