package preprocess

import "github.com/pkg/errors"

// ErrEmptyInput is returned when no points were supplied.
var ErrEmptyInput = errors.New("empty input: no points supplied")

// ErrDegenerateContent is returned when segmentation leaves no strokes.
// It is treated as empty input: errors.Is(err, ErrEmptyInput) holds.
var ErrDegenerateContent error = degenerateContent{}

type degenerateContent struct{}

func (degenerateContent) Error() string {
	return "degenerate content: no strokes survived segmentation"
}

func (degenerateContent) Is(target error) bool {
	return target == ErrEmptyInput
}
