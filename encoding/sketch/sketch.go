// Package sketch stores drawings on disk: a compact binary .lines format and
// the JSON point stream the web front-end posts.
package sketch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/model"
)

const (
	HeaderLen = 43
	Version   = 1

	ExtLines = ".lines"
	ExtJSON  = ".json"
)

var header = fmt.Sprintf("%-*s", HeaderLen, fmt.Sprintf("quickdraw .lines file, version=%d", Version))

// Sketch is a drawing together with the canvas it was captured on.
type Sketch struct {
	Width   int
	Height  int
	Strokes []model.Stroke
}

// FromPoints groups a point stream into strokes at its end markers only.
func FromPoints(points []model.Point, width, height int) *Sketch {
	s := &Sketch{Width: width, Height: height}
	var current model.Stroke
	for _, p := range points {
		if p.StrokeEnd {
			if len(current) > 0 {
				s.Strokes = append(s.Strokes, current)
				current = nil
			}
			continue
		}
		current = append(current, model.Point{X: p.X, Y: p.Y})
	}
	if len(current) > 0 {
		s.Strokes = append(s.Strokes, current)
	}
	return s
}

// Points flattens the sketch, closing every stroke with an end marker.
func (s *Sketch) Points() []model.Point {
	var points []model.Point
	for _, stroke := range s.Strokes {
		points = append(points, stroke...)
		points = append(points, model.Point{StrokeEnd: true})
	}
	return points
}

func (s *Sketch) NumPoints() int {
	n := 0
	for _, stroke := range s.Strokes {
		n += len(stroke)
	}
	return n
}

// Decode picks the codec from the file extension.
func Decode(name string, data []byte) (*Sketch, error) {
	s := &Sketch{}
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtLines:
		if err := s.UnmarshalBinary(data); err != nil {
			return nil, errors.Wrapf(err, "can't decode %s", name)
		}
	case ExtJSON:
		if err := s.UnmarshalJSON(data); err != nil {
			return nil, errors.Wrapf(err, "can't decode %s", name)
		}
	default:
		return nil, errors.Errorf("unsupported sketch file %s", name)
	}
	return s, nil
}

// Encode is the counterpart of Decode.
func Encode(name string, s *Sketch) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtLines:
		return s.MarshalBinary()
	case ExtJSON:
		return s.MarshalJSON()
	}
	return nil, errors.Errorf("unsupported sketch file %s", name)
}
