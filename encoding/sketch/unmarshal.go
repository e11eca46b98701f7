package sketch

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/model"
)

const pointSize = 8

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Sketch) UnmarshalBinary(data []byte) error {
	r := reader{bytes.NewReader(data)}
	if err := r.checkHeader(); err != nil {
		return err
	}

	width, err := r.readNumber()
	if err != nil {
		return err
	}
	height, err := r.readNumber()
	if err != nil {
		return err
	}
	nbStrokes, err := r.readNumber()
	if err != nil {
		return err
	}
	// every stroke takes at least its point count
	if int64(nbStrokes)*4 > int64(r.Len()) {
		return errors.Errorf("stroke count %d exceeds file size", nbStrokes)
	}

	s.Width, s.Height = int(width), int(height)
	s.Strokes = make([]model.Stroke, 0, nbStrokes)
	for i := uint32(0); i < nbStrokes; i++ {
		stroke, err := r.readStroke()
		if err != nil {
			return errors.Wrapf(err, "stroke %d", i)
		}
		if len(stroke) > 0 {
			s.Strokes = append(s.Strokes, stroke)
		}
	}

	return nil
}

type reader struct {
	*bytes.Reader
}

func (r reader) checkHeader() error {
	buf := make([]byte, HeaderLen)
	n, err := r.Read(buf)
	if err != nil {
		return errors.Wrap(err, "can't read header")
	}
	if n != HeaderLen {
		return errors.New("wrong header size")
	}
	if string(buf) != header {
		if strings.HasPrefix(string(buf), "quickdraw .lines file") {
			return errors.Errorf("unsupported version: %q", strings.TrimSpace(string(buf)))
		}
		return errors.New("unknown header")
	}
	return nil
}

func (r reader) readNumber() (uint32, error) {
	var nb uint32
	if err := binary.Read(r, binary.LittleEndian, &nb); err != nil {
		return 0, errors.New("wrong number read")
	}
	return nb, nil
}

func (r reader) readStroke() (model.Stroke, error) {
	nbPoints, err := r.readNumber()
	if err != nil {
		return nil, err
	}
	if int64(nbPoints)*pointSize > int64(r.Len()) {
		return nil, errors.Errorf("point count %d exceeds file size", nbPoints)
	}

	stroke := make(model.Stroke, nbPoints)
	for i := range stroke {
		var xy [2]float32
		if err := binary.Read(r, binary.LittleEndian, &xy); err != nil {
			return nil, errors.New("failed to read point")
		}
		stroke[i] = model.Point{X: float64(xy[0]), Y: float64(xy[1])}
	}
	return stroke, nil
}
