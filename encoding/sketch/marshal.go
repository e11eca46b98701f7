package sketch

import (
	"bytes"
	"encoding/binary"
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Sketch) MarshalBinary() ([]byte, error) {
	w := new(writer)

	w.writeHeader()
	w.writeNumber(s.Width)
	w.writeNumber(s.Height)
	w.writeNumber(len(s.Strokes))

	for _, stroke := range s.Strokes {
		w.writeNumber(len(stroke))
		for _, p := range stroke {
			w.writeFloat32(float32(p.X))
			w.writeFloat32(float32(p.Y))
		}
	}

	return w.Bytes(), nil
}

type writer struct {
	b bytes.Buffer
}

func (w *writer) Bytes() []byte {
	return w.b.Bytes()
}

func (w *writer) writeHeader() {
	w.b.WriteString(header)
}

func (w *writer) writeNumber(n int) {
	binary.Write(&w.b, binary.LittleEndian, uint32(n))
}

func (w *writer) writeFloat32(f float32) {
	binary.Write(&w.b, binary.LittleEndian, f)
}
