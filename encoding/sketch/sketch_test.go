package sketch

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/quickdraw/model"
)

func testSketch() *Sketch {
	line := make(model.Stroke, 0, 200)
	for i := 0; i < 200; i++ {
		line = append(line, model.Point{X: 100, Y: float64(i)})
	}
	return &Sketch{
		Width:  400,
		Height: 300,
		Strokes: []model.Stroke{
			line,
			{{X: 12.5, Y: 7.25}},
			{{X: 100, Y: 100}, {X: 1000, Y: 1000}},
		},
	}
}

func TestMarshalBinary(t *testing.T) {
	s := testSketch()

	data, err := s.MarshalBinary()
	require.NoError(t, err)

	assert.Len(t, data, HeaderLen+3*4+3*4+(200+1+2)*8)
	assert.Equal(t, "quickdraw .lines file, version=1", string(data[:32]))
	assert.Equal(t, uint32(400), binary.LittleEndian.Uint32(data[HeaderLen:]))

	var decoded Sketch
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, s, &decoded)
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	data, err := testSketch().MarshalBinary()
	require.NoError(t, err)

	var s Sketch
	assert.Error(t, s.UnmarshalBinary(data[:10]))
	assert.Error(t, s.UnmarshalBinary(data[:len(data)-3]))

	bad := append([]byte{}, data...)
	copy(bad, "not a sketch")
	assert.Error(t, s.UnmarshalBinary(bad))

	future := append([]byte{}, data...)
	copy(future[31:], "9")
	err = s.UnmarshalBinary(future)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")

	huge := append([]byte{}, data[:HeaderLen+8]...)
	huge = binary.LittleEndian.AppendUint32(huge, 1<<31)
	assert.Error(t, s.UnmarshalBinary(huge))
}

func TestPointsRoundTrip(t *testing.T) {
	points := []model.Point{
		{X: 1, Y: 1}, {X: 2, Y: 2}, {StrokeEnd: true},
		{StrokeEnd: true},
		{X: 3, Y: 3},
	}

	s := FromPoints(points, 400, 400)
	require.Len(t, s.Strokes, 2)
	assert.Equal(t, 3, s.NumPoints())
	assert.Equal(t, []model.Point{
		{X: 1, Y: 1}, {X: 2, Y: 2}, {StrokeEnd: true},
		{X: 3, Y: 3}, {StrokeEnd: true},
	}, s.Points())
}

func TestJSON(t *testing.T) {
	s := &Sketch{Width: 400, Height: 400, Strokes: []model.Stroke{{{X: 1, Y: 2}}, {{X: 3, Y: 4}, {X: 5, Y: 6}}}}

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":400,"height":400,"drawing":[
		{"x":1,"y":2},{"x":0,"y":0,"strokeEnd":true},
		{"x":3,"y":4},{"x":5,"y":6},{"x":0,"y":0,"strokeEnd":true}]}`, string(data))

	var decoded Sketch
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, s, &decoded)

	var bare Sketch
	require.NoError(t, bare.UnmarshalJSON([]byte(` [{"x":1,"y":2},{"x":3,"y":4}]`)))
	assert.Equal(t, []model.Stroke{{{X: 1, Y: 2}, {X: 3, Y: 4}}}, bare.Strokes)
	assert.Zero(t, bare.Width)

	assert.Error(t, bare.UnmarshalJSON([]byte(`{"drawing": 3}`)))
}

func TestDecodeByExtension(t *testing.T) {
	s := testSketch()
	for _, name := range []string{"a.lines", "b.JSON"} {
		data, err := Encode(name, s)
		require.NoError(t, err)
		decoded, err := Decode(name, data)
		require.NoError(t, err)
		assert.Equal(t, s, decoded, name)
	}

	_, err := Decode("c.png", nil)
	assert.Error(t, err)
	_, err = Encode("c.png", s)
	assert.Error(t, err)
}
