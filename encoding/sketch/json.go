package sketch

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/juruen/quickdraw/model"
)

// Drawing is the JSON form of a sketch, as posted by the web front-end.
type Drawing struct {
	Drawing []model.Point `json:"drawing"`
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
}

func (s *Sketch) MarshalJSON() ([]byte, error) {
	return json.Marshal(Drawing{Drawing: s.Points(), Width: s.Width, Height: s.Height})
}

// UnmarshalJSON accepts either a Drawing object or a bare array of points.
func (s *Sketch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var d Drawing
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &d.Drawing); err != nil {
			return errors.Wrap(err, "can't parse points")
		}
	} else if err := json.Unmarshal(data, &d); err != nil {
		return errors.Wrap(err, "can't parse drawing")
	}

	*s = *FromPoints(d.Drawing, d.Width, d.Height)
	return nil
}
