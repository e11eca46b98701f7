package shell

import (
	"encoding/json"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/juruen/quickdraw/archive"
	"github.com/juruen/quickdraw/model"
)

type SketchJSON struct {
	Index      int               `json:"index"`
	ID         string            `json:"id"`
	Expected   string            `json:"expected,omitempty"`
	Strokes    int               `json:"strokes"`
	Points     int               `json:"points"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
	Correct    *bool             `json:"correct,omitempty"`
}

func SketchToJSON(index int, item *archive.Item) SketchJSON {
	out := SketchJSON{
		Index:      index,
		ID:         item.ID,
		Expected:   item.Expected,
		Strokes:    len(item.Sketch.Strokes),
		Points:     item.Sketch.NumPoints(),
		Width:      item.Sketch.Width,
		Height:     item.Sketch.Height,
		Prediction: item.Prediction,
	}
	if item.Prediction != nil && item.Expected != "" {
		correct := isCorrect(item)
		out.Correct = &correct
	}
	return out
}

func printJSON(c *ishell.Context, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	c.Println(string(output))
	return nil
}

func displayItem(c *ishell.Context, index int, item *archive.Item) {
	id := item.ID
	if len(id) > 8 {
		id = id[:8]
	}
	expected := item.Expected
	if expected == "" {
		expected = "-"
	}
	c.Printf("%3d  %s  %-12s %3d strokes %5d points", index, id, expected, len(item.Sketch.Strokes), item.Sketch.NumPoints())
	if item.Prediction != nil {
		c.Printf("  -> %s (%.1f%%)%s", item.Prediction.Label, item.Prediction.Confidence*100, mark(item))
	}
	c.Println()
}

func displayPrediction(c *ishell.Context, pred *model.Prediction, top int) {
	c.Println(fmt.Sprintf("prediction: %s (%.1f%%)", pred.Label, pred.Confidence*100))
	for i, r := range pred.Ranked {
		if i == top {
			break
		}
		c.Printf("  %d. %-16s %6.2f%%\n", i+1, r.Label, r.Probability*100)
	}
}

func mark(item *archive.Item) string {
	if item.Expected == "" {
		return ""
	}
	if isCorrect(item) {
		return " ok"
	}
	return " wrong"
}
