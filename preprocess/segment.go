package preprocess

import "github.com/juruen/quickdraw/model"

// Segment splits an ordered point stream into strokes.
//
// A point flagged StrokeEnd closes the current stroke and is dropped. A point
// farther than gap from its predecessor starts a new stroke; gap <= 0
// disables the heuristic.
func Segment(points []model.Point, gap float64) []model.Stroke {
	var strokes []model.Stroke
	var current model.Stroke

	flush := func() {
		if len(current) > 0 {
			strokes = append(strokes, current)
			current = nil
		}
	}

	for _, p := range points {
		if p.StrokeEnd {
			flush()
			continue
		}
		if n := len(current); n > 0 && gap > 0 && current[n-1].Dist(p) > gap {
			flush()
		}
		current = append(current, p)
	}
	flush()

	return strokes
}

// Scale maps points captured on a fromW x fromH surface onto a toW x toH canvas.
func Scale(points []model.Point, fromW, fromH, toW, toH int) []model.Point {
	if fromW <= 0 || fromH <= 0 || (fromW == toW && fromH == toH) {
		return points
	}
	sx := float64(toW) / float64(fromW)
	sy := float64(toH) / float64(fromH)

	scaled := make([]model.Point, len(points))
	for i, p := range points {
		scaled[i] = model.Point{X: p.X * sx, Y: p.Y * sy, StrokeEnd: p.StrokeEnd}
	}
	return scaled
}
