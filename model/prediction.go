package model

// UnknownLabel is reported when no prediction could be made.
const UnknownLabel = "unknown"

// Ranked is one entry of a prediction ranking.
type Ranked struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Prediction is the labelled classifier output for one sketch.
type Prediction struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Ranked     []Ranked `json:"ranked"`
}

// Unknown is the low-confidence placeholder returned with classifier failures.
func Unknown() *Prediction {
	return &Prediction{Label: UnknownLabel, Confidence: 0, Ranked: []Ranked{}}
}
