package classifier

// Wire types of the model server REST API.

// Metadata describes a served model.
type Metadata struct {
	Name       string   `json:"name"`
	Version    string   `json:"version,omitempty"`
	InputShape []int    `json:"input_shape"`
	Classes    []string `json:"classes,omitempty"`
}

// PredictRequest carries a batch of (H, W, 1) images.
type PredictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

// PredictResponse holds one probability vector per instance.
type PredictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}
