package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
)

// Client talks to a model server exposing
//
//	GET  <url>/v1/models/<name>/metadata
//	POST <url>/v1/models/<name>:predict
type Client struct {
	url      *url.URL
	name     string
	client   *http.Client
	metadata Metadata
	shape    model.Shape
}

// NewClient fetches the model metadata once. Any failure is reported as
// ErrModelUnavailable.
func NewClient(ctx context.Context, rawURL, name string, client *http.Client) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", ErrModelUnavailable, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrModelUnavailable, rawURL)
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &Client{url: u, name: name, client: client}
	if err := c.fetchMetadata(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	log.Info.Printf("classifier: model %s at %s, input %s, %d classes",
		name, u.Redacted(), c.shape, len(c.metadata.Classes))
	return c, nil
}

func (c *Client) fetchMetadata(ctx context.Context) error {
	endpoint := c.url.JoinPath("v1", "models", c.name, "metadata").String()
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	var md Metadata
	if err := json.Unmarshal(body, &md); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	if len(md.InputShape) != 4 {
		return fmt.Errorf("unexpected input shape %v", md.InputShape)
	}

	// a dynamic batch dimension is reported as -1 or 0
	shape := model.Shape{1, md.InputShape[1], md.InputShape[2], md.InputShape[3]}
	if shape.Height() <= 0 || shape.Width() <= 0 || shape[3] != 1 {
		return fmt.Errorf("unsupported input shape %v", md.InputShape)
	}

	c.metadata = md
	c.shape = shape
	return nil
}

func (c *Client) InputShape() model.Shape {
	return c.shape
}

func (c *Client) Metadata() Metadata {
	return c.metadata
}

// Classify sends a single tensor and returns its probability vector.
func (c *Client) Classify(ctx context.Context, t model.Tensor) ([]float64, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tensor of shape %s", t.Shape)
	}

	data, err := json.Marshal(PredictRequest{Instances: [][][][]float32{instance(t)}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.url.JoinPath("v1", "models", c.name+":predict").String()
	body, err := c.do(ctx, http.MethodPost, endpoint, data)
	if err != nil {
		return nil, err
	}

	var resp PredictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("model server: %s", resp.Error)
	}
	if len(resp.Predictions) != 1 {
		return nil, fmt.Errorf("expected 1 prediction, got %d", len(resp.Predictions))
	}

	return resp.Predictions[0], nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, data []byte) ([]byte, error) {
	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: Status %d, Response: %s", res.StatusCode, string(body))
	}

	log.Trace.Printf("classifier: %s %s -> %d bytes", method, endpoint, len(body))
	return body, nil
}

// instance lays out a (1, H, W, 1) tensor as [H][W][1].
func instance(t model.Tensor) [][][]float32 {
	rows := t.Rows()
	img := make([][][]float32, len(rows))
	for y, row := range rows {
		img[y] = make([][]float32, len(row))
		for x, v := range row {
			img[y][x] = []float32{v}
		}
	}
	return img
}
