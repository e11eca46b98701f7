package predict

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/juruen/quickdraw/log"
	"github.com/juruen/quickdraw/model"
)

// BatchResult is the outcome of one sketch of a batch.
type BatchResult struct {
	Prediction *model.Prediction `json:"prediction,omitempty"`
	Err        error             `json:"-"`
}

// PredictBatch classifies sketches concurrently. Results are index-aligned
// with the input; a cancelled context marks the remaining sketches with the
// context error.
func (d *Dispatcher) PredictBatch(ctx context.Context, sketches [][]model.Point) []BatchResult {
	results := make([]BatchResult, len(sketches))

	sem := semaphore.NewWeighted(d.concurrency)
	for i := range sketches {
		err := ctx.Err()
		if err == nil {
			err = sem.Acquire(ctx, 1)
		}
		if err != nil {
			log.Trace.Printf("predict: batch stopped at sketch %d: %v", i, err)
			for j := i; j < len(sketches); j++ {
				results[j].Err = err
			}
			break
		}
		go func(i int) {
			defer sem.Release(1)
			pred, err := d.Predict(ctx, sketches[i])
			if err != nil {
				log.Trace.Printf("predict: sketch %d: %v", i, err)
			}
			results[i] = BatchResult{Prediction: pred, Err: err}
		}(i)
	}

	// wait for all goroutines to finish
	if err := sem.Acquire(context.Background(), d.concurrency); err != nil {
		log.Trace.Printf("predict: failed to acquire semaphore: %v", err)
	}
	return results
}
