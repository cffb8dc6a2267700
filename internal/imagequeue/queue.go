// Package imagequeue tracks in-flight scene image generation and runs
// best-effort batch generation. Duplicate requests for a scene already being
// generated are rejected instead of queued.
package imagequeue

import (
	"context"
	"errors"
	"sync"

	"contentos/internal/gateway"
	"contentos/internal/models"
)

// ErrAlreadyGenerating rejects a request for an id that is still in flight.
var ErrAlreadyGenerating = errors.New("image generation already in progress for this scene")

// Queue serializes per-scene generation without blocking distinct scenes.
type Queue struct {
	ai *gateway.AIGateway

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewQueue builds a queue over the AI gateway.
func NewQueue(ai *gateway.AIGateway) *Queue {
	return &Queue{
		ai:       ai,
		inFlight: make(map[string]struct{}),
	}
}

// IsGenerating reports whether an id is currently in flight.
func (q *Queue) IsGenerating(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.inFlight[id]
	return ok
}

// Count returns the number of in-flight generations.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inFlight)
}

// Generate runs one image generation for id, holding its in-flight slot for
// the duration. A second call for the same id fails fast with
// ErrAlreadyGenerating.
func (q *Queue) Generate(ctx context.Context, id, prompt string) (models.GenerateResponse, error) {
	if err := q.acquire(id); err != nil {
		return models.GenerateResponse{}, err
	}
	defer q.release(id)

	resp := q.ai.Generate(ctx, models.GenerateRequest{
		Prompt: prompt,
		Type:   models.GenerateImage,
	})
	return resp, nil
}

// BatchItem pairs a scene id with its prompt.
type BatchItem struct {
	ID     string
	Prompt string
}

// BatchResult is the outcome for one batch item.
type BatchResult struct {
	ID       string                  `json:"id"`
	Response models.GenerateResponse `json:"response"`
	Err      string                  `json:"error,omitempty"`
}

// GenerateAll runs the batch in parallel, best effort: items already in
// flight are reported as errors in their slot and the rest proceed. Results
// are returned in input order.
func (q *Queue) GenerateAll(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			resp, err := q.Generate(ctx, item.ID, item.Prompt)
			results[i] = BatchResult{ID: item.ID, Response: resp}
			if err != nil {
				results[i].Err = err.Error()
			}
		}(i, item)
	}

	wg.Wait()
	return results
}

func (q *Queue) acquire(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.inFlight[id]; ok {
		return ErrAlreadyGenerating
	}
	q.inFlight[id] = struct{}{}
	return nil
}

func (q *Queue) release(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inFlight, id)
}
