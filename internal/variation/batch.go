// Package variation fans one base image out into N audience-segment
// variations generated in parallel, each tracked and retryable on its
// own.
package variation

import (
	"context"
	"strings"
	"sync"

	"banner-editor/internal/domain"
)

// Status is the lifecycle of one segment's generation. Every index
// moves loading -> (success | error), optionally looping through
// loading again on retry; it never skips loading.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Aggregate is derived from the per-index statuses and never stored
// separately, so it cannot desynchronize.
type Aggregate string

const (
	AggregateAllSuccess Aggregate = "all_success"
	AggregatePartial    Aggregate = "partial"
	AggregateAllError   Aggregate = "all_error"
	AggregatePending    Aggregate = "pending"
)

// Result is the settled (or in-flight) state of one segment, indexed by
// the segment's position at dispatch time. Results are updated in place
// and never reordered.
type Result struct {
	Status   Status `json:"status"`
	ImageURL string `json:"image_url,omitempty"`
	ImageID  string `json:"image_id,omitempty"`
	Error    string `json:"error,omitempty"`
	Angle    string `json:"angle"`
}

// Request is what the batch needs from the generation service per
// segment.
type Request struct {
	Prompt         string
	ReferenceImage string
	TargetWidth    int
	TargetHeight   int
	SegmentLabel   string
}

// Generator is the slice of the generation service the batch needs.
type Generator interface {
	GenerateVariation(ctx context.Context, req Request) (imageURL, imageID string, err error)
}

// Options seeds a batch.
type Options struct {
	BaseImage   string
	Prompt      string
	Segments    []string
	Width       int
	Height      int
	MinSegments int
	MaxSegments int
}

// Batch runs N independent generation requests and tracks each one by
// index. A single failing segment never fails the batch.
type Batch struct {
	mu        sync.Mutex
	base      string
	prompt    string
	width     int
	height    int
	segments  []string
	results   []Result
	completed int
	gen       Generator
}

// New validates the segment list (blanks trimmed away) against the
// configured limits and initializes every index to loading.
func New(gen Generator, opts Options) (*Batch, error) {
	segments := make([]string, 0, len(opts.Segments))
	for _, s := range opts.Segments {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	min := opts.MinSegments
	if min < 2 {
		min = 2
	}
	if len(segments) < min {
		return nil, domain.ErrBatchTooSmall
	}
	if opts.MaxSegments > 0 && len(segments) > opts.MaxSegments {
		return nil, domain.ErrBatchTooLarge
	}

	results := make([]Result, len(segments))
	for i, s := range segments {
		results[i] = Result{Status: StatusLoading, Angle: s}
	}
	return &Batch{
		base:     opts.BaseImage,
		prompt:   opts.Prompt,
		width:    opts.Width,
		height:   opts.Height,
		segments: segments,
		results:  results,
		gen:      gen,
	}, nil
}

// Run dispatches every segment concurrently and waits for all of them
// to settle, success or error. The orchestrator imposes no throttling.
func (b *Batch) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := range b.segments {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.dispatch(ctx, i)
		}(i)
	}
	wg.Wait()
}

// dispatch settles exactly one index and bumps the completed count
// exactly once.
func (b *Batch) dispatch(ctx context.Context, i int) {
	url, id, err := b.gen.GenerateVariation(ctx, Request{
		Prompt:         b.prompt,
		ReferenceImage: b.base,
		TargetWidth:    b.width,
		TargetHeight:   b.height,
		SegmentLabel:   b.segments[i],
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.results[i].Status = StatusError
		b.results[i].Error = err.Error()
	} else {
		b.results[i].Status = StatusSuccess
		b.results[i].ImageURL = url
		b.results[i].ImageID = id
		b.results[i].Error = ""
	}
	b.completed++
}

// Retry resets a single settled index back to loading and re-dispatches
// only that request. Retrying an index that is still loading is a
// caller error.
func (b *Batch) Retry(ctx context.Context, index int) error {
	b.mu.Lock()
	if index < 0 || index >= len(b.results) {
		b.mu.Unlock()
		return domain.ErrNotFound
	}
	if b.results[index].Status == StatusLoading {
		b.mu.Unlock()
		return domain.ErrRetryInFlight
	}
	b.results[index] = Result{Status: StatusLoading, Angle: b.segments[index]}
	b.completed--
	b.mu.Unlock()

	b.dispatch(ctx, index)
	return nil
}

// Adopt returns the image of a successful index for the caller to take
// as the current image. Any other status is not adoptable.
func (b *Batch) Adopt(index int) (imageURL, imageID string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.results) {
		return "", "", domain.ErrNotFound
	}
	r := b.results[index]
	if r.Status != StatusSuccess {
		return "", "", domain.ErrNotAdoptable
	}
	return r.ImageURL, r.ImageID, nil
}

// Results returns a copy of the per-index results in dispatch order.
func (b *Batch) Results() []Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Result, len(b.results))
	copy(out, b.results)
	return out
}

// CompletedCount reports how many indices have settled. It reaches the
// segment count exactly when every request has settled.
func (b *Batch) CompletedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed
}

// Len reports the number of segments in the batch.
func (b *Batch) Len() int {
	return len(b.segments)
}

// Aggregate derives the batch status from the per-index results.
func (b *Batch) Aggregate() Aggregate {
	b.mu.Lock()
	defer b.mu.Unlock()
	var succeeded, failed int
	for _, r := range b.results {
		switch r.Status {
		case StatusSuccess:
			succeeded++
		case StatusError:
			failed++
		}
	}
	switch {
	case succeeded+failed < len(b.results):
		return AggregatePending
	case failed == 0:
		return AggregateAllSuccess
	case succeeded == 0:
		return AggregateAllError
	default:
		return AggregatePartial
	}
}
