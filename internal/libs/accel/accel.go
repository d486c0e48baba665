// Package accel provides utilities for accelerated batch processing.
package accel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultSize is the number of tasks a Batch runs at once when none is given.
const DefaultSize = 4

// Batch runs indexed tasks concurrently with a bounded number in flight
type Batch struct {
	size int
}

// NewBatch creates a new batch runner with the given concurrency
func NewBatch(size int) *Batch {
	if size <= 0 {
		size = DefaultSize
	}
	return &Batch{size: size}
}

// Size returns the batch concurrency
func (b *Batch) Size() int {
	return b.size
}

// Run calls fn for every index in [0, n) and waits for all calls to return.
// The first error cancels the context passed to the remaining calls and is
// returned. Callers that tolerate partial failure record errors themselves
// and return nil.
func (b *Batch) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.size)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i)
		})
	}
	return g.Wait()
}
