// Package concur provides the bounded fan-out helper shared by the pipeline's
// disjoint-file stages (C3, C4, C6).
package concur

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds how many goroutines Each runs at once when limit <= 0.
const DefaultLimit = 8

// Each runs fn once per item, at most limit at a time, and returns the first
// error encountered (errgroup cancels the others' context but does not stop
// already-started work, matching the rest-of-the-group continues to completion
// semantics the disjoint-file stages rely on). limit <= 0 uses DefaultLimit.
func Each[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) error {
	if limit <= 0 {
		limit = DefaultLimit
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, item := range items {
		item := item
		g.Go(func() error {
			return fn(gctx, item)
		})
	}
	return g.Wait()
}
