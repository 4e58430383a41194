// Package workerpool runs independent tasks with bounded concurrency.
//
// Tasks cannot fail the group: each task returns its own result value and
// callers encode failures inside it. No task is ever cancelled because a
// sibling misbehaved.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every item using at most limit goroutines and returns the
// results in input order. A non-positive limit runs one goroutine per item.
func Map[T any, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
