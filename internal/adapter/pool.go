package adapter

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// forEachLimit runs fn over items with at most limit calls in flight.
// Workers pull the next unclaimed index instead of working on pre-chunked
// slices, so one slow item never blocks fast ones from starting. Results
// land in original index order.
func forEachLimit[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > len(items) {
		limit = len(items)
	}

	results := make([]R, len(items))
	var next atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < limit; w++ {
		g.Go(func() error {
			for {
				i := int(next.Add(1)) - 1
				if i >= len(items) {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := fn(ctx, items[i])
				if err != nil {
					return err
				}
				results[i] = r
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
