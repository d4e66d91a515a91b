package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Concurrency runs do for every index in [0, count) with at most weight
// calls in flight. The first error cancels the context handed to the
// remaining calls and is returned once all of them have finished.
func Concurrency(
	ctx context.Context,
	weight int64,
	count int,
	do func(ctx context.Context, index int) error,
) error {
	group, groupCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(weight)

	for i := 0; i < count; i++ {
		if err := sem.Acquire(groupCtx, 1); err != nil {
			if waitErr := group.Wait(); waitErr != nil {
				return waitErr
			}
			return err
		}
		index := i
		group.Go(func() error {
			defer sem.Release(1)
			return do(groupCtx, index)
		})
	}
	return group.Wait()
}
