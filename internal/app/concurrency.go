package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Parallel2 executes two functions concurrently and returns both results or the first error.
// The context passed to each function is canceled as soon as either fails.
//
// Example:
//
//	q, votes, err := Parallel2(ctx,
//	    func(ctx context.Context) (*domain.Quote, error) { return quotes.GetByID(ctx, id) },
//	    func(ctx context.Context) ([]domain.Vote, error) { return votes.ForQuotes(ctx, ids) },
//	)
func Parallel2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (result1 T1, result2 T2, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var fnErr error

		result1, fnErr = fn1(ctx)

		return fnErr
	})

	g.Go(func() error {
		var fnErr error

		result2, fnErr = fn2(ctx)

		return fnErr
	})

	err = g.Wait()
	if err != nil {
		var (
			zero1 T1
			zero2 T2
		)

		return zero1, zero2, fmt.Errorf("parallel execution failed: %w", err)
	}

	return result1, result2, nil
}
