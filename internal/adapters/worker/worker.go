package worker

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/okian/epiherd/pkg/logger"
	"github.com/okian/epiherd/pkg/metrics"
)

// Pool splits an index range into contiguous partitions, one per worker.
// Each partition is processed in ascending order by a single goroutine.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool with size workers, defaulting to runtime.NumCPU().
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}

	p := &Pool{
		size: size,
		name: "worker-pool",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}

	metrics.UpdateWorkerCount(size)

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run calls fn for every index in [0, n). The first error cancels the
// context passed to the remaining calls and is returned.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if fn == nil {
		return ErrNilFunc
	}
	if n <= 0 {
		return nil
	}

	workers := min(p.size, n)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(gctx, i); err != nil {
					return fmt.Errorf("index %d: %w", i, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "partitioned run failed",
			logger.Int("workers", workers),
			logger.Int("items", n),
			logger.Error(err),
		)
		return err
	}
	return nil
}
