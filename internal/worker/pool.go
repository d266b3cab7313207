// Package worker provides bounded fan-out for per-record pipeline stages.
package worker

import (
	"context"
	"sync"
)

// Pool runs independent per-record tasks with a fixed concurrency bound so
// external-service rate limits are respected.
type Pool struct {
	size int
}

// NewPool creates a pool with the given worker count.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Run executes fn for every index in [0, n) across at most size goroutines
// and blocks until all started tasks return. Tasks write their results into
// caller-owned slices by index, so the caller's ordering survives whatever
// completion order the workers produce. Once ctx is cancelled no new indices
// are handed out; Run then waits for in-flight tasks and returns ctx.Err(),
// letting the caller discard partial state cleanly.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if n <= 0 {
		return ctx.Err()
	}

	indices := make(chan int)
	var wg sync.WaitGroup

	workers := p.size
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(ctx, i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	return ctx.Err()
}
