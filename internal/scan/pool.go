// Package scan implements the two-phase document scan: a validation pass
// that probes and repairs every candidate, then a search pass over the
// documents that survived.
package scan

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called after each item finishes.
type ProgressFunc func(processed int, total int, current string)

// Pool is a fixed-size set of workers. It is created by the caller and
// passed to each phase; no goroutines outlive a Dispatch call.
type Pool struct {
	// Workers is the number of concurrent workers. Zero means one per CPU.
	Workers int
	// Serial runs every item on the calling goroutine.
	Serial bool
	// OnDone, if set, is called after each item. Calls never overlap.
	OnDone ProgressFunc
}

// NewPool returns a pool of workers goroutines, or a serial pool.
func NewPool(workers int, serial bool) *Pool {
	return &Pool{Workers: workers, Serial: serial}
}

// Size reports the effective concurrency limit.
func (p *Pool) Size() int {
	if p.Serial {
		return 1
	}
	if p.Workers <= 0 {
		return runtime.NumCPU()
	}
	return p.Workers
}

// Dispatch applies work to every item and returns the concatenation of the
// per-item results. Order across items is unspecified in parallel mode;
// each item's own results keep their order. Once ctx is cancelled no new
// item is started and items already running finish. If any item was left
// unprocessed the results gathered so far are returned with ctx.Err().
func Dispatch[R any](ctx context.Context, pool *Pool, items []string, work func(ctx context.Context, item string) []R) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	processed := 0
	done := func(item string) {
		mu.Lock()
		defer mu.Unlock()
		processed++
		if pool.OnDone != nil {
			pool.OnDone(processed, len(items), item)
		}
	}

	size := pool.Size()
	if size > len(items) {
		size = len(items)
	}
	if size == 1 {
		return dispatchSerial(ctx, items, work, done)
	}

	jobs := make(chan string)
	results := make(chan []R, len(items))

	var g errgroup.Group
	g.Go(func() error {
		defer close(jobs)
		for _, item := range items {
			if ctx.Err() != nil {
				return nil
			}
			select {
			case jobs <- item:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	for i := 0; i < size; i++ {
		g.Go(func() error {
			for item := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results <- work(ctx, item)
				done(item)
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	var all []R
	for r := range results {
		all = append(all, r...)
	}
	if processed < len(items) {
		return all, ctx.Err()
	}
	return all, nil
}

func dispatchSerial[R any](ctx context.Context, items []string, work func(ctx context.Context, item string) []R, done func(string)) ([]R, error) {
	var all []R
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		all = append(all, work(ctx, item)...)
		done(item)
	}
	return all, nil
}
