package worker

import (
	"context"
	"sync"
)

// Pool runs jobs on a fixed number of goroutines.
type Pool struct {
	size int
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Run calls fn once for every index in [0, n) and waits for all calls. Indexes
// not yet started when ctx is cancelled are skipped and Run returns ctx.Err().
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.size
	if n < workers {
		workers = n
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return err
}
