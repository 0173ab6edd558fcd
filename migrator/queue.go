// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// workQueue hands out every item exactly once to concurrent workers.
type workQueue[T any] struct {
	mu    sync.Mutex
	items []T
}

func newWorkQueue[T any](items []T) *workQueue[T] {
	q := &workQueue[T]{items: make([]T, len(items))}
	copy(q.items, items)
	return q
}

func (q *workQueue[T]) pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// drain runs process over the queue with the given number of workers. The
// first error stops every worker from claiming further items and is
// returned once all of them have exited.
func drain[T any](ctx context.Context, workers int, q *workQueue[T], process func(ctx context.Context, item T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				item, ok := q.pop()
				if !ok {
					return nil
				}
				if err := process(ctx, item); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
