// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrain(t *testing.T) {
	t.Run("Should process every item exactly once", func(t *testing.T) {
		items := make([]int, 500)
		for i := range items {
			items[i] = i
		}

		var mu sync.Mutex
		seen := []int{}
		err := drain(context.Background(), 10, newWorkQueue(items), func(_ context.Context, item int) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, item)
			return nil
		})
		require.NoError(t, err)
		sort.Ints(seen)
		assert.Equal(t, items, seen)
	})

	t.Run("Should stop claiming items after the first error", func(t *testing.T) {
		boom := errors.New("boom")
		processed := 0
		err := drain(context.Background(), 1, newWorkQueue([]int{1, 2, 3}), func(_ context.Context, item int) error {
			processed++
			if item == 2 {
				return boom
			}
			return nil
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 2, processed)
	})

	t.Run("Should not start on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := drain(ctx, 3, newWorkQueue([]int{1}), func(context.Context, int) error {
			t.Fatal("no item must be processed")
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Should handle an empty queue", func(t *testing.T) {
		q := newWorkQueue([]string{})
		_, ok := q.pop()
		assert.False(t, ok)
		require.NoError(t, drain(context.Background(), 2, q, func(context.Context, string) error { return nil }))
	})
}
