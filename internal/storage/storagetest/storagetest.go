// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naimy441/nutriuni/internal/storage"
)

// Run exercises a provider returned by newProvider. The provider must be
// initialized and empty; Run closes it when each subtest ends.
func Run(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Helper()
	ctx := context.Background()

	open := func(t *testing.T) storage.Provider {
		p := newProvider(t)
		t.Cleanup(func() { _ = p.Close() })
		return p
	}

	t.Run("GetMissing", func(t *testing.T) {
		p := open(t)
		_, err := p.Get(ctx, "absent")
		require.Error(t, err)
		assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)
	})

	t.Run("SetGetOverwrite", func(t *testing.T) {
		p := open(t)
		require.NoError(t, p.Set(ctx, "nutrition_log_2024-03-10", `{"date":"2024-03-10"}`))
		got, err := p.Get(ctx, "nutrition_log_2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, `{"date":"2024-03-10"}`, got)

		require.NoError(t, p.Set(ctx, "nutrition_log_2024-03-10", `{"date":"2024-03-10","items":[]}`))
		got, err = p.Get(ctx, "nutrition_log_2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, `{"date":"2024-03-10","items":[]}`, got)
	})

	t.Run("Delete", func(t *testing.T) {
		p := open(t)
		require.NoError(t, p.Set(ctx, "k", "v"))
		require.NoError(t, p.Delete(ctx, "k"))
		_, err := p.Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// deleting a missing key is not an error
		require.NoError(t, p.Delete(ctx, "k"))
	})

	t.Run("ListKeysAndPrefix", func(t *testing.T) {
		p := open(t)
		for _, k := range []string{"nutrition_log_2024-03-09", "fast_access_items", "nutrition_log_2024-03-08"} {
			require.NoError(t, p.Set(ctx, k, "{}"))
		}
		keys, err := p.ListKeys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"nutrition_log_2024-03-09", "fast_access_items", "nutrition_log_2024-03-08"}, keys)

		logs, err := storage.KeysWithPrefix(ctx, p, "nutrition_log_")
		require.NoError(t, err)
		assert.Equal(t, []string{"nutrition_log_2024-03-08", "nutrition_log_2024-03-09"}, logs)
	})

	t.Run("Clear", func(t *testing.T) {
		p := open(t)
		require.NoError(t, p.Set(ctx, "a", "1"))
		require.NoError(t, p.Set(ctx, "b", "2"))
		require.NoError(t, p.Clear(ctx))
		keys, err := p.ListKeys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("JSONHelpers", func(t *testing.T) {
		p := open(t)
		type record struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		}
		require.NoError(t, storage.SetJSON(ctx, p, "rec", record{Name: "oats", Value: 150.5}))
		var got record
		require.NoError(t, storage.GetJSON(ctx, p, "rec", &got))
		assert.Equal(t, record{Name: "oats", Value: 150.5}, got)

		require.NoError(t, p.Set(ctx, "broken", "{not json"))
		assert.Error(t, storage.GetJSON(ctx, p, "broken", &got))
		assert.ErrorIs(t, storage.GetJSON(ctx, p, "missing", &got), storage.ErrNotFound)
	})

	t.Run("ConcurrentWrites", func(t *testing.T) {
		p := open(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, p.Set(ctx, fmt.Sprintf("key_%d", i), fmt.Sprintf("%d", i)))
			}(i)
		}
		wg.Wait()
		keys, err := p.ListKeys(ctx)
		require.NoError(t, err)
		assert.Len(t, keys, 8)
	})
}
