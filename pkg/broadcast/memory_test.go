package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("subscribe creates active subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)
		require.NotNil(t, sub)
		require.NotNil(t, sub.Receive(ctx))
		assert.Equal(t, 1, b.Len())
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)

		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("closing a subscriber removes it", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := b.Subscribe(ctx)
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())

		require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("broadcast to multiple subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](10)
		defer b.Close()

		ctx := context.Background()
		subs := make([]Subscriber[int], 5)
		for i := range subs {
			subs[i] = b.Subscribe(ctx)
		}

		require.NoError(t, b.Broadcast(ctx, Message[int]{Data: 42}))

		for i, sub := range subs {
			select {
			case received := <-sub.Receive(ctx):
				assert.Equal(t, 42, received.Data, "subscriber %d", i)
			case <-time.After(100 * time.Millisecond):
				t.Fatalf("subscriber %d timeout", i)
			}
		}
	})

	t.Run("broadcast after close is safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())
		assert.NoError(t, b.Broadcast(context.Background(), Message[string]{Data: "test"}))
	})

	t.Run("slow subscriber keeps the latest messages", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](2)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)

		for i := range 10 {
			require.NoError(t, b.Broadcast(ctx, Message[int]{Data: i}))
		}

		first := <-sub.Receive(ctx)
		second := <-sub.Receive(ctx)
		assert.Equal(t, 8, first.Data)
		assert.Equal(t, 9, second.Data)
		assert.Equal(t, uint64(8), b.Dropped())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("concurrent broadcasts are safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](4)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_ = b.Broadcast(ctx, Message[int]{Data: n})
			}(i)
		}
		wg.Wait()

		assert.Len(t, sub.Receive(ctx), 4)
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	b := NewMemoryBroadcaster[string](1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := b.Subscribe(ctx)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, ok := <-sub.Receive(ctx)
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}
