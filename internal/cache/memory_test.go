package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte("candles")
	require.NoError(t, store.Set(ctx, "k", value, time.Minute))
	value[0] = 'X' // 저장 후 원본을 수정해도 영향 없음

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "candles", string(got))

	require.NoError(t, store.Delete(ctx, "k"))
	_, found, _ = store.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "ttl", []byte("a"), 30*time.Second))
	require.NoError(t, store.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(29 * time.Second)
	_, found, _ := store.Get(ctx, "ttl")
	assert.True(t, found)

	now = now.Add(time.Second)
	_, found, _ = store.Get(ctx, "ttl")
	assert.False(t, found, "TTL 경과 후 만료")
	assert.Equal(t, 1, store.Len())

	now = now.Add(24 * time.Hour)
	_, found, _ = store.Get(ctx, "forever")
	assert.True(t, found)
}

func TestMemoryStore_SetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "candles:binance:BTCUSDT:1h:500", []byte("a"), 30*time.Second))
	require.NoError(t, store.Set(ctx, "candles:binance:BTCUSDT:1h:501", []byte("b"), 30*time.Second))
	require.NoError(t, store.Set(ctx, "forever", []byte("c"), 0))
	assert.Equal(t, 3, store.Len())

	// 정리 간격 전에는 만료 항목이 남아있음
	now = now.Add(40 * time.Second)
	require.NoError(t, store.Set(ctx, "fresh", []byte("d"), time.Hour))
	assert.Equal(t, 4, store.Len())

	// 정리 간격이 지나면 Set이 만료 항목을 제거
	now = now.Add(sweepInterval)
	require.NoError(t, store.Set(ctx, "next", []byte("e"), time.Hour))
	assert.Equal(t, 3, store.Len())

	for _, key := range []string{"forever", "fresh", "next"} {
		_, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, key)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "shared", []byte("v"), time.Minute)
			_, _, _ = store.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	got, found, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), got)
}
