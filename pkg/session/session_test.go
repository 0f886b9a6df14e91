package session

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeed/walletbot/pkg/config"
)

func runTableSuite(t *testing.T, open func(t *testing.T) Table) {
	ctx := context.Background()

	t.Run("take without prompt", func(t *testing.T) {
		tbl := open(t)
		_, ok, err := tbl.Take(ctx, 100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("take consumes", func(t *testing.T) {
		tbl := open(t)
		require.NoError(t, tbl.Set(ctx, 101, Prompt{Kind: AwaitingName, CreatedAt: time.Now()}))

		p, ok, err := tbl.Take(ctx, 101)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, AwaitingName, p.Kind)

		_, ok, err = tbl.Take(ctx, 101)
		require.NoError(t, err)
		assert.False(t, ok, "a prompt answers exactly one message")
	})

	t.Run("last registration wins", func(t *testing.T) {
		tbl := open(t)
		require.NoError(t, tbl.Set(ctx, 102, Prompt{Kind: AwaitingName}))
		require.NoError(t, tbl.Set(ctx, 102, Prompt{Kind: AwaitingDeleteSelection}))

		p, ok, err := tbl.Take(ctx, 102)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, AwaitingDeleteSelection, p.Kind)
	})

	t.Run("chats are isolated", func(t *testing.T) {
		tbl := open(t)
		require.NoError(t, tbl.Set(ctx, 103, Prompt{Kind: AwaitingBalanceSelection}))

		_, ok, err := tbl.Take(ctx, 104)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = tbl.Take(ctx, 103)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		tbl := open(t)
		require.NoError(t, tbl.Set(ctx, 105, Prompt{Kind: AwaitingName}))
		require.NoError(t, tbl.Clear(ctx, 105))
		require.NoError(t, tbl.Clear(ctx, 105))

		_, ok, err := tbl.Take(ctx, 105)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryTable(t *testing.T) {
	runTableSuite(t, func(t *testing.T) Table {
		return NewMemoryTable(0)
	})
}

func TestMemoryTable_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tbl := NewMemoryTable(time.Minute)
	tbl.now = func() time.Time { return now }

	require.NoError(t, tbl.Set(ctx, 1, Prompt{Kind: AwaitingName}))
	require.NoError(t, tbl.Set(ctx, 2, Prompt{Kind: AwaitingName}))

	now = now.Add(30 * time.Second)
	_, ok, err := tbl.Take(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, err = tbl.Take(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok, "expired prompt must not be answered")
	assert.Equal(t, 0, tbl.Len())
}

func TestMemoryTable_ConcurrentTakeIsSingleShot(t *testing.T) {
	ctx := context.Background()
	tbl := NewMemoryTable(0)
	require.NoError(t, tbl.Set(ctx, 1, Prompt{Kind: AwaitingName}))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := tbl.Take(ctx, 1); ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, taken)
}

func TestKindValid(t *testing.T) {
	assert.True(t, AwaitingName.Valid())
	assert.True(t, AwaitingBalanceSelection.Valid())
	assert.True(t, AwaitingDeleteSelection.Valid())
	assert.False(t, Kind("idle").Valid())
}

func TestRedisTable(t *testing.T) {
	url := os.Getenv("WALLETBOT_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WALLETBOT_TEST_REDIS_URL not set")
	}

	runTableSuite(t, func(t *testing.T) Table {
		tbl, err := NewRedisTable(url, time.Minute)
		require.NoError(t, err)
		t.Cleanup(func() {
			for id := int64(100); id <= 105; id++ {
				_ = tbl.Clear(context.Background(), id)
			}
			_ = tbl.Close()
		})
		return tbl
	})
}

func TestOpen(t *testing.T) {
	cfg := config.DefaultConfig()
	tbl, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryTable{}, tbl)

	cfg.Session.Backend = config.SessionRedis
	cfg.Session.RedisURL = "::not a url::"
	_, err = Open(cfg)
	assert.Error(t, err)

	cfg.Session.Backend = "etcd"
	_, err = Open(cfg)
	assert.Error(t, err)
}
