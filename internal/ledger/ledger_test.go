package ledger

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "alice", balance.OneNear))
	require.NoError(t, store.Create(ctx, "bob", balance.Zero))
	assert.ErrorIs(t, store.Create(ctx, "alice", balance.Zero), errs.ErrAccountExists)

	ok, err := store.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Balance(ctx, "nobody")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	_, err = store.Credit(ctx, "nobody", balance.OneNear)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	b, err := store.Credit(ctx, "bob", balance.FromUint64(5))
	require.NoError(t, err)
	assert.Equal(t, "5", b.String())

	_, err = store.Debit(ctx, "bob", balance.FromUint64(6))
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	b, err = store.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "5", b.String(), "failed debit must not change balance")

	b, err = store.Debit(ctx, "bob", balance.FromUint64(5))
	require.NoError(t, err)
	assert.True(t, b.IsZero())

	_, err = store.Credit(ctx, "alice", balance.Max)
	assert.ErrorIs(t, err, balance.ErrOverflow)

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, accounts)
}

func testConcurrentCredit(t *testing.T, store Store) {
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "carol", balance.Zero))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Credit(ctx, "carol", balance.FromUint64(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	b, err := store.Balance(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "50", b.String())
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
	testConcurrentCredit(t, NewMemory())
}

// 需要设置 XCALL_REDIS_ADDR 才会运行
func newTestRedis(t *testing.T) *Redis {
	addr := os.Getenv("XCALL_REDIS_ADDR")
	if addr == "" {
		t.Skip("XCALL_REDIS_ADDR not set")
	}
	store := NewRedis(RedisOptions{Addr: addr, Key: "xcall:test:" + t.Name()})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	require.NoError(t, store.Reset(context.Background()))
	t.Cleanup(func() {
		_ = store.Reset(context.Background())
		_ = store.Close()
	})
	return store
}

func TestRedis(t *testing.T) {
	testStore(t, newTestRedis(t))
}

func TestRedisConcurrentCredit(t *testing.T) {
	testConcurrentCredit(t, newTestRedis(t))
}
