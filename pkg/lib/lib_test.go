package lib

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMpsc(t *testing.T) {
	q := NewMpsc[int]()
	assert.True(t, q.Empty())
	_, ok := q.Pop()
	assert.False(t, ok)

	const producers, per = 8, 1000
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				q.Push(p*per + i)
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[int]bool, producers*per)
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		seen[v] = true
		// 同一生产者内保持顺序
		p := v / per
		assert.Greater(t, v, last[p])
		last[p] = v
	}
	assert.Len(t, seen, producers*per)
	assert.True(t, q.Empty())
}

func TestMpscEmptyWhileConsuming(t *testing.T) {
	q := NewMpsc[int]()
	const total = 10000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for popped := 0; popped < total; {
			if _, ok := q.Pop(); ok {
				popped++
			}
		}
	}()
	go func() {
		for i := 0; i < total; i++ {
			q.Push(i)
		}
	}()
	for {
		select {
		case <-done:
			assert.True(t, q.Empty())
			return
		default:
			_ = q.Empty()
		}
	}
}

func TestWaiter(t *testing.T) {
	w := NewWaiter[string]()
	go w.Done("first")

	v, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	w.Done("second")
	v, err = w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewWaiter[int]().Wait(ctx)
	assert.ErrorIs(t, err, ErrWaiterCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListener(t *testing.T) {
	l := NewListener[int]()
	var sum atomic.Int64
	add := func(v int) { sum.Add(int64(v)) }

	l.Register(add)
	l.Register(add)
	l.Notify(3)
	assert.EqualValues(t, 3, sum.Load())

	l.UnRegister(add)
	l.Notify(3)
	assert.EqualValues(t, 3, sum.Load())
}

func TestSerializer(t *testing.T) {
	type record struct {
		AccountId string `json:"account_id" msgpack:"account_id"`
		Amount    uint64 `json:"amount" msgpack:"amount"`
	}
	in := &record{AccountId: "alice_near", Amount: 7}

	for name, s := range map[string]ISerializer{"json": Json, "msgpack": MsgPack} {
		data, err := s.Marshal(in)
		require.NoError(t, err, name)
		out := &record{}
		require.NoError(t, s.Unmarshal(data, out), name)
		assert.Equal(t, in, out, name)
	}

	_, err := Json.Marshal(nil)
	assert.ErrorIs(t, err, ErrJsonPack)
	assert.ErrorIs(t, Json.Unmarshal(nil, &record{}), ErrJsonUnPack)
	_, err = MsgPack.Marshal(nil)
	assert.ErrorIs(t, err, ErrMsgPackPack)
	assert.ErrorIs(t, MsgPack.Unmarshal(nil, &record{}), ErrMsgPackUnPack)
}

func TestPool(t *testing.T) {
	pool, err := NewPool(0)
	require.NoError(t, err)
	defer pool.Release()

	var wg sync.WaitGroup
	var count atomic.Int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}, nil))
	}
	wg.Wait()
	assert.EqualValues(t, 100, count.Load())

	recovered := make(chan interface{}, 1)
	require.NoError(t, pool.Submit(func() { panic("boom") }, func(r interface{}) { recovered <- r }))
	select {
	case r := <-recovered:
		assert.Equal(t, "boom", r)
	case <-time.After(time.Second):
		t.Fatal("panic not recovered")
	}
	assert.EqualValues(t, 1, pool.PanicCount())
}

func TestTry(t *testing.T) {
	var got interface{}
	Try(func() { panic(42) }, func(r interface{}) { got = r })
	assert.Equal(t, 42, got)

	assert.NotPanics(t, func() { Try(func() { panic("x") }, nil) })
}

func TestWheel(t *testing.T) {
	w := NewWheel(time.Millisecond, 20)
	defer w.Stop()

	fired := make(chan time.Time, 1)
	start := time.Now()
	w.AfterFunc(20*time.Millisecond, func() { fired <- time.Now() })
	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 15*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	stopped := make(chan struct{}, 1)
	timer := w.AfterFunc(200*time.Millisecond, func() { stopped <- struct{}{} })
	assert.True(t, timer.Stop())
	select {
	case <-stopped:
		t.Fatal("stopped timer fired")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestPrintCoreDump(t *testing.T) {
	old := DumpDir
	DumpDir = t.TempDir()
	defer func() { DumpDir = old }()

	assert.PanicsWithValue(t, "crash", func() {
		defer PrintCoreDump()
		panic("crash")
	})
	entries, err := os.ReadDir(DumpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(DumpDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "crash")

	assert.NotPanics(t, func() {
		defer PrintCoreDump()
	})
}
