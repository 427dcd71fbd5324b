package lib

import (
	"context"
	"errors"
)

var ErrWaiterCanceled = errors.New("waiter canceled")

// Waiter 一次性结果等待器，Done 只有第一次生效
type Waiter[T any] struct {
	ch chan T
}

func NewWaiter[T any]() *Waiter[T] {
	return &Waiter[T]{ch: make(chan T, 1)}
}

func (w *Waiter[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-w.ch:
		// 放回去，允许多次 Wait
		w.ch <- v
		return v, nil
	case <-ctx.Done():
		return zero, errors.Join(ErrWaiterCanceled, ctx.Err())
	}
}

func (w *Waiter[T]) Done(v T) {
	// 使用 select 实现非阻塞发送，避免多次调用 Done 时阻塞
	select {
	case w.ch <- v:
	default:
	}
}
