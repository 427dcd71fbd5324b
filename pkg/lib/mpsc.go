// Package lib
// @Description: 无锁消息队列

package lib

import (
	"sync/atomic"
)

type mpscNode[T any] struct {
	next atomic.Pointer[mpscNode[T]]
	val  T
}

// Mpsc 多生产者单消费者队列，Pop 同一时间只能有一个消费者；
// Empty 可以在任意 goroutine 调用
type Mpsc[T any] struct {
	head atomic.Pointer[mpscNode[T]]
	tail atomic.Pointer[mpscNode[T]]
}

func NewMpsc[T any]() *Mpsc[T] {
	q := &Mpsc[T]{}
	stub := &mpscNode[T]{}
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

func (q *Mpsc[T]) Push(x T) {
	n := &mpscNode[T]{val: x}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.Load().next.Load()
	if next == nil {
		return zero, false
	}
	v := next.val
	next.val = zero
	q.tail.Store(next)
	return v, true
}

func (q *Mpsc[T]) Empty() bool {
	return q.tail.Load().next.Load() == nil
}
