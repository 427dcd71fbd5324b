// Package actor
// @Description:

package actor

import (
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
)

type IDispatcher interface {
	Schedule(f func(), recoverFun func(err interface{})) error
	Throughput() int
}

// 协程调度器
type goroutineDispatcher int

func NewDefaultDispatcher(throughput int) IDispatcher {
	return goroutineDispatcher(throughput)
}

func (goroutineDispatcher) Schedule(fn func(), recoverFun func(err interface{})) error {
	go lib.Try(fn, recoverFun)
	return nil
}

func (d goroutineDispatcher) Throughput() int {
	return int(d)
}

// 协程池调度器，所有进程共享一个 ants 池
type poolDispatcher struct {
	pool       *lib.Pool
	throughput int
}

func NewPoolDispatcher(pool *lib.Pool, throughput int) IDispatcher {
	return &poolDispatcher{pool: pool, throughput: throughput}
}

func (d *poolDispatcher) Schedule(fn func(), recoverFun func(err interface{})) error {
	return d.pool.Submit(fn, recoverFun)
}

func (d *poolDispatcher) Throughput() int {
	return d.throughput
}

// 同步调度器
type synchronizedDispatcher int

func NewSynchronizedDispatcher(throughput int) IDispatcher {
	return synchronizedDispatcher(throughput)
}

func (synchronizedDispatcher) Schedule(fn func(), recoverFun func(err interface{})) error {
	lib.Try(fn, recoverFun)
	return nil
}

func (d synchronizedDispatcher) Throughput() int {
	return int(d)
}
