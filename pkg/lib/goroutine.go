/**
 * @Author: dingQingHui
 * @Description:
 * @File: workers
 * @Version: 1.0.0
 * @Date: 2025/1/2 10:16
 */

package lib

import (
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// Pool 协程池，actor 邮箱的调度都投递到这里执行
type Pool struct {
	pool       *ants.Pool
	panicCount atomic.Uint64
}

// NewPool 创建协程池，size <= 0 时不限制大小
func NewPool(size int) (*Pool, error) {
	if size <= 0 {
		size = -1
	}
	p := &Pool{}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// Submit 提交任务，f 内部的 panic 通过 try 回调
func (p *Pool) Submit(f func(), try func(r interface{})) error {
	return p.pool.Submit(func() {
		Try(f, func(r interface{}) {
			p.panicCount.Add(1)
			if try != nil {
				try(r)
			}
		})
	})
}

func (p *Pool) Running() int {
	return p.pool.Running()
}

func (p *Pool) PanicCount() uint64 {
	return p.panicCount.Load()
}

func (p *Pool) Release() {
	p.pool.Release()
}

// Try 执行 f 并捕获 panic
func Try(f func(), try func(r interface{})) {
	defer func() {
		// 捕获panic，避免单个协程崩溃影响整体
		if r := recover(); r != nil {
			if try != nil {
				try(r)
			}
		}
	}()
	f()
}
