package actor

import (
	"runtime"
	"sync/atomic"

	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"go.uber.org/zap"
)

const (
	idle int32 = iota
	running
)

type IMailbox interface {
	PostMessage(msg interface{}) error
	RegisterHandlers(invoker IMessageInvoker, dispatcher IDispatcher)
	IsEmpty() bool
}

var _ IMailbox = &Mailbox{}

type Mailbox struct {
	invoker      IMessageInvoker
	queue        *lib.Mpsc[interface{}]
	dispatch     IDispatcher
	dispatchStat atomic.Int32
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		queue: lib.NewMpsc[interface{}](),
	}
}

func (mb *Mailbox) RegisterHandlers(invoker IMessageInvoker, dispatcher IDispatcher) {
	mb.invoker = invoker
	mb.dispatch = dispatcher
}

func (mb *Mailbox) PostMessage(msg interface{}) error {
	if msg == nil {
		return nil
	}
	mb.queue.Push(msg)
	return mb.schedule()
}

// schedule 使用 CAS 确保同一时间只有一个 goroutine 在处理消息队列
func (mb *Mailbox) schedule() error {
	if !mb.dispatchStat.CompareAndSwap(idle, running) {
		return nil
	}
	if err := mb.dispatch.Schedule(mb.process, func(err interface{}) {
		glog.Error("mailbox dispatch panic", glog.Panic(err), zap.Stack("stack"))
	}); err != nil {
		mb.dispatchStat.Store(idle)
		glog.Error("mailbox dispatch failed", zap.Error(err))
		return err
	}
	return nil
}

// process 处理完后重置为 idle，如果期间又有新消息进来则重新调度
func (mb *Mailbox) process() {
	mb.run()
	mb.dispatchStat.Store(idle)
	if !mb.queue.Empty() {
		_ = mb.schedule()
	}
}

// run 每处理 throughput 条消息让出一次 CPU
func (mb *Mailbox) run() {
	throughput := mb.dispatch.Throughput()
	var processed int
	for {
		if processed >= throughput {
			processed = 0
			runtime.Gosched()
		}
		msg, ok := mb.queue.Pop()
		if !ok {
			return
		}
		processed++
		if err := mb.invoker.InvokerMessage(msg); err != nil {
			glog.Debug("mailbox message failed", zap.Error(err))
		}
	}
}

// IsEmpty 检查 mailbox 队列是否为空
func (mb *Mailbox) IsEmpty() bool {
	return mb.queue.Empty()
}
