package actor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
)

type IProcess interface {
	Context() IContext
	PushTask(task Task) error
	PushTaskAndWait(ctx context.Context, task Task) error
	Exit() error
	IsExit() bool
}

func NewProcess(ctx IContext, mailbox IMailbox) *Process {
	return &Process{
		mailbox: mailbox,
		ctx:     ctx,
	}
}

var _ IProcess = (*Process)(nil)

type Process struct {
	mailbox IMailbox
	ctx     IContext
	isExit  atomic.Bool
}

func (p *Process) Context() IContext {
	return p.ctx
}

func (p *Process) PushTask(task Task) error {
	if task == nil {
		return errs.ErrTaskIsNil
	}
	if p.isExit.Load() {
		return errs.ErrProcessExiting
	}
	return p.mailbox.PostMessage(&taskMessage{task: task})
}

// PushTaskAndWait 投递任务并等待执行完成，返回任务自身的错误
func (p *Process) PushTaskAndWait(ctx context.Context, task Task) error {
	if task == nil {
		return errs.ErrTaskIsNil
	}
	waiter := lib.NewWaiter[error]()
	syncTask := func(c IContext) (e error) {
		defer func() {
			if r := recover(); r != nil {
				e = fmt.Errorf("actor %s task panic: %v", c.Name(), r)
			}
			waiter.Done(e)
		}()
		return task(c)
	}
	if err := p.PushTask(syncTask); err != nil {
		return err
	}
	result, err := waiter.Wait(ctx)
	if err != nil {
		return err
	}
	return result
}

// Exit 标记退出，OnStop 在邮箱中已有的任务之后执行
func (p *Process) Exit() error {
	if !p.isExit.CompareAndSwap(false, true) {
		return nil
	}
	return p.mailbox.PostMessage(&taskMessage{task: func(ctx IContext) error {
		return ctx.Actor().OnStop(ctx)
	}})
}

func (p *Process) IsExit() bool {
	return p.isExit.Load()
}
