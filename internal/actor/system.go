package actor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
)

const defaultThroughput = 1024

type Option func(*System)

// WithDispatcher 所有进程使用的调度器，默认每次调度一个 goroutine
func WithDispatcher(dispatcher IDispatcher) Option {
	return func(s *System) {
		s.dispatcher = dispatcher
	}
}

// WithMiddleware 追加任务中间件，按注册顺序由外到内执行
func WithMiddleware(middlewares ...TaskMiddleware) Option {
	return func(s *System) {
		s.middlewares = append(s.middlewares, middlewares...)
	}
}

// System Actor 系统，管理所有进程
type System struct {
	*Manager
	dispatcher   IDispatcher
	middlewares  []TaskMiddleware
	wrap         TaskMiddleware
	shuttingDown atomic.Bool
}

func NewSystem(options ...Option) *System {
	s := &System{
		Manager:    NewNameManager(),
		dispatcher: NewDefaultDispatcher(defaultThroughput),
	}
	for _, option := range options {
		option(s)
	}
	s.wrap = compose(s.middlewares)
	return s
}

func (s *System) checkShuttingDown() error {
	if s.shuttingDown.Load() {
		return errs.ErrSystemShuttingDown
	}
	return nil
}

// Spawn 以 name 创建进程并同步执行 OnInit
func (s *System) Spawn(name string, actor IActor) (IProcess, error) {
	if err := s.checkShuttingDown(); err != nil {
		return nil, err
	}
	ctx := newActorContext(name, actor, s)
	mailbox := NewMailbox()
	mailbox.RegisterHandlers(ctx, s.dispatcher)
	process := NewProcess(ctx, mailbox)
	if !s.Add(name, process) {
		return nil, fmt.Errorf("actor: name %s already registered", name)
	}
	if err := process.PushTaskAndWait(context.Background(), func(ctx IContext) error {
		return ctx.Actor().OnInit(ctx)
	}); err != nil {
		s.Remove(name)
		return nil, err
	}
	return process, nil
}

func (s *System) PushTask(name string, task Task) error {
	if err := s.checkShuttingDown(); err != nil {
		return err
	}
	process := s.GetProcess(name)
	if process == nil {
		return errs.ErrProcessNotFound
	}
	return process.PushTask(task)
}

func (s *System) PushTaskAndWait(ctx context.Context, name string, task Task) error {
	if err := s.checkShuttingDown(); err != nil {
		return err
	}
	process := s.GetProcess(name)
	if process == nil {
		return errs.ErrProcessNotFound
	}
	return process.PushTaskAndWait(ctx, task)
}

// Kill 退出并注销进程
func (s *System) Kill(name string) error {
	process := s.GetProcess(name)
	if process == nil {
		return errs.ErrProcessNotFound
	}
	s.Remove(name)
	return process.Exit()
}

// Shutdown 拒绝新的任务并让所有进程退出
func (s *System) Shutdown() error {
	if !s.shuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	var errList []error
	for _, name := range s.Names() {
		if err := s.Kill(name); err != nil {
			errList = append(errList, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errList...)
}

func (s *System) IsShuttingDown() bool {
	return s.shuttingDown.Load()
}
