package actor

import (
	"fmt"

	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"go.uber.org/zap"
)

func newActorContext(name string, actor IActor, system *System) *actorContext {
	return &actorContext{
		name:   name,
		actor:  actor,
		system: system,
	}
}

type actorContext struct {
	name   string
	actor  IActor
	system *System
}

func (a *actorContext) Name() string {
	return a.name
}

func (a *actorContext) Actor() IActor {
	return a.actor
}

func (a *actorContext) System() *System {
	return a.system
}

func (a *actorContext) InvokerMessage(msg interface{}) (err error) {
	switch m := msg.(type) {
	case *taskMessage:
		// 任务 panic 不能打断邮箱的处理循环
		defer func() {
			if r := recover(); r != nil {
				glog.Error("actor task panic", zap.String("name", a.name), glog.Panic(r), zap.Stack("stack"))
				err = fmt.Errorf("actor %s task panic: %v", a.name, r)
			}
		}()
		if err = a.system.wrap(m.task)(a); err != nil {
			glog.Debug("actor task failed", zap.String("name", a.name), zap.Error(err))
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported message type: %T", msg)
	}
}
