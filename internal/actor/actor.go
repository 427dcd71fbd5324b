// Package actor 提供 Actor 模型实现，每个进程串行处理自己邮箱中的任务
package actor

type (
	// Task 在进程上下文中执行的任务
	Task func(ctx IContext) error

	// TaskMiddleware 任务中间件，用于统一加上恢复、日志等逻辑
	TaskMiddleware func(next Task) Task

	IMessageInvoker interface {
		InvokerMessage(message interface{}) error
	}

	IActor interface {
		OnInit(ctx IContext) error
		OnStop(ctx IContext) error
	}

	IContext interface {
		// Name 进程名，在宿主中就是账户名
		Name() string
		Actor() IActor
		System() *System
	}
)

var _ IActor = (*Actor)(nil)

// Actor 空实现，供嵌入
type Actor struct {
}

func (a *Actor) OnInit(ctx IContext) error {
	return nil
}

func (a *Actor) OnStop(ctx IContext) error {
	return nil
}

// taskMessage 邮箱中的任务消息
type taskMessage struct {
	task Task
}
