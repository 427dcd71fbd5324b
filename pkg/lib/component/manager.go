package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/duke-git/lancet/v2/maputil"
	"golang.org/x/exp/slices"
)

var (
	ErrComponentCannotBeNil       = errors.New("component cannot be nil")
	ErrComponentNameCannotBeEmpty = errors.New("component name cannot be empty")
	ErrRegisterAfterStarted       = errors.New("cannot register component after started")
	ErrComponentAlreadyRegistered = errors.New("component already registered")
	ErrManagerAlreadyStarted      = errors.New("component manager already started")
	ErrManagerStopped             = errors.New("component manager stopped")
	ErrFailedToStartComponent     = errors.New("failed to start component")
)

type Manager[T any] struct {
	components *maputil.ConcurrentMap[string, IComponent[T]]
	order      []string
	orderMu    sync.RWMutex
	started    atomic.Bool
	stopped    atomic.Bool
	stopOnce   sync.Once
}

func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		components: maputil.NewConcurrentMap[string, IComponent[T]](8),
	}
}

func (cm *Manager[T]) IsStarted() bool {
	return cm.started.Load()
}

func (cm *Manager[T]) IsStopped() bool {
	return cm.stopped.Load()
}

func (cm *Manager[T]) GetComponent(name string) IComponent[T] {
	component, _ := cm.components.Get(name)
	return component
}

// Names 按注册顺序返回组件名
func (cm *Manager[T]) Names() []string {
	cm.orderMu.RLock()
	defer cm.orderMu.RUnlock()
	return slices.Clone(cm.order)
}

func (cm *Manager[T]) Register(components ...IComponent[T]) error {
	if cm.started.Load() {
		return ErrRegisterAfterStarted
	}
	cm.orderMu.Lock()
	defer cm.orderMu.Unlock()
	for _, component := range components {
		if component == nil {
			return ErrComponentCannotBeNil
		}
		name := component.Name()
		if name == "" {
			return ErrComponentNameCannotBeEmpty
		}
		if _, loaded := cm.components.GetOrSet(name, component); loaded {
			return fmt.Errorf("%w: %s", ErrComponentAlreadyRegistered, name)
		}
		cm.order = append(cm.order, name)
	}
	return nil
}

func (cm *Manager[T]) ordered() []IComponent[T] {
	names := cm.Names()
	components := make([]IComponent[T], 0, len(names))
	for _, name := range names {
		if component, ok := cm.components.Get(name); ok {
			components = append(components, component)
		}
	}
	return components
}

// Start 依次 Init 并 Start 所有组件，任何一个失败都会逆序停止已启动的组件
func (cm *Manager[T]) Start(ctx context.Context, t T) error {
	if cm.stopped.Load() {
		return ErrManagerStopped
	}
	if !cm.started.CompareAndSwap(false, true) {
		return ErrManagerAlreadyStarted
	}
	components := cm.ordered()
	for _, component := range components {
		if err := component.Init(t); err != nil {
			cm.started.Store(false)
			return fmt.Errorf("%w: %s init: %v", ErrFailedToStartComponent, component.Name(), err)
		}
	}
	for i, component := range components {
		if err := component.Start(ctx, t); err != nil {
			_ = stopReverse(ctx, components[:i])
			cm.stopped.Store(true)
			return fmt.Errorf("%w: %s: %v", ErrFailedToStartComponent, component.Name(), err)
		}
	}
	return nil
}

// Stop 按注册顺序的逆序停止所有组件，只执行一次
func (cm *Manager[T]) Stop(ctx context.Context) error {
	var err error
	cm.stopOnce.Do(func() {
		if !cm.started.Load() || cm.stopped.Swap(true) {
			return
		}
		err = stopReverse(ctx, cm.ordered())
	})
	return err
}

func stopReverse[T any](ctx context.Context, components []IComponent[T]) error {
	var errList []error
	for i := len(components) - 1; i >= 0; i-- {
		if err := components[i].Stop(ctx); err != nil {
			errList = append(errList, fmt.Errorf("%s: %w", components[i].Name(), err))
		}
	}
	return errors.Join(errList...)
}
