// Package component 管理节点组件的生命周期
package component

import (
	"context"
)

// IComponent 组件按注册顺序 Init、Start，按逆序 Stop
type IComponent[T any] interface {
	Name() string
	Init(t T) error
	Start(ctx context.Context, t T) error
	Stop(ctx context.Context) error
}

// BaseComponent 空实现，供嵌入
type BaseComponent[T any] struct {
}

func (*BaseComponent[T]) Init(t T) error { return nil }
func (*BaseComponent[T]) Start(ctx context.Context, t T) error {
	return nil
}
func (*BaseComponent[T]) Stop(ctx context.Context) error {
	return nil
}
