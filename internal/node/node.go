// Package node 组装账本、宿主和网关，按组件顺序启动和停止
package node

import (
	"context"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/config"
	"github.com/3ugen/challenge9-call-cross-contract/internal/gate"
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib/component"
	"go.uber.org/zap"
)

type IComponent = component.IComponent[*Node]

type Node struct {
	config     *config.Config
	host       *host.Host
	gate       *gate.Server
	components *component.Manager[*Node]
	glogOpts   []glog.Option
}

type Option func(*Node)

// WithGlogOptions 初始化日志时附加的选项，例如测试中关闭文件输出
func WithGlogOptions(options ...glog.Option) Option {
	return func(n *Node) {
		n.glogOpts = append(n.glogOpts, options...)
	}
}

func New(cfg *config.Config, options ...Option) *Node {
	n := &Node{
		config:     cfg,
		components: component.NewManager[*Node](),
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *Node) Config() *config.Config {
	return n.config
}

// Host 在 host 组件启动后可用
func (n *Node) Host() *host.Host {
	return n.host
}

// Gate 网关未启用时为 nil
func (n *Node) Gate() *gate.Server {
	return n.gate
}

// Startup 注册内置组件和 comps 并启动
func (n *Node) Startup(ctx context.Context, comps ...IComponent) error {
	if err := n.config.Validate(); err != nil {
		return err
	}
	components := []IComponent{
		&glogComponent{},
		&hostComponent{},
		&genesisComponent{},
	}
	if n.config.Gate.Enable {
		components = append(components, &gateComponent{})
	}
	components = append(components, comps...)
	if err := n.components.Register(components...); err != nil {
		return err
	}
	if err := n.components.Start(ctx, n); err != nil {
		return err
	}
	glog.Info("node started", zap.String("name", n.config.Node.Name), zap.Strings("components", n.components.Names()))
	return nil
}

func (n *Node) Stop(ctx context.Context) error {
	return n.components.Stop(ctx)
}

func (n *Node) StopWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return n.Stop(ctx)
}
