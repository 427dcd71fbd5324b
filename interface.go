// Package xcall 启动一个本地节点：账户账本、合约宿主以及可选的交易网关
package xcall

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/config"
	"github.com/3ugen/challenge9-call-cross-contract/internal/node"
)

var defaultNode atomic.Pointer[node.Node]

// Init 读取配置文件创建节点
func Init(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	InitWithConfig(cfg)
	return nil
}

func InitWithConfig(cfg *config.Config, options ...node.Option) {
	defaultNode.Store(node.New(cfg, options...))
}

// GetNode 未初始化时使用默认配置
func GetNode() *node.Node {
	if n := defaultNode.Load(); n != nil {
		return n
	}
	defaultNode.CompareAndSwap(nil, node.New(config.Default()))
	return defaultNode.Load()
}

func Startup(ctx context.Context, comps ...node.IComponent) error {
	return GetNode().Startup(ctx, comps...)
}

func Shutdown(timeout time.Duration) error {
	return GetNode().StopWithTimeout(timeout)
}
