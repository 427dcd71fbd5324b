package node

import (
	"context"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/config"
	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/gate"
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/internal/ledger"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib/component"
	"github.com/pkg/errors"
)

// glogComponent 使用节点配置初始化日志
type glogComponent struct {
	component.BaseComponent[*Node]
}

func (*glogComponent) Name() string { return "glog" }

func (*glogComponent) Init(n *Node) error {
	glog.Init(&n.config.Glog, n.glogOpts...)
	glog.SetNode(n.config.Node.Name)
	return nil
}

func (*glogComponent) Stop(ctx context.Context) error {
	glog.Stop()
	return nil
}

// hostComponent 创建账本和宿主
type hostComponent struct {
	component.BaseComponent[*Node]
	host *host.Host
}

func (*hostComponent) Name() string { return "host" }

func (c *hostComponent) Start(ctx context.Context, n *Node) error {
	store, err := newStore(ctx, n.config.Host.Ledger)
	if err != nil {
		return err
	}
	hc := n.config.Host
	h, err := host.New(
		host.WithStore(store),
		host.WithPoolSize(hc.PoolSize),
		host.WithThroughput(hc.Throughput),
		host.WithBlockDelay(hc.BlockDelay),
		host.WithGasCosts(hc.CallBaseGas, hc.LogGas, hc.PromiseGas),
	)
	if err != nil {
		_ = store.Close()
		return err
	}
	c.host = h
	n.host = h
	return nil
}

func (c *hostComponent) Stop(ctx context.Context) error {
	if c.host != nil {
		c.host.Stop()
	}
	return nil
}

func newStore(ctx context.Context, cfg config.LedgerConfig) (ledger.Store, error) {
	switch cfg.Backend {
	case config.LedgerRedis:
		store := ledger.NewRedis(ledger.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return ledger.NewMemory(), nil
	}
}

// genesisComponent 创建配置中的账户并部署合约
type genesisComponent struct {
	component.BaseComponent[*Node]
}

func (*genesisComponent) Name() string { return "genesis" }

func (*genesisComponent) Start(ctx context.Context, n *Node) error {
	params, err := n.config.ContractParams()
	if err != nil {
		return err
	}
	for _, account := range n.config.Genesis {
		initial, err := account.Initial()
		if err != nil {
			return err
		}
		code, err := newContract(account, params)
		if err != nil {
			return err
		}
		if err = n.host.Deploy(ctx, account.Id, code, initial); err != nil {
			return errors.WithMessagef(err, "genesis %s", account.Id)
		}
	}
	return nil
}

func newContract(account config.AccountConfig, params contract.Params) (host.Contract, error) {
	switch account.Contract {
	case config.ContractXCall:
		c, err := contract.New(params)
		if err != nil {
			return nil, err
		}
		return c.Router(), nil
	case config.ContractReporter:
		reported, err := account.Reported()
		if err != nil {
			return nil, err
		}
		var options []contract.ReporterOption
		if reported != nil {
			options = append(options, contract.WithFixedBalance(*reported))
		}
		return contract.NewReporter(options...).Router(), nil
	default:
		return nil, nil
	}
}

// gateComponent 对外提供交易网关
type gateComponent struct {
	component.BaseComponent[*Node]
	server *gate.Server
	done   chan error
}

func (*gateComponent) Name() string { return "gate" }

func (c *gateComponent) Start(ctx context.Context, n *Node) error {
	gc := n.config.Gate
	server, err := gate.NewServer(gc.Address, n.host, gate.WithMulticore(gc.Multicore), gate.WithMaxFrame(gc.MaxFrame))
	if err != nil {
		return err
	}
	c.server = server
	c.done = make(chan error, 1)
	go func() {
		c.done <- server.Serve()
	}()
	select {
	case <-server.Booted():
		n.gate = server
		return nil
	case err = <-c.done:
		return errors.Wrapf(err, "gate serve %s", gc.Address)
	case <-time.After(5 * time.Second):
		return errors.Errorf("gate %s boot timeout", gc.Address)
	}
}

func (c *gateComponent) Stop(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Stop(ctx)
}
