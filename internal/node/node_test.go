package node

import (
	"context"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/config"
	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/gate"
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietNode(cfg *config.Config) *Node {
	return New(cfg, WithGlogOptions(glog.WithWriter(io.Discard), glog.WithConsole(false)))
}

func TestStartupDeploysGenesis(t *testing.T) {
	n := quietNode(config.Default())
	require.NoError(t, n.Startup(context.Background()))
	t.Cleanup(func() { _ = n.StopWithTimeout(time.Second) })
	assert.Nil(t, n.Gate())

	accounts := n.Host().Accounts()
	assert.Equal(t, []string{"alice_near", "bob_near", "carol_near", contract.DefaultTransferTo}, accounts)

	outcome, err := n.Host().Execute(context.Background(), host.Tx{
		Signer:   "bob_near",
		Receiver: "alice_near",
		Method:   contract.MethodCallBalanceExt,
		Args:     []byte(`{"receiver_id":"carol_near"}`),
	})
	require.NoError(t, err)
	require.Equal(t, iface.Successful, outcome.Status, outcome.Error)
	b, err := n.Host().Balance(context.Background(), "carol_near")
	require.NoError(t, err)
	assert.Equal(t, "3000000000000000000000000", b.String())
}

type probe struct {
	component.BaseComponent[*Node]
	started bool
	stopped bool
}

func (*probe) Name() string { return "probe" }

func (p *probe) Start(ctx context.Context, n *Node) error {
	p.started = n.Host() != nil
	return nil
}

func (p *probe) Stop(ctx context.Context) error {
	p.stopped = true
	return nil
}

func TestStartupWithGateAndExtraComponent(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := fmt.Sprintf("tcp://%s", l.Addr().String())
	require.NoError(t, l.Close())

	cfg := config.Default()
	cfg.Gate.Enable = true
	cfg.Gate.Address = addr
	cfg.Genesis[2].ReportBalance = "20000000000000000000000000"

	p := &probe{}
	n := quietNode(cfg)
	require.NoError(t, n.Startup(context.Background(), p))
	assert.True(t, p.started)
	require.NotNil(t, n.Gate())

	client, err := gate.Dial(addr, 5*time.Second)
	require.NoError(t, err)
	defer client.Close()
	resp, err := client.Call(&gate.Request{
		Signer:   "bob_near",
		Receiver: "alice_near",
		Method:   contract.MethodCallBalanceExt,
		Args:     []byte(`{"receiver_id":"carol_near"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `"wallet is full"`, string(resp.Value))

	require.NoError(t, n.StopWithTimeout(time.Second))
	assert.True(t, p.stopped)
}

func TestStartupRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Genesis = append(cfg.Genesis, config.AccountConfig{Id: "alice_near", Balance: "1"})
	n := quietNode(cfg)
	err := n.Startup(context.Background())
	assert.ErrorContains(t, err, "alice_near")

	cfg = config.Default()
	cfg.Contract.OneUnit = "x"
	assert.Error(t, quietNode(cfg).Startup(context.Background()))
}

func TestRedisBackendUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.Host.Ledger.Backend = config.LedgerRedis
	cfg.Host.Ledger.Redis.Addr = "127.0.0.1:1"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, quietNode(cfg).Startup(ctx))
}
