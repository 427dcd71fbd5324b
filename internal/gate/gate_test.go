package gate

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	codec := NewCodec(16)
	frame := codec.Encode(NewMessage(CmdCall, 7, []byte("hello")))
	require.Len(t, frame, HeadLen+5)

	// 不完整的帧
	for i := 0; i < len(frame); i++ {
		msg, n, err := codec.Decode(frame[:i])
		require.NoError(t, err)
		assert.Nil(t, msg)
		assert.Zero(t, n)
	}

	// 两个帧连在一起
	stream := append(append([]byte{}, frame...), codec.Encode(NewMessage(CmdView, 8, nil))...)
	msg, n, err := codec.Decode(stream)
	require.NoError(t, err)
	assert.Equal(t, len(frame), n)
	assert.Equal(t, CmdCall, msg.Cmd)
	assert.Equal(t, uint32(7), msg.Index)
	assert.Equal(t, []byte("hello"), msg.Data)

	msg, n, err = codec.Decode(stream[n:])
	require.NoError(t, err)
	assert.Equal(t, HeadLen, n)
	assert.Equal(t, CmdView, msg.Cmd)
	assert.Empty(t, msg.Data)

	big := NewCodec(0).Encode(NewMessage(CmdCall, 1, make([]byte, 17)))
	_, _, err = codec.Decode(big)
	assert.ErrorIs(t, err, errs.ErrFrameTooLarge)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return fmt.Sprintf("tcp://%s", addr)
}

func near(t *testing.T, n uint64) balance.Balance {
	t.Helper()
	b, err := balance.OneNear.MulUint64(n)
	require.NoError(t, err)
	return b
}

func startServer(t *testing.T) (*host.Host, *Client) {
	t.Helper()
	ctx := context.Background()
	h, err := host.New()
	require.NoError(t, err)
	t.Cleanup(h.Stop)
	c, err := contract.New(contract.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, h.Deploy(ctx, "alice", c.Router(), near(t, 100)))
	require.NoError(t, h.Deploy(ctx, "carol", contract.NewReporter().Router(), near(t, 1)))
	require.NoError(t, h.CreateAccount(ctx, "bob", near(t, 10)))

	addr := freeAddr(t)
	server, err := NewServer(addr, h)
	require.NoError(t, err)
	go func() {
		_ = server.Serve()
	}()
	select {
	case <-server.Booted():
	case <-time.After(5 * time.Second):
		t.Fatal("gate did not start")
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})

	client, err := Dial(addr, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return h, client
}

func TestGateEndToEnd(t *testing.T) {
	h, client := startServer(t)

	resp, err := client.View("alice", contract.MethodGetBalance, nil)
	require.NoError(t, err)
	assert.Equal(t, iface.Successful, resp.PromiseStatus())
	assert.Equal(t, `"100000000000000000000000000"`, string(resp.Value))

	resp, err = client.Call(&Request{
		Signer:   "bob",
		Receiver: "alice",
		Method:   contract.MethodCallBalanceExt,
		Args:     []byte(`{"receiver_id":"carol"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, iface.Successful, resp.PromiseStatus(), resp.Error)
	assert.Contains(t, resp.Logs, "send some near")

	b, err := client.Balance("carol")
	require.NoError(t, err)
	assert.True(t, b.Equals(near(t, 3)))

	hb, err := h.Balance(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, hb.Equals(near(t, 98)))
}

func TestGateErrors(t *testing.T) {
	_, client := startServer(t)

	resp, err := client.Call(&Request{Signer: "bob", Receiver: "alice", Method: contract.MethodCallback})
	require.NoError(t, err)
	assert.Equal(t, iface.Failed, resp.PromiseStatus())
	assert.Contains(t, resp.Error, errs.ErrPrivateMethod.Error())

	resp, err = client.Call(&Request{Signer: "bob", Receiver: "alice", Method: contract.MethodGetBalance, Deposit: "1.5"})
	require.NoError(t, err)
	assert.Equal(t, iface.Failed, resp.PromiseStatus())

	resp, err = client.View("nobody", contract.MethodGetBalance, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Error, errs.ErrAccountNotFound.Error())

	resp, err = client.Request(99, &Request{})
	require.NoError(t, err)
	assert.Contains(t, resp.Error, errs.ErrUnknownCommand.Error())

	_, err = client.Balance("nobody")
	assert.Error(t, err)
}

func TestRequestTx(t *testing.T) {
	req := &Request{Signer: "bob", Receiver: "alice", Method: "m", Deposit: "5", Gas: 7}
	tx, err := req.tx()
	require.NoError(t, err)
	assert.Equal(t, "5", tx.Deposit.String())
	assert.Equal(t, iface.Gas(7), tx.Gas)

	data, err := lib.MsgPack.Marshal(req)
	require.NoError(t, err)
	decoded := &Request{}
	require.NoError(t, lib.MsgPack.Unmarshal(data, decoded))
	assert.Equal(t, req, decoded)
}
