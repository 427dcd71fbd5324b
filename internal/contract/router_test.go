package contract

import (
	"errors"
	"testing"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Name string `json:"name"`
}

func TestRouter_Register(t *testing.T) {
	r := NewRouter()
	assert.Error(t, r.Register("nil", nil))
	assert.Error(t, r.Register("notfunc", 1))
	assert.Error(t, r.Register("noenv", func(s string) (iface.PromiseOrValue, error) { return iface.AsValue(s), nil }))
	assert.Error(t, r.Register("badret", func(env iface.IEnv) error { return nil }))
	assert.Error(t, r.Register("valueargs", func(env iface.IEnv, a echoArgs) (iface.PromiseOrValue, error) {
		return iface.AsValue(a.Name), nil
	}))

	ok := func(env iface.IEnv) (iface.PromiseOrValue, error) { return iface.AsValue("ok"), nil }
	require.NoError(t, r.Register("ok", ok))
	assert.Error(t, r.Register("ok", ok))
	assert.True(t, r.HasRoute("ok"))
	assert.False(t, r.HasRoute("missing"))
}

func TestRouter_Handle(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("echo", func(env iface.IEnv, a *echoArgs) (iface.PromiseOrValue, error) {
		return iface.AsValue("hi " + a.Name), nil
	}))
	require.NoError(t, r.Register("fail", func(env iface.IEnv) (iface.PromiseOrValue, error) {
		return iface.PromiseOrValue{}, errors.New("boom")
	}))

	env := newFakeEnv()
	env.input = []byte(`{"name":"carol"}`)
	out, err := r.Handle(env, "echo")
	require.NoError(t, err)
	assert.Equal(t, "hi carol", out.Value())

	env.input = nil
	out, err = r.Handle(env, "echo")
	require.NoError(t, err)
	assert.Equal(t, "hi ", out.Value())

	env.input = []byte(`{"name":`)
	_, err = r.Handle(env, "echo")
	assert.ErrorIs(t, err, errs.ErrInvalidArgs)

	_, err = r.Handle(env, "fail")
	assert.EqualError(t, err, "boom")

	_, err = r.Handle(env, "missing")
	assert.ErrorIs(t, err, errs.ErrMethodNotFound)
	assert.Equal(t, []string{"echo", "fail"}, r.Methods())
}

func TestContractRouter(t *testing.T) {
	c := newContract(t)
	assert.Equal(t, []string{
		MethodCallBalanceExt,
		MethodCallback,
		MethodGetBalance,
		MethodTransferAmount,
		MethodUpdateBalance,
	}, c.Router().Methods())

	env := newFakeEnv()
	env.input = []byte(`{"receiver_id":"contract-b"}`)
	out, err := c.Router().Handle(env, MethodCallBalanceExt)
	require.NoError(t, err)
	assert.True(t, out.IsPromise())
}
