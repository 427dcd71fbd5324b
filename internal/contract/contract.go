// Package contract 实现发起跨合约余额查询并根据回调结果补款的合约，
// 以及作为对端的余额报告合约
package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/3ugen/challenge9-call-cross-contract/internal/codec"
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

// 导出的方法名
const (
	MethodGetBalance     = "get_balance"
	MethodUpdateBalance  = "update_balance"
	MethodCallBalanceExt = "call_balance_ext"
	MethodTransferAmount = "transfer_amount"
	MethodCallback       = "callback_promise_result"
)

// 回调的返回值
const (
	MsgNotReady       = "not ready"
	MsgCallFailed     = "err call failed"
	MsgCantGetBalance = "can't get balance from wallet"
	MsgWalletIsFull   = "wallet is full"
)

type (
	UpdateBalanceArgs struct {
		AccountId iface.AccountId `json:"account_id"`
	}

	CallBalanceArgs struct {
		ReceiverId iface.AccountId `json:"receiver_id"`
	}
)

// Contract 本合约，不持有可变状态
type Contract struct {
	params Params
	policy Policy
}

func New(params Params) (*Contract, error) {
	policy, err := NewPolicy(params)
	if err != nil {
		return nil, err
	}
	if err = iface.ValidAccountId(params.TransferTo); err != nil {
		return nil, err
	}
	return &Contract{params: params, policy: policy}, nil
}

func (c *Contract) Params() Params { return c.params }
func (c *Contract) Policy() Policy { return c.policy }

// Router 导出合约方法
func (c *Contract) Router() *Router {
	r := NewRouter()
	mustRegister(r, MethodGetBalance, c.GetBalance)
	mustRegister(r, MethodUpdateBalance, c.UpdateBalance)
	mustRegister(r, MethodCallBalanceExt, c.CallBalanceExt)
	mustRegister(r, MethodTransferAmount, c.TransferAmount)
	mustRegister(r, MethodCallback, c.CallbackPromiseResult)
	return r
}

// GetBalance 当前账户余额
func (c *Contract) GetBalance(env iface.IEnv) (iface.PromiseOrValue, error) {
	return iface.AsValue(env.AccountBalance()), nil
}

// UpdateBalance 占位方法，任何 account_id 都返回 0
func (c *Contract) UpdateBalance(env iface.IEnv, args *UpdateBalanceArgs) (iface.PromiseOrValue, error) {
	return iface.AsValue(balance.Zero), nil
}

// CallBalanceExt 查询 receiver 的余额，结果交给自身的 callback_promise_result 处理
func (c *Contract) CallBalanceExt(env iface.IEnv, args *CallBalanceArgs) (iface.PromiseOrValue, error) {
	if err := iface.ValidAccountId(args.ReceiverId); err != nil {
		return iface.PromiseOrValue{}, err
	}
	query := iface.NewPromise(args.ReceiverId).
		FunctionCall(MethodGetBalance, []byte("{}"), c.params.NoDeposit, c.params.BaseGas)
	callback := iface.NewPromise(env.CurrentAccountId()).
		FunctionCall(MethodCallback, []byte("{}"), c.params.NoDeposit, c.params.BaseGas)
	return iface.AsPromise(query.Then(callback)), nil
}

// TransferAmount 向固定账户转账，余额是否足够由宿主检查
func (c *Contract) TransferAmount(env iface.IEnv) (iface.PromiseOrValue, error) {
	return iface.AsPromise(iface.NewPromise(c.params.TransferTo).Transfer(c.policy.TopUp)), nil
}

// CallbackPromiseResult 只能由合约自身调用，且只处理一个 promise 结果
func (c *Contract) CallbackPromiseResult(env iface.IEnv) (iface.PromiseOrValue, error) {
	if env.PredecessorAccountId() != env.CurrentAccountId() {
		return iface.PromiseOrValue{}, fmt.Errorf("%w: %s", errs.ErrPrivateMethod, MethodCallback)
	}
	if env.PromiseResultsCount() != 1 {
		return iface.PromiseOrValue{}, errs.ErrTooManyResults
	}
	env.Log("callback result")

	result := env.PromiseResult(0)
	switch result.Status {
	case iface.NotReady:
		return iface.AsValue(MsgNotReady), nil
	case iface.Successful:
		return c.onBalance(env, result.Value), nil
	default:
		return iface.AsValue(MsgCallFailed), nil
	}
}

func (c *Contract) onBalance(env iface.IEnv, value []byte) iface.PromiseOrValue {
	env.Log("result: " + byteList(value))
	record, err := codec.Decode(value)
	if err != nil {
		env.Log(MsgCantGetBalance)
		return iface.AsValue(MsgCantGetBalance)
	}
	env.Log(fmt.Sprintf("get balance: %s", record.Balance))

	decision := c.policy.Decide(record)
	if !decision.Transfer {
		return iface.AsValue(MsgWalletIsFull)
	}
	env.Log("send some near")
	return iface.AsPromise(iface.NewPromise(decision.To).Transfer(decision.Amount))
}

// byteList 以 [123, 34, ...] 的形式输出原始字节
func byteList(data []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	sb.WriteByte(']')
	return sb.String()
}
