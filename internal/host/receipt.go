package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/3ugen/challenge9-call-cross-contract/internal/actor"
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"go.uber.org/zap"
)

// resolution receipt 或 promise 的最终结果
type resolution struct {
	result iface.PromiseResult
	err    string
}

func failed(err error) resolution {
	return resolution{result: iface.FailedResult(), err: err.Error()}
}

// receipt 投递到 receiver 进程执行的一组动作
type receipt struct {
	id          uint64
	tx          *Transaction
	predecessor iface.AccountId
	signer      iface.AccountId
	receiver    iface.AccountId
	actions     []iface.Action
	// inputs 依赖的 promise 结果
	inputs []iface.PromiseResult
}

// deposit 动作附带的金额总和，在创建 receipt 时已从 predecessor 扣除
func (r *receipt) deposit() (balance.Balance, error) {
	return actionsDeposit(r.actions)
}

func actionsDeposit(actions []iface.Action) (balance.Balance, error) {
	total := balance.Zero
	var err error
	for _, action := range actions {
		switch a := action.(type) {
		case *iface.Transfer:
			total, err = total.Add(a.Amount)
		case *iface.FunctionCall:
			total, err = total.Add(a.Deposit)
		}
		if err != nil {
			return balance.Zero, err
		}
	}
	return total, nil
}

func actionNames(actions []iface.Action) []string {
	names := make([]string, 0, len(actions))
	for _, action := range actions {
		switch a := action.(type) {
		case *iface.FunctionCall:
			names = append(names, fmt.Sprintf("%s(%s)", a.ActionName(), a.Method))
		default:
			names = append(names, action.ActionName())
		}
	}
	return names
}

// deliver 把 receipt 投递到 receiver 的邮箱，账户不存在时直接失败并退款
func (h *Host) deliver(r *receipt, done func(resolution)) {
	push := func() {
		err := h.system.PushTask(r.receiver, h.runReceipt(r, done))
		if err == nil {
			return
		}
		if errors.Is(err, errs.ErrProcessNotFound) {
			err = errs.ErrAccountMissing(r.receiver)
		}
		h.refund(r)
		res := failed(err)
		h.finishReceipt(r, ReceiptOutcome{Status: iface.Failed, Error: res.err})
		done(res)
	}
	if h.wheel != nil {
		h.wheel.AfterFunc(h.opts.BlockDelay, push)
		return
	}
	push()
}

// refund 把 receipt 的存款退回 predecessor
func (h *Host) refund(r *receipt) {
	amount, err := r.deposit()
	if err != nil || amount.IsZero() {
		return
	}
	if _, err = h.store.Credit(context.Background(), r.predecessor, amount); err != nil {
		glog.Error("refund failed", glog.Receipt(r.id), glog.Account(r.predecessor),
			zap.Stringer("amount", amount), zap.Error(err))
	}
}

func (h *Host) finishReceipt(r *receipt, outcome ReceiptOutcome) {
	outcome.Id = r.id
	outcome.Predecessor = r.predecessor
	outcome.Executor = r.receiver
	outcome.Actions = actionNames(r.actions)
	r.tx.record(outcome)
	h.receipts.Notify(&outcome)
}

// runReceipt 在 receiver 进程中执行 receipt
func (h *Host) runReceipt(r *receipt, done func(resolution)) actor.Task {
	return func(actx actor.IContext) error {
		a := actx.Actor().(*accountActor)
		ctx := context.Background()
		outcome := ReceiptOutcome{}

		deposit, err := r.deposit()
		if err == nil && !deposit.IsZero() {
			_, err = h.store.Credit(ctx, r.receiver, deposit)
		}
		if err != nil {
			h.refund(r)
			outcome.Status, outcome.Error = iface.Failed, err.Error()
			h.finishReceipt(r, outcome)
			done(failed(err))
			return nil
		}

		var (
			value []byte
			next  *iface.Promise
		)
		for _, action := range r.actions {
			call, ok := action.(*iface.FunctionCall)
			if !ok {
				continue
			}
			value, next, err = h.call(ctx, a, r, call, &outcome)
			if err != nil || next != nil {
				break
			}
		}

		if err != nil {
			// 回滚已入账的存款
			if !deposit.IsZero() {
				if _, e := h.store.Debit(ctx, r.receiver, deposit); e != nil {
					glog.Error("revert deposit failed", glog.Receipt(r.id), zap.Error(e))
				} else {
					h.refund(r)
				}
			}
			outcome.Status, outcome.Error = iface.Failed, err.Error()
			h.finishReceipt(r, outcome)
			done(failed(err))
			return nil
		}

		outcome.Status, outcome.Value = iface.Successful, value
		h.finishReceipt(r, outcome)
		if next != nil {
			// 返回 promise 时以 promise 的结果作为本 receipt 的结果
			h.schedule(next, r.receiver, r.signer, r.tx, func(results []resolution) {
				done(results[len(results)-1])
			})
			return nil
		}
		done(resolution{result: iface.SuccessResult(value)})
		return nil
	}
}

// call 执行函数调用动作，成功返回值或新创建的 promise
func (h *Host) call(ctx context.Context, a *accountActor, r *receipt, fc *iface.FunctionCall, outcome *ReceiptOutcome) ([]byte, *iface.Promise, error) {
	if a.contract == nil {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrNotContract, a.account)
	}
	e := &env{
		host:        h,
		ctx:         ctx,
		current:     r.receiver,
		predecessor: r.predecessor,
		signer:      r.signer,
		deposit:     fc.Deposit,
		prepaid:     fc.Gas,
		input:       fc.Args,
		results:     r.inputs,
	}
	out, err := invoke(a.contract, e, fc.Method)
	outcome.Logs = append(outcome.Logs, e.logs...)
	used := e.UsedGas()
	outcome.GasBurnt += used
	if err != nil {
		return nil, nil, err
	}
	if used > fc.Gas {
		return nil, nil, errs.ErrExceededPrepaidGas
	}
	if !out.IsPromise() {
		value, err := encodeValue(out.Value())
		return value, nil, err
	}

	p := out.Promise()
	cost, err := h.validatePromise(p)
	if err != nil {
		return nil, nil, err
	}
	promiseGas := iface.Gas(cost.receipts) * h.opts.PromiseGas
	outcome.GasBurnt += promiseGas
	used += promiseGas
	if used > fc.Gas || cost.gas > fc.Gas-used {
		return nil, nil, fmt.Errorf("%w: used %d, attached %d, prepaid %d", errs.ErrExceededPrepaidGas, used, cost.gas, fc.Gas)
	}
	if !cost.deposit.IsZero() {
		if _, err = h.store.Debit(ctx, r.receiver, cost.deposit); err != nil {
			return nil, nil, err
		}
	}
	return nil, p, nil
}

type promiseCost struct {
	receipts int
	gas      iface.Gas
	deposit  balance.Balance
}

// validatePromise 统计 promise 图中 receipt 数量、附加的 gas 与存款
func (h *Host) validatePromise(p *iface.Promise) (promiseCost, error) {
	cost := promiseCost{deposit: balance.Zero}
	var err error
	p.Walk(func(node *iface.Promise) {
		if err != nil || node.IsJoint() {
			return
		}
		if err = iface.ValidAccountId(node.Receiver()); err != nil {
			return
		}
		cost.receipts++
		var d balance.Balance
		if d, err = actionsDeposit(node.Actions()); err != nil {
			return
		}
		if cost.deposit, err = cost.deposit.Add(d); err != nil {
			return
		}
		for _, action := range node.Actions() {
			if fc, ok := action.(*iface.FunctionCall); ok {
				if cost.gas+fc.Gas < cost.gas {
					err = errs.ErrExceededPrepaidGas
					return
				}
				cost.gas += fc.Gas
			}
		}
	})
	return cost, err
}

// schedule 按依赖关系投递 promise 图，done 收到 p 的结果；
// And 组合时按顺序收到每个成员的结果
func (h *Host) schedule(p *iface.Promise, predecessor, signer iface.AccountId, tx *Transaction, done func([]resolution)) {
	if p.IsJoint() {
		joint := p.Joint()
		results := make([]resolution, len(joint))
		var remaining atomic.Int64
		remaining.Store(int64(len(joint)))
		for i, member := range joint {
			h.schedule(member, predecessor, signer, tx, func(rs []resolution) {
				results[i] = rs[len(rs)-1]
				if remaining.Add(-1) == 0 {
					done(results)
				}
			})
		}
		return
	}

	run := func(inputs []resolution) {
		r := &receipt{
			id:          h.receiptId.Add(1),
			tx:          tx,
			predecessor: predecessor,
			signer:      signer,
			receiver:    p.Receiver(),
			actions:     p.Actions(),
		}
		for _, in := range inputs {
			r.inputs = append(r.inputs, in.result)
		}
		h.deliver(r, func(res resolution) {
			done([]resolution{res})
		})
	}
	if after := p.After(); after != nil {
		h.schedule(after, predecessor, signer, tx, run)
		return
	}
	run(nil)
}

// invoke 执行合约方法，panic 转换为错误
func invoke(contract Contract, e *env, method string) (out iface.PromiseOrValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			glog.Error("contract method panic", glog.Account(e.current), glog.Method(method),
				glog.Panic(r), zap.Stack("stack"))
			out, err = iface.PromiseOrValue{}, errs.ErrMethodPanic(method, r)
		}
	}()
	return contract.Handle(e, method)
}

// encodeValue 返回值按 JSON 编码，nil 表示无返回值
func encodeValue(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := lib.Json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEncode, err)
	}
	return data, nil
}
