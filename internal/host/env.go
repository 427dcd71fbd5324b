package host

import (
	"context"

	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"go.uber.org/zap"
)

var _ iface.IEnv = (*env)(nil)

// env 单次方法调用的执行环境
type env struct {
	host        *Host
	ctx         context.Context
	current     iface.AccountId
	predecessor iface.AccountId
	signer      iface.AccountId
	deposit     balance.Balance
	prepaid     iface.Gas
	input       []byte
	results     []iface.PromiseResult
	logs        []string
}

func (e *env) CurrentAccountId() iface.AccountId     { return e.current }
func (e *env) PredecessorAccountId() iface.AccountId { return e.predecessor }
func (e *env) SignerAccountId() iface.AccountId      { return e.signer }
func (e *env) AttachedDeposit() balance.Balance      { return e.deposit }
func (e *env) PrepaidGas() iface.Gas                 { return e.prepaid }
func (e *env) Input() []byte                         { return e.input }
func (e *env) PromiseResultsCount() int              { return len(e.results) }

func (e *env) AccountBalance() balance.Balance {
	b, err := e.host.store.Balance(e.ctx, e.current)
	if err != nil {
		glog.Warn("read account balance failed", glog.Account(e.current), zap.Error(err))
		return balance.Zero
	}
	return b
}

func (e *env) UsedGas() iface.Gas {
	return e.host.opts.CallBaseGas + iface.Gas(len(e.logs))*e.host.opts.LogGas
}

func (e *env) Log(msg string) {
	e.logs = append(e.logs, msg)
	glog.Contract(e.current).Debug(msg)
}

func (e *env) PromiseResult(index int) iface.PromiseResult {
	if index < 0 || index >= len(e.results) {
		return iface.FailedResult()
	}
	return e.results[index]
}
