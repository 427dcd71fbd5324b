package contract

import (
	"encoding/json"

	"github.com/3ugen/challenge9-call-cross-contract/internal/codec"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

type ReporterOption func(*Reporter)

// WithReportAccount get_balance 中返回的账户名，默认是合约自身
func WithReportAccount(account iface.AccountId) ReporterOption {
	return func(r *Reporter) {
		r.account = account
	}
}

// WithFixedBalance 固定返回的余额，不读取账本
func WithFixedBalance(b balance.Balance) ReporterOption {
	return func(r *Reporter) {
		r.fixed = &b
	}
}

// WithRawReply 直接返回给定的 JSON，用于模拟格式不符的对端
func WithRawReply(raw json.RawMessage) ReporterOption {
	return func(r *Reporter) {
		r.raw = raw
	}
}

// Reporter 对端合约，导出 get_balance 返回 BalanceExt
type Reporter struct {
	account iface.AccountId
	fixed   *balance.Balance
	raw     json.RawMessage
}

func NewReporter(options ...ReporterOption) *Reporter {
	r := &Reporter{}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *Reporter) Router() *Router {
	router := NewRouter()
	mustRegister(router, MethodGetBalance, r.GetBalance)
	return router
}

func (r *Reporter) GetBalance(env iface.IEnv) (iface.PromiseOrValue, error) {
	if r.raw != nil {
		return iface.AsValue(r.raw), nil
	}
	record := &codec.BalanceExt{
		AccountId: r.account,
		Balance:   env.AccountBalance(),
	}
	if record.AccountId == "" {
		record.AccountId = env.CurrentAccountId()
	}
	if r.fixed != nil {
		record.Balance = *r.fixed
	}
	data, err := codec.Encode(record)
	if err != nil {
		return iface.PromiseOrValue{}, err
	}
	return iface.AsValue(json.RawMessage(data)), nil
}
