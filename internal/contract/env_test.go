package contract

import (
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

var _ iface.IEnv = (*fakeEnv)(nil)

// fakeEnv 测试用执行环境
type fakeEnv struct {
	current     iface.AccountId
	predecessor iface.AccountId
	balance     balance.Balance
	input       []byte
	results     []iface.PromiseResult
	logs        []string
}

func newFakeEnv(results ...iface.PromiseResult) *fakeEnv {
	return &fakeEnv{
		current:     "alice_near",
		predecessor: "alice_near",
		balance:     balance.OneNear,
		results:     results,
	}
}

func (e *fakeEnv) CurrentAccountId() iface.AccountId     { return e.current }
func (e *fakeEnv) PredecessorAccountId() iface.AccountId { return e.predecessor }
func (e *fakeEnv) SignerAccountId() iface.AccountId      { return "bob_near" }
func (e *fakeEnv) AccountBalance() balance.Balance       { return e.balance }
func (e *fakeEnv) AttachedDeposit() balance.Balance      { return balance.Zero }
func (e *fakeEnv) PrepaidGas() iface.Gas                 { return 300_000_000_000_000 }
func (e *fakeEnv) UsedGas() iface.Gas                    { return 0 }
func (e *fakeEnv) Input() []byte                         { return e.input }
func (e *fakeEnv) Log(msg string)                        { e.logs = append(e.logs, msg) }
func (e *fakeEnv) PromiseResultsCount() int              { return len(e.results) }

func (e *fakeEnv) PromiseResult(index int) iface.PromiseResult {
	if index < 0 || index >= len(e.results) {
		return iface.FailedResult()
	}
	return e.results[index]
}
