package host

import (
	"context"
	"sync"

	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"golang.org/x/exp/slices"
)

// Tx 外部账户签名的一次方法调用
type Tx struct {
	Signer   iface.AccountId
	Receiver iface.AccountId
	Method   string
	Args     []byte
	Deposit  balance.Balance
	Gas      iface.Gas
}

// ReceiptOutcome 单个 receipt 的执行结果
type ReceiptOutcome struct {
	Id          uint64
	Predecessor iface.AccountId
	Executor    iface.AccountId
	// Actions 动作名，例如 FunctionCall(get_balance)
	Actions  []string
	Status   iface.PromiseStatus
	Value    []byte
	Error    string
	Logs     []string
	GasBurnt iface.Gas
}

// FinalOutcome 交易最终结果，返回 promise 的 receipt 以该 promise 的结果为准
type FinalOutcome struct {
	Status   iface.PromiseStatus
	Value    []byte
	Error    string
	Receipts []ReceiptOutcome
}

// DecodeValue 按 JSON 解析返回值
func (o *FinalOutcome) DecodeValue(v interface{}) error {
	return lib.Json.Unmarshal(o.Value, v)
}

// Logs 按 receipt 顺序汇总的日志
func (o *FinalOutcome) Logs() []string {
	var logs []string
	for _, r := range o.Receipts {
		logs = append(logs, r.Logs...)
	}
	return logs
}

// Receipt 按执行者和方法查找 receipt
func (o *FinalOutcome) Receipt(executor iface.AccountId, action string) (ReceiptOutcome, bool) {
	for _, r := range o.Receipts {
		if r.Executor == executor && slices.Contains(r.Actions, action) {
			return r, true
		}
	}
	return ReceiptOutcome{}, false
}

type Transaction struct {
	Id     uint64
	Tx     Tx
	mu     sync.Mutex
	items  []ReceiptOutcome
	waiter *lib.Waiter[*FinalOutcome]
}

func newTransaction(id uint64, tx Tx) *Transaction {
	return &Transaction{
		Id:     id,
		Tx:     tx,
		waiter: lib.NewWaiter[*FinalOutcome](),
	}
}

func (t *Transaction) record(outcome ReceiptOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, outcome)
}

// finish 所有 receipt 都已结束后调用一次
func (t *Transaction) finish(res resolution) {
	t.mu.Lock()
	receipts := slices.Clone(t.items)
	t.mu.Unlock()
	slices.SortFunc(receipts, func(a, b ReceiptOutcome) int {
		switch {
		case a.Id < b.Id:
			return -1
		case a.Id > b.Id:
			return 1
		}
		return 0
	})
	t.waiter.Done(&FinalOutcome{
		Status:   res.result.Status,
		Value:    res.result.Value,
		Error:    res.err,
		Receipts: receipts,
	})
}

// Wait 等待交易执行完成
func (t *Transaction) Wait(ctx context.Context) (*FinalOutcome, error) {
	return t.waiter.Wait(ctx)
}
