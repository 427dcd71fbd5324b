// Package host 在进程内模拟分片账户模型：每个账户是一个 actor，
// 合约方法在账户自己的邮箱中串行执行，跨合约调用通过 receipt 异步投递
package host

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/actor"
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/internal/ledger"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"go.uber.org/zap"
)

// Contract 已部署的合约代码，按方法名执行
type Contract interface {
	Handle(env iface.IEnv, method string) (iface.PromiseOrValue, error)
}

// accountActor 账户进程，contract 为 nil 表示普通账户
type accountActor struct {
	actor.Actor
	account  iface.AccountId
	contract Contract
}

type Host struct {
	opts      *Options
	store     ledger.Store
	pool      *lib.Pool
	wheel     *lib.Wheel
	system    *actor.System
	receipts  *lib.Listener[*ReceiptOutcome]
	receiptId atomic.Uint64
	txId      atomic.Uint64
}

func New(options ...Option) (*Host, error) {
	opts := loadOptions(options...)
	pool, err := lib.NewPool(opts.PoolSize)
	if err != nil {
		return nil, err
	}
	h := &Host{
		opts:     opts,
		store:    opts.Store,
		pool:     pool,
		receipts: lib.NewListener[*ReceiptOutcome](),
	}
	if opts.BlockDelay > 0 {
		h.wheel = lib.NewWheel(time.Millisecond, 512)
	}
	h.system = actor.NewSystem(
		actor.WithDispatcher(actor.NewPoolDispatcher(pool, opts.Throughput)),
		actor.WithMiddleware(traceMiddleware),
	)
	return h, nil
}

func traceMiddleware(next actor.Task) actor.Task {
	return func(ctx actor.IContext) error {
		start := time.Now()
		err := next(ctx)
		glog.Debug("account task", glog.Account(ctx.Name()), zap.Duration("cost", time.Since(start)), zap.Error(err))
		return err
	}
}

func (h *Host) Store() ledger.Store {
	return h.store
}

// OnReceipt 注册 receipt 完成回调
func (h *Host) OnReceipt(handler func(*ReceiptOutcome)) {
	h.receipts.Register(handler)
}

// Deploy 创建账户并部署合约，contract 为 nil 时只创建账户
func (h *Host) Deploy(ctx context.Context, account iface.AccountId, contract Contract, initial balance.Balance) error {
	if h.system.IsShuttingDown() {
		return errs.ErrHostShuttingDown
	}
	if err := iface.ValidAccountId(account); err != nil {
		return err
	}
	if err := h.store.Create(ctx, account, initial); err != nil {
		return err
	}
	if _, err := h.system.Spawn(account, &accountActor{account: account, contract: contract}); err != nil {
		return err
	}
	glog.Info("account created", glog.Account(account), zap.Stringer("balance", initial), zap.Bool("contract", contract != nil))
	return nil
}

func (h *Host) CreateAccount(ctx context.Context, account iface.AccountId, initial balance.Balance) error {
	return h.Deploy(ctx, account, nil, initial)
}

func (h *Host) Balance(ctx context.Context, account iface.AccountId) (balance.Balance, error) {
	return h.store.Balance(ctx, account)
}

// Accounts 已创建的账户
func (h *Host) Accounts() []iface.AccountId {
	return h.system.Names()
}

// ViewResult 只读调用结果
type ViewResult struct {
	Value []byte
	Logs  []string
}

// View 在账户进程中同步执行只读方法，不允许创建 promise
func (h *Host) View(ctx context.Context, account iface.AccountId, method string, args []byte) (*ViewResult, error) {
	if h.system.IsShuttingDown() {
		return nil, errs.ErrHostShuttingDown
	}
	result := &ViewResult{}
	err := h.system.PushTaskAndWait(ctx, account, func(actx actor.IContext) error {
		a := actx.Actor().(*accountActor)
		if a.contract == nil {
			return errs.ErrNotContract
		}
		e := &env{
			host:        h,
			ctx:         ctx,
			current:     account,
			predecessor: account,
			signer:      account,
			deposit:     balance.Zero,
			prepaid:     DefaultViewGas,
			input:       args,
		}
		out, err := invoke(a.contract, e, method)
		result.Logs = e.logs
		if err != nil {
			return err
		}
		if out.IsPromise() {
			return errs.ErrPromiseInView
		}
		result.Value, err = encodeValue(out.Value())
		return err
	})
	if errors.Is(err, errs.ErrProcessNotFound) {
		return nil, errs.ErrAccountMissing(account)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Call 提交交易，附加的存款立即从 signer 扣除
func (h *Host) Call(ctx context.Context, tx Tx) (*Transaction, error) {
	if h.system.IsShuttingDown() {
		return nil, errs.ErrHostShuttingDown
	}
	if err := iface.ValidAccountId(tx.Receiver); err != nil {
		return nil, err
	}
	ok, err := h.store.Exists(ctx, tx.Signer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrAccountMissing(tx.Signer)
	}
	if tx.Gas == 0 {
		tx.Gas = DefaultTxGas
	}
	if !tx.Deposit.IsZero() {
		if _, err = h.store.Debit(ctx, tx.Signer, tx.Deposit); err != nil {
			return nil, err
		}
	}

	t := newTransaction(h.txId.Add(1), tx)
	r := &receipt{
		id:          h.receiptId.Add(1),
		tx:          t,
		predecessor: tx.Signer,
		signer:      tx.Signer,
		receiver:    tx.Receiver,
		actions: []iface.Action{&iface.FunctionCall{
			Method:  tx.Method,
			Args:    tx.Args,
			Deposit: tx.Deposit,
			Gas:     tx.Gas,
		}},
	}
	glog.Debug("transaction submitted", glog.Tx(t.Id), zap.String("signer", tx.Signer),
		zap.String("receiver", tx.Receiver), glog.Method(tx.Method))
	h.deliver(r, t.finish)
	return t, nil
}

// Execute 提交交易并等待最终结果
func (h *Host) Execute(ctx context.Context, tx Tx) (*FinalOutcome, error) {
	t, err := h.Call(ctx, tx)
	if err != nil {
		return nil, err
	}
	return t.Wait(ctx)
}

// Stop 关闭所有账户进程并释放资源
func (h *Host) Stop() {
	if err := h.system.Shutdown(); err != nil {
		glog.Warn("shutdown actor system failed", zap.Error(err))
	}
	if h.wheel != nil {
		h.wheel.Stop()
	}
	h.pool.Release()
	if err := h.store.Close(); err != nil {
		glog.Warn("close ledger failed", zap.Error(err))
	}
}
