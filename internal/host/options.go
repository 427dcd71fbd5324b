package host

import (
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/internal/ledger"
)

// 默认 gas 计价，保证 2.4 Tgas 足够执行一次 get_balance 或回调
const (
	DefaultCallBaseGas iface.Gas = 1_000_000_000_000
	DefaultLogGas      iface.Gas = 10_000_000_000
	DefaultPromiseGas  iface.Gas = 100_000_000_000
	// DefaultTxGas 交易未指定 gas 时使用
	DefaultTxGas iface.Gas = 300_000_000_000_000
	// DefaultViewGas 只读调用的 gas 额度
	DefaultViewGas iface.Gas = 100_000_000_000_000
)

type Option func(*Options)

type Options struct {
	Store ledger.Store
	// PoolSize 执行 receipt 的协程池大小，<= 0 不限制
	PoolSize int
	// Throughput 每个账户一次调度最多连续执行的 receipt 数
	Throughput int
	// BlockDelay receipt 投递延迟，0 表示立即投递
	BlockDelay  time.Duration
	CallBaseGas iface.Gas
	LogGas      iface.Gas
	PromiseGas  iface.Gas
}

func loadOptions(options ...Option) *Options {
	opts := &Options{
		Throughput:  64,
		CallBaseGas: DefaultCallBaseGas,
		LogGas:      DefaultLogGas,
		PromiseGas:  DefaultPromiseGas,
	}
	for _, option := range options {
		option(opts)
	}
	if opts.Store == nil {
		opts.Store = ledger.NewMemory()
	}
	return opts
}

func WithStore(store ledger.Store) Option {
	return func(op *Options) {
		op.Store = store
	}
}

func WithPoolSize(size int) Option {
	return func(op *Options) {
		op.PoolSize = size
	}
}

func WithThroughput(throughput int) Option {
	return func(op *Options) {
		op.Throughput = throughput
	}
}

func WithBlockDelay(delay time.Duration) Option {
	return func(op *Options) {
		op.BlockDelay = delay
	}
}

func WithGasCosts(callBase, log, promise iface.Gas) Option {
	return func(op *Options) {
		op.CallBaseGas = callBase
		op.LogGas = log
		op.PromiseGas = promise
	}
}
