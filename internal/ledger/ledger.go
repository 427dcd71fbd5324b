// Package ledger 保存账户余额
package ledger

import (
	"context"

	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

// Store 账户余额存储，所有实现都必须保证单个账户的读改写是原子的
type Store interface {
	// Create 创建账户，账户已存在时返回 errs.ErrAccountExists
	Create(ctx context.Context, account iface.AccountId, initial balance.Balance) error
	Exists(ctx context.Context, account iface.AccountId) (bool, error)
	// Balance 账户不存在时返回 errs.ErrAccountNotFound
	Balance(ctx context.Context, account iface.AccountId) (balance.Balance, error)
	// Credit 入账并返回新余额
	Credit(ctx context.Context, account iface.AccountId, amount balance.Balance) (balance.Balance, error)
	// Debit 扣款并返回新余额，余额不足时返回 errs.ErrInsufficientBalance 且不修改
	Debit(ctx context.Context, account iface.AccountId, amount balance.Balance) (balance.Balance, error)
	// Accounts 所有账户，按字典序
	Accounts(ctx context.Context) ([]iface.AccountId, error)
	Close() error
}

func credit(current, amount balance.Balance) (balance.Balance, error) {
	return current.Add(amount)
}

func debit(current, amount balance.Balance) (balance.Balance, error) {
	if current.LessThan(amount) {
		return balance.Balance{}, errInsufficient(current, amount)
	}
	return current.Sub(amount)
}
