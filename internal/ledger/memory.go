package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/duke-git/lancet/v2/maputil"
	"golang.org/x/exp/slices"
)

var _ Store = (*Memory)(nil)

// Memory 进程内账本
type Memory struct {
	mu       sync.RWMutex
	balances map[iface.AccountId]balance.Balance
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[iface.AccountId]balance.Balance)}
}

func (m *Memory) Create(_ context.Context, account iface.AccountId, initial balance.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[account]; ok {
		return errs.ErrAccountDuplicated(account)
	}
	m.balances[account] = initial
	return nil
}

func (m *Memory) Exists(_ context.Context, account iface.AccountId) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.balances[account]
	return ok, nil
}

func (m *Memory) Balance(_ context.Context, account iface.AccountId) (balance.Balance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.balances[account]
	if !ok {
		return balance.Balance{}, errs.ErrAccountMissing(account)
	}
	return b, nil
}

func (m *Memory) Credit(_ context.Context, account iface.AccountId, amount balance.Balance) (balance.Balance, error) {
	return m.update(account, amount, credit)
}

func (m *Memory) Debit(_ context.Context, account iface.AccountId, amount balance.Balance) (balance.Balance, error) {
	return m.update(account, amount, debit)
}

func (m *Memory) update(account iface.AccountId, amount balance.Balance, op func(current, amount balance.Balance) (balance.Balance, error)) (balance.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.balances[account]
	if !ok {
		return balance.Balance{}, errs.ErrAccountMissing(account)
	}
	next, err := op(current, amount)
	if err != nil {
		return balance.Balance{}, fmt.Errorf("ledger %s: %w", account, err)
	}
	m.balances[account] = next
	return next, nil
}

func (m *Memory) Accounts(_ context.Context) ([]iface.AccountId, error) {
	m.mu.RLock()
	accounts := maputil.Keys(m.balances)
	m.mu.RUnlock()
	slices.Sort(accounts)
	return accounts, nil
}

func (m *Memory) Close() error {
	return nil
}
