// Package codec 定义与对端合约交换的余额数据结构及其编解码
package codec

import (
	"errors"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
)

// BalanceExt 对端 get_balance 的返回值
// JSON: {"account_id": "carol", "balance": "1000000000000000000000000"}
type BalanceExt struct {
	AccountId iface.AccountId `json:"account_id"`
	Balance   balance.Balance `json:"balance"`
}

// wireBalanceExt 解码用的宽松结构，用指针区分字段缺失
// account 是 account_id 的别名
type wireBalanceExt struct {
	AccountId *string          `json:"account_id"`
	Account   *string          `json:"account"`
	Balance   *balance.Balance `json:"balance"`
}

// Encode 序列化，账户名不合法时返回错误
func Encode(record *BalanceExt) ([]byte, error) {
	if record == nil {
		return nil, errs.ErrEncode
	}
	if err := iface.ValidAccountId(record.AccountId); err != nil {
		return nil, errors.Join(errs.ErrEncode, err)
	}
	data, err := lib.Json.Marshal(record)
	if err != nil {
		return nil, errors.Join(errs.ErrEncode, err)
	}
	return data, nil
}

// Decode 反序列化对端返回的数据。
// 数据来自不可信的对端，任何格式问题都返回 errs.ErrDecode，不会 panic。
func Decode(data []byte) (record *BalanceExt, err error) {
	defer func() {
		if r := recover(); r != nil {
			record, err = nil, errs.ErrDecodeCause(errs.ErrMethodPanic("decode", r))
		}
	}()

	if len(data) == 0 {
		return nil, errs.ErrDecodeCause(lib.ErrJsonUnPack)
	}
	var wire wireBalanceExt
	if err = lib.Json.Unmarshal(data, &wire); err != nil {
		return nil, errs.ErrDecodeCause(err)
	}

	var account string
	switch {
	case wire.AccountId != nil && wire.Account != nil:
		return nil, errs.ErrDecodeCause(errors.New("both account_id and account present"))
	case wire.AccountId != nil:
		account = *wire.AccountId
	case wire.Account != nil:
		account = *wire.Account
	default:
		return nil, errs.ErrDecodeCause(errors.New("missing field account_id"))
	}
	if wire.Balance == nil {
		return nil, errs.ErrDecodeCause(errors.New("missing field balance"))
	}
	if err = iface.ValidAccountId(account); err != nil {
		return nil, errs.ErrDecodeCause(err)
	}
	return &BalanceExt{AccountId: account, Balance: *wire.Balance}, nil
}
