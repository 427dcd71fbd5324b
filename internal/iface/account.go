package iface

import (
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
)

const (
	// MinAccountIdLen 账户名最短长度
	MinAccountIdLen = 2
	// MaxAccountIdLen 账户名最长长度
	MaxAccountIdLen = 64
)

type (
	// AccountId 账户（合约）的全局唯一名称
	AccountId = string

	// Gas 单次远程调用可使用的执行预算
	Gas = uint64
)

// ValidAccountId 校验账户名
// 规则: 2~64 个字符，只允许小写字母、数字以及分隔符 - _ . ，
// 分隔符不能出现在首尾，也不能连续出现
func ValidAccountId(id AccountId) error {
	if len(id) < MinAccountIdLen || len(id) > MaxAccountIdLen {
		return errs.ErrInvalidAccount(id)
	}
	lastSeparator := true
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastSeparator = false
		case c == '-' || c == '_' || c == '.':
			if lastSeparator {
				return errs.ErrInvalidAccount(id)
			}
			lastSeparator = true
		default:
			return errs.ErrInvalidAccount(id)
		}
	}
	if lastSeparator {
		return errs.ErrInvalidAccount(id)
	}
	return nil
}
