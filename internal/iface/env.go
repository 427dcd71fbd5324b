// Package iface 定义合约与宿主之间的核心接口和数据类型
// 包括账户、promise 调用图、调用结果以及合约执行环境
package iface

import (
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

// IEnv 合约方法执行期间由宿主提供的环境。
// 每次调用都会创建新的 IEnv，调用结束后不得保留引用。
type IEnv interface {
	// CurrentAccountId 当前执行合约的账户
	CurrentAccountId() AccountId

	// PredecessorAccountId 直接调用方账户
	// 对于回调，调用方就是发起 Then 的合约自身
	PredecessorAccountId() AccountId

	// SignerAccountId 最初签名交易的账户
	SignerAccountId() AccountId

	// AccountBalance 当前账户余额（已包含本次附加的存款）
	AccountBalance() balance.Balance

	// AttachedDeposit 本次调用附加的存款
	AttachedDeposit() balance.Balance

	// PrepaidGas 本次调用的预付 gas
	PrepaidGas() Gas

	// UsedGas 截至目前已使用的 gas
	UsedGas() Gas

	// Input 调用参数的原始 JSON
	Input() []byte

	// Log 记录一条合约日志
	Log(msg string)

	// PromiseResultsCount 当前调用可见的 promise 结果个数
	PromiseResultsCount() int

	// PromiseResult 读取第 index 个 promise 结果
	// index 越界时返回 Failed
	PromiseResult(index int) PromiseResult
}

// Handler 无参数合约方法
type Handler func(env IEnv) (PromiseOrValue, error)
