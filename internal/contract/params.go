package contract

import (
	"github.com/3ugen/challenge9-call-cross-contract/internal/codec"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

const (
	// DefaultBaseGas 每次远程调用附加的 gas
	DefaultBaseGas iface.Gas = 2428055156040
	// DefaultThresholdUnits 余额低于 15 个单位时补款
	DefaultThresholdUnits = 15
	// DefaultTopUpUnits 每次补款 2 个单位
	DefaultTopUpUnits = 2
	// DefaultTransferTo transfer_amount 的固定收款方
	DefaultTransferTo = "challenge9-b.3ugen.testnet"
)

// Params 合约的固定参数
type Params struct {
	NoDeposit      balance.Balance
	BaseGas        iface.Gas
	OneUnit        balance.Balance
	ThresholdUnits uint64
	TopUpUnits     uint64
	TransferTo     iface.AccountId
}

func DefaultParams() Params {
	return Params{
		NoDeposit:      balance.Zero,
		BaseGas:        DefaultBaseGas,
		OneUnit:        balance.OneNear,
		ThresholdUnits: DefaultThresholdUnits,
		TopUpUnits:     DefaultTopUpUnits,
		TransferTo:     DefaultTransferTo,
	}
}

// Policy 回调的阈值策略
type Policy struct {
	Threshold balance.Balance
	TopUp     balance.Balance
}

// NewPolicy 由参数计算阈值和补款金额，乘法溢出时返回错误
func NewPolicy(p Params) (Policy, error) {
	threshold, err := p.OneUnit.MulUint64(p.ThresholdUnits)
	if err != nil {
		return Policy{}, err
	}
	topUp, err := p.OneUnit.MulUint64(p.TopUpUnits)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Threshold: threshold, TopUp: topUp}, nil
}

// Decision 策略结果，Transfer 为 false 时其余字段无意义
type Decision struct {
	Transfer bool
	To       iface.AccountId
	Amount   balance.Balance
}

// Decide balance < Threshold 时给 record.AccountId 补款，等于阈值不补
func (p Policy) Decide(record *codec.BalanceExt) Decision {
	if record.Balance.LessThan(p.Threshold) {
		return Decision{Transfer: true, To: record.AccountId, Amount: p.TopUp}
	}
	return Decision{}
}
