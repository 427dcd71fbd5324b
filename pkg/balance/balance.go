// Package balance 提供账本金额类型，取值范围为无符号 128 位整数
package balance

import (
	"encoding/json"
	"errors"
	"fmt"
	gobig "math/big"

	"github.com/filecoin-project/go-state-types/big"
)

// Bits 金额的最大位宽
const Bits = 128

var (
	ErrOverflow = errors.New("balance: u128 overflow")
	ErrNegative = errors.New("balance: negative amount")
	ErrSyntax   = errors.New("balance: invalid decimal string")
)

var (
	// Zero 零金额
	Zero = Balance{}
	// OneNear 账本基础单位，1 NEAR = 10^24 yoctoNEAR
	OneNear = MustParse("1000000000000000000000000")
	// Max u128 最大值
	Max = Balance{v: big.NewFromGo(new(gobig.Int).Sub(new(gobig.Int).Lsh(gobig.NewInt(1), Bits), gobig.NewInt(1)))}
)

// Balance 无符号 128 位金额，所有运算都做溢出检查，不会回绕
type Balance struct {
	v big.Int
}

func FromUint64(n uint64) Balance {
	return Balance{v: big.NewIntUnsigned(n)}
}

// FromBig 校验并转换任意精度整数
func FromBig(i big.Int) (Balance, error) {
	if i.Int == nil {
		return Zero, nil
	}
	if i.Sign() < 0 {
		return Zero, ErrNegative
	}
	if i.Int.BitLen() > Bits {
		return Zero, ErrOverflow
	}
	return Balance{v: i}, nil
}

// Parse 解析十进制字符串，只接受纯数字
func Parse(s string) (Balance, error) {
	if s == "" {
		return Zero, ErrSyntax
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
	}
	i, err := big.FromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return FromBig(i)
}

func MustParse(s string) Balance {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Balance) big() big.Int {
	if b.v.Int == nil {
		return big.Zero()
	}
	return b.v
}

// Big 返回底层整数的副本
func (b Balance) Big() big.Int {
	return big.NewFromGo(new(gobig.Int).Set(b.big().Int))
}

func (b Balance) Add(o Balance) (Balance, error) {
	return FromBig(big.Add(b.big(), o.big()))
}

func (b Balance) Sub(o Balance) (Balance, error) {
	return FromBig(big.Sub(b.big(), o.big()))
}

// MulUint64 乘以一个倍数，例如 15 * OneNear
func (b Balance) MulUint64(n uint64) (Balance, error) {
	return FromBig(big.Mul(b.big(), big.NewIntUnsigned(n)))
}

func (b Balance) Cmp(o Balance) int {
	return big.Cmp(b.big(), o.big())
}

func (b Balance) LessThan(o Balance) bool {
	return b.Cmp(o) < 0
}

func (b Balance) Equals(o Balance) bool {
	return b.Cmp(o) == 0
}

func (b Balance) IsZero() bool {
	return b.big().Sign() == 0
}

func (b Balance) String() string {
	return b.big().String()
}

func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON 只接受带引号的十进制字符串，与 U128 的 JSON 形式一致
func (b *Balance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Balance) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Sum 累加，任何一步溢出都返回错误
func Sum(values ...Balance) (Balance, error) {
	total := Zero
	for _, v := range values {
		var err error
		if total, err = total.Add(v); err != nil {
			return Zero, err
		}
	}
	return total, nil
}
