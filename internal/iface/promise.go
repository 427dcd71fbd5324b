package iface

import (
	"fmt"

	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

// PromiseStatus 远程调用结果的状态
type PromiseStatus int

const (
	NotReady PromiseStatus = iota
	Successful
	Failed
)

func (s PromiseStatus) String() string {
	switch s {
	case NotReady:
		return "NotReady"
	case Successful:
		return "Successful"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("PromiseStatus(%d)", int(s))
	}
}

// PromiseResult 已完成的远程调用结果，由宿主产生一次并交给回调消费一次
type PromiseResult struct {
	Status PromiseStatus
	// Value 仅在 Successful 时有值，内容是被调方法返回值的 JSON
	Value []byte
}

func SuccessResult(value []byte) PromiseResult {
	return PromiseResult{Status: Successful, Value: value}
}

func FailedResult() PromiseResult {
	return PromiseResult{Status: Failed}
}

func NotReadyResult() PromiseResult {
	return PromiseResult{Status: NotReady}
}

type (
	// Action receipt 中的单个动作
	Action interface {
		ActionName() string
	}

	// FunctionCall 调用接收方合约的方法
	FunctionCall struct {
		Method  string
		Args    []byte
		Deposit balance.Balance
		Gas     Gas
	}

	// Transfer 向接收方转账
	Transfer struct {
		Amount balance.Balance
	}
)

func (*FunctionCall) ActionName() string { return "FunctionCall" }
func (*Transfer) ActionName() string     { return "Transfer" }

// Promise 描述一个尚未执行的 receipt 及其依赖关系，只有宿主调度器理解它。
// Promise 不可变，所有构造方法都返回新的实例。
type Promise struct {
	receiver AccountId
	actions  []Action
	// joint 非空时表示 And 组合，本身不含动作
	joint []*Promise
	// after 依赖的 promise，其结果会作为本 promise 的 PromiseResult 传入
	after *Promise
}

func NewPromise(receiver AccountId) *Promise {
	return &Promise{receiver: receiver}
}

func (p *Promise) clone() *Promise {
	c := *p
	c.actions = append([]Action(nil), p.actions...)
	c.joint = append([]*Promise(nil), p.joint...)
	return &c
}

func (p *Promise) FunctionCall(method string, args []byte, deposit balance.Balance, gas Gas) *Promise {
	c := p.clone()
	c.actions = append(c.actions, &FunctionCall{Method: method, Args: args, Deposit: deposit, Gas: gas})
	return c
}

func (p *Promise) Transfer(amount balance.Balance) *Promise {
	c := p.clone()
	c.actions = append(c.actions, &Transfer{Amount: amount})
	return c
}

// Then 在 p 完成后执行 next，next 收到 p 的结果。
// next 不能已经依赖其他 promise。
func (p *Promise) Then(next *Promise) *Promise {
	if next.after != nil {
		panic("promise is already scheduled after another promise")
	}
	c := next.clone()
	c.after = p
	return c
}

// And 组合多个 promise，后续 Then 会按顺序收到每一个结果
func (p *Promise) And(others ...*Promise) *Promise {
	joint := make([]*Promise, 0, len(others)+1)
	joint = append(joint, p)
	joint = append(joint, others...)
	return &Promise{joint: joint}
}

func (p *Promise) Receiver() AccountId { return p.receiver }
func (p *Promise) Actions() []Action   { return p.actions }
func (p *Promise) Joint() []*Promise   { return p.joint }
func (p *Promise) After() *Promise     { return p.after }
func (p *Promise) IsJoint() bool       { return len(p.joint) > 0 }

// Walk 按依赖优先的顺序访问所有 promise 节点
func (p *Promise) Walk(fn func(*Promise)) {
	if p == nil {
		return
	}
	if p.after != nil {
		p.after.Walk(fn)
	}
	for _, j := range p.joint {
		j.Walk(fn)
	}
	fn(p)
}

// PromiseOrValue 合约方法的返回值: 要么是新的 promise，要么是一个普通值
type PromiseOrValue struct {
	promise *Promise
	value   interface{}
}

func AsPromise(p *Promise) PromiseOrValue {
	return PromiseOrValue{promise: p}
}

func AsValue(v interface{}) PromiseOrValue {
	return PromiseOrValue{value: v}
}

func (r PromiseOrValue) IsPromise() bool      { return r.promise != nil }
func (r PromiseOrValue) Promise() *Promise    { return r.promise }
func (r PromiseOrValue) Value() interface{}   { return r.value }
