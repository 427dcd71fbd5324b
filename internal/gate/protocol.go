package gate

import (
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

// HeadLen 帧头: 4 字节包体长度 + 1 字节命令 + 4 字节序号
const HeadLen = 9

// 命令字
const (
	CmdView uint8 = iota + 1
	CmdCall
	CmdBalance
)

type Head struct {
	Len   uint32
	Cmd   uint8
	Index uint32
}

type Message struct {
	*Head
	Data []byte
}

func NewMessage(cmd uint8, index uint32, data []byte) *Message {
	return &Message{
		Head: &Head{Cmd: cmd, Index: index},
		Data: data,
	}
}

// Request 包体，使用 msgpack 编码
type Request struct {
	Signer   string `msgpack:"signer"`
	Receiver string `msgpack:"receiver"`
	Method   string `msgpack:"method"`
	// Args JSON 参数
	Args []byte `msgpack:"args"`
	// Deposit 十进制字符串，空表示 0
	Deposit string `msgpack:"deposit"`
	Gas     uint64 `msgpack:"gas"`
}

type Response struct {
	Status uint8 `msgpack:"status"`
	// Value JSON 返回值
	Value []byte   `msgpack:"value"`
	Error string   `msgpack:"error"`
	Logs  []string `msgpack:"logs"`
}

func (r *Response) PromiseStatus() iface.PromiseStatus {
	return iface.PromiseStatus(r.Status)
}

func (r *Request) tx() (host.Tx, error) {
	deposit := balance.Zero
	if r.Deposit != "" {
		var err error
		if deposit, err = balance.Parse(r.Deposit); err != nil {
			return host.Tx{}, err
		}
	}
	return host.Tx{
		Signer:   r.Signer,
		Receiver: r.Receiver,
		Method:   r.Method,
		Args:     r.Args,
		Deposit:  deposit,
		Gas:      r.Gas,
	}, nil
}

func failure(err error) *Response {
	return &Response{Status: uint8(iface.Failed), Error: err.Error()}
}
