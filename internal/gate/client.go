package gate

import (
	"encoding/binary"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"github.com/pkg/errors"
)

// Client 阻塞式客户端，同一时间只有一个请求在途
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	codec   *Codec
	index   uint32
	timeout time.Duration
}

// Dial protoAddr 形如 tcp://127.0.0.1:9400
func Dial(protoAddr string, timeout time.Duration) (*Client, error) {
	network, addr := "tcp", protoAddr
	if i := strings.Index(protoAddr, "://"); i >= 0 {
		network, addr = protoAddr[:i], protoAddr[i+3:]
	}
	conn, err := net.DialTimeout(network, addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", protoAddr)
	}
	return &Client{conn: conn, codec: NewCodec(0), timeout: timeout}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) View(receiver, method string, args []byte) (*Response, error) {
	return c.Request(CmdView, &Request{Receiver: receiver, Method: method, Args: args})
}

func (c *Client) Call(req *Request) (*Response, error) {
	return c.Request(CmdCall, req)
}

func (c *Client) Balance(account string) (balance.Balance, error) {
	resp, err := c.Request(CmdBalance, &Request{Receiver: account})
	if err != nil {
		return balance.Zero, err
	}
	if resp.Error != "" {
		return balance.Zero, errors.New(resp.Error)
	}
	var b balance.Balance
	if err = lib.Json.Unmarshal(resp.Value, &b); err != nil {
		return balance.Zero, errors.Wrap(err, "decode balance")
	}
	return b, nil
}

// Request 发送请求并等待同序号的响应
func (c *Client) Request(cmd uint8, req *Request) (*Response, error) {
	data, err := lib.MsgPack.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.index++
	index := c.index
	if c.timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	}
	if _, err = c.conn.Write(c.codec.Encode(NewMessage(cmd, index, data))); err != nil {
		return nil, errors.Wrap(err, "write request")
	}

	head := make([]byte, HeadLen)
	if _, err = io.ReadFull(c.conn, head); err != nil {
		return nil, errors.Wrap(err, "read response head")
	}
	frame := make([]byte, HeadLen+int(binary.BigEndian.Uint32(head)))
	copy(frame, head)
	if _, err = io.ReadFull(c.conn, frame[HeadLen:]); err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	msg, _, err := c.codec.Decode(frame)
	if err != nil {
		return nil, err
	}
	if msg.Index != index || msg.Cmd != cmd {
		return nil, errors.Wrapf(errs.ErrInvalidCodecMessageType, "unexpected response cmd %d index %d", msg.Cmd, msg.Index)
	}
	resp := &Response{}
	if err = lib.MsgPack.Unmarshal(msg.Data, resp); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return resp, nil
}
