// Package gate 基于 gnet 的交易网关，客户端通过它查询和提交交易
package gate

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/internal/iface"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"github.com/panjf2000/gnet/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Backend 网关转发请求的目标
type Backend interface {
	View(ctx context.Context, account iface.AccountId, method string, args []byte) (*host.ViewResult, error)
	Execute(ctx context.Context, tx host.Tx) (*host.FinalOutcome, error)
	Balance(ctx context.Context, account iface.AccountId) (balance.Balance, error)
}

type Option func(*Options)

type Options struct {
	Multicore bool
	MaxFrame  int
	// RequestTimeout 单个请求的处理超时
	RequestTimeout time.Duration
}

func loadOptions(options ...Option) *Options {
	opts := &Options{
		MaxFrame:       1 << 20,
		RequestTimeout: 10 * time.Second,
	}
	for _, option := range options {
		option(opts)
	}
	return opts
}

func WithMulticore(multicore bool) Option {
	return func(op *Options) {
		op.Multicore = multicore
	}
}

func WithMaxFrame(size int) Option {
	return func(op *Options) {
		op.MaxFrame = size
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(op *Options) {
		op.RequestTimeout = timeout
	}
}

type Server struct {
	gnet.BuiltinEventEngine
	opts      *Options
	protoAddr string
	backend   Backend
	codec     *Codec
	pool      *lib.Pool
	eng       gnet.Engine
	booted    chan struct{}
	conns     atomic.Int64
}

func NewServer(protoAddr string, backend Backend, options ...Option) (*Server, error) {
	opts := loadOptions(options...)
	pool, err := lib.NewPool(0)
	if err != nil {
		return nil, err
	}
	return &Server{
		opts:      opts,
		protoAddr: protoAddr,
		backend:   backend,
		codec:     NewCodec(opts.MaxFrame),
		pool:      pool,
		booted:    make(chan struct{}),
	}, nil
}

// Serve 阻塞直到 Stop
func (s *Server) Serve() error {
	return gnet.Run(s, s.protoAddr, gnet.WithMulticore(s.opts.Multicore), gnet.WithReusePort(false))
}

// Booted 监听成功后关闭
func (s *Server) Booted() <-chan struct{} {
	return s.booted
}

func (s *Server) Stop(ctx context.Context) error {
	defer s.pool.Release()
	return s.eng.Stop(ctx)
}

func (s *Server) Addr() string {
	return s.protoAddr
}

func (s *Server) Connections() int64 {
	return s.conns.Load()
}

func (s *Server) OnBoot(eng gnet.Engine) (action gnet.Action) {
	s.eng = eng
	close(s.booted)
	glog.Info("gate listening", zap.String("addr", s.protoAddr))
	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	s.conns.Add(1)
	return nil, gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) (action gnet.Action) {
	s.conns.Add(-1)
	if err != nil {
		glog.Debug("gate connection closed", zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
	}
	return gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) (action gnet.Action) {
	for {
		buf, err := c.Peek(c.InboundBuffered())
		if err != nil {
			return gnet.Close
		}
		msg, n, err := s.codec.Decode(buf)
		if err != nil {
			glog.Warn("gate decode failed", zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
			return gnet.Close
		}
		if msg == nil {
			return gnet.None
		}
		_, _ = c.Discard(n)
		s.dispatch(c, msg)
	}
}

// dispatch 请求可能等待交易完成，不能阻塞事件循环
func (s *Server) dispatch(c gnet.Conn, msg *Message) {
	err := s.pool.Submit(func() {
		resp := s.handle(msg)
		data, err := lib.MsgPack.Marshal(resp)
		if err != nil {
			glog.Error("gate encode response failed", zap.Error(err))
			return
		}
		frame := s.codec.Encode(NewMessage(msg.Cmd, msg.Index, data))
		if err = c.AsyncWrite(frame, nil); err != nil {
			glog.Debug("gate write failed", zap.Error(err))
		}
	}, func(r interface{}) {
		glog.Error("gate handler panic", glog.Panic(r), zap.Stack("stack"))
	})
	if err != nil {
		glog.Error("gate submit failed", zap.Error(err))
	}
}

func (s *Server) handle(msg *Message) *Response {
	req := &Request{}
	if err := lib.MsgPack.Unmarshal(msg.Data, req); err != nil {
		return failure(errors.Wrap(err, "decode request"))
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RequestTimeout)
	defer cancel()

	switch msg.Cmd {
	case CmdView:
		result, err := s.backend.View(ctx, req.Receiver, req.Method, req.Args)
		if err != nil {
			return failure(err)
		}
		return &Response{Status: uint8(iface.Successful), Value: result.Value, Logs: result.Logs}
	case CmdCall:
		tx, err := req.tx()
		if err != nil {
			return failure(err)
		}
		outcome, err := s.backend.Execute(ctx, tx)
		if err != nil {
			return failure(err)
		}
		return &Response{
			Status: uint8(outcome.Status),
			Value:  outcome.Value,
			Error:  outcome.Error,
			Logs:   outcome.Logs(),
		}
	case CmdBalance:
		b, err := s.backend.Balance(ctx, req.Receiver)
		if err != nil {
			return failure(err)
		}
		value, err := lib.Json.Marshal(b)
		if err != nil {
			return failure(err)
		}
		return &Response{Status: uint8(iface.Successful), Value: value}
	default:
		return failure(errors.Wrapf(errs.ErrUnknownCommand, "cmd %d", msg.Cmd))
	}
}
