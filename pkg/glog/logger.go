// Package glog 节点全局日志。普通日志通过包级函数输出，
// 合约通过 env.Log 写的日志使用 Contract 返回的按账户区分的 logger
package glog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// state 一次 Init 的结果，Init 时整体替换，合约 logger 缓存随之失效
type state struct {
	base *zap.Logger
	// direct 调用方直接持有的 logger，不跳过调用栈
	direct    *zap.Logger
	contracts sync.Map // account -> *zap.Logger
}

var current atomic.Pointer[state]

func init() {
	Init(DefaultConfig(), WithWriter(io.Discard), WithConsole(false))
}

var encoderConfig = zapcore.EncoderConfig{
	MessageKey:     "M",
	LevelKey:       "L",
	TimeKey:        "T",
	CallerKey:      "C",
	NameKey:        "N",
	StacktraceKey:  "S",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000Z0700"),
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Init 初始化全局 logger，cfg 为 nil 时使用默认配置；级别非法时按 info 处理
func Init(cfg *Config, options ...Option) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := loadOptions(options...)
	level, err := cfg.level()
	if err != nil {
		level = zapcore.InfoLevel
	}

	writer := opts.writer
	if writer == nil {
		writer = cfg.writer()
	}
	console := cfg.PrintConsole
	if opts.console != nil {
		console = *opts.console
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level),
	}
	if console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level))
	}
	direct := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	swap(direct)
}

func swap(direct *zap.Logger) {
	current.Store(&state{
		base:   direct.WithOptions(zap.AddCallerSkip(1)),
		direct: direct,
	})
}

// SetNode 之后的所有日志带上节点名
func SetNode(name string) {
	s := current.Load()
	swap(s.direct.With(zap.String("node", name)))
}

// Stop 刷新缓冲
func Stop() {
	_ = current.Load().direct.Sync()
}

// Contract 合约日志，按账户缓存
func Contract(account string) *zap.Logger {
	s := current.Load()
	if l, ok := s.contracts.Load(account); ok {
		return l.(*zap.Logger)
	}
	l, _ := s.contracts.LoadOrStore(account, s.direct.Named("contract").With(Account(account)))
	return l.(*zap.Logger)
}

func Debug(msg string, fields ...zap.Field) {
	current.Load().base.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	current.Load().base.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	current.Load().base.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	current.Load().base.Error(msg, fields...)
}
