package glog

import (
	"io"
)

type Option func(*Options)

// Options 覆盖 Config 中的输出设置，测试中用来关闭文件和控制台
type Options struct {
	writer  io.Writer
	console *bool
}

func loadOptions(options ...Option) *Options {
	opts := &Options{}
	for _, option := range options {
		option(opts)
	}
	return opts
}

// WithWriter 使用 w 代替日志文件
func WithWriter(w io.Writer) Option {
	return func(op *Options) {
		op.writer = w
	}
}

func WithConsole(enable bool) Option {
	return func(op *Options) {
		op.console = &enable
	}
}
