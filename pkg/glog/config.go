package glog

import (
	"fmt"
	"io"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config glog 配置
type Config struct {
	// Path 日志文件路径
	Path string `yaml:"path" mapstructure:"path"`
	// Level debug, info, warn, error, dpanic, panic, fatal，空值为 info
	Level string `yaml:"level" mapstructure:"level"`
	// PrintConsole 是否同时输出到控制台
	PrintConsole bool       `yaml:"printConsole" mapstructure:"printConsole"`
	File         FileConfig `yaml:"file" mapstructure:"file"`
}

// FileConfig 文件切割配置，零值使用默认值
type FileConfig struct {
	// MaxSize 单个文件大小上限（MB）
	MaxSize    int `yaml:"maxSize" mapstructure:"maxSize"`
	MaxBackups int `yaml:"maxBackups" mapstructure:"maxBackups"`
	// MaxAge 保留天数
	MaxAge    int  `yaml:"maxAge" mapstructure:"maxAge"`
	Compress  bool `yaml:"compress" mapstructure:"compress"`
	LocalTime bool `yaml:"localTime" mapstructure:"localTime"`
}

const (
	defaultMaxSize    = 100
	defaultMaxBackups = 10
	defaultMaxAge     = 7
)

func DefaultConfig() *Config {
	return &Config{
		Path:         "./logs/xcall.log",
		Level:        "info",
		PrintConsole: true,
		File: FileConfig{
			MaxSize:    defaultMaxSize,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAge,
			LocalTime:  true,
		},
	}
}

func (c *Config) Validate() error {
	if _, err := c.level(); err != nil {
		return fmt.Errorf("glog: %w", err)
	}
	if c.Path == "" {
		return fmt.Errorf("glog: path is empty")
	}
	return nil
}

func (c *Config) level() (zapcore.Level, error) {
	if c.Level == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.Level)
}

// writer 按 FileConfig 创建 lumberjack 切割文件
func (c *Config) writer() io.Writer {
	f := c.File
	if f.MaxSize <= 0 {
		f.MaxSize = defaultMaxSize
	}
	if f.MaxBackups <= 0 {
		f.MaxBackups = defaultMaxBackups
	}
	if f.MaxAge <= 0 {
		f.MaxAge = defaultMaxAge
	}
	return &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    f.MaxSize,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAge,
		LocalTime:  f.LocalTime,
		Compress:   f.Compress,
	}
}
