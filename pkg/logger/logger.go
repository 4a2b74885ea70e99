package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置
// 设计说明：
// 1. Level: debug | info | warn | error
// 2. Format: console（开发环境，带颜色）| json（生产环境，便于采集）
// 3. Output: stdout | stderr | 文件路径
type Options struct {
	Level        string
	Format       string
	Output       string
	EnableCaller bool
}

// New 创建zap日志器
// 定时任务（定算、榜单刷新）的运行日志全部走这里，
// 批处理失败对终端用户不可见，只能靠日志排查。
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("非法的日志级别 %q: %w", opts.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if opts.Format == "console" {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if opts.Output != "" {
		cfg.OutputPaths = []string{opts.Output}
	}

	options := []zap.Option{}
	if opts.EnableCaller {
		options = append(options, zap.AddCaller())
	}

	return cfg.Build(options...)
}

// NewNop 创建空日志器（测试用）
func NewNop() *zap.Logger {
	return zap.NewNop()
}
