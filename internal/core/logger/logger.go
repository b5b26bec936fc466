package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"estate-api/internal/core/config"
)

// New 只输出到 stdout，测试和命令行工具用
func New(level string, json bool) (*zap.Logger, func()) {
	return FromConfig(config.Log{Level: level, JSON: json})
}

// FromConfig 按配置构建：开启文件切割时同时写 stdout 和滚动文件
func FromConfig(c config.Log) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(c.Level); err != nil {
		lvl = zapcore.InfoLevel
	}
	enc := encoder(c.JSON)

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)}
	var rotator *lumberjack.Logger
	if c.File.Enable && c.File.Filename != "" {
		rotator = &lumberjack.Logger{
			Filename:   c.File.Filename,
			MaxSize:    max(1, c.File.MaxSizeMB),
			MaxBackups: max(0, c.File.MaxBackups),
			MaxAge:     max(0, c.File.MaxAgeDays),
			Compress:   c.File.Compress,
		}
		cores = append(cores, zapcore.NewCore(enc, rotWriter{rotator}, lvl))
	}

	// 同一秒内同样的日志超过 100 条后开始采样
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)
	opts := []zap.Option{zap.AddCaller()}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() {
		_ = l.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
}

// JSON 给采集用，控制台给人看
func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Sync() error { return nil }

// RedirectStdLog 把标准库 log 的输出转进 zap（第三方库常直接用 log.Printf）
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		l.Warn("redirect std log failed", zap.Error(err))
		return func() {}
	}
	return undo
}
