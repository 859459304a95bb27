package logger

import (
	"fmt"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/config"
)

// NewLogger 根据配置初始化 Zap 日志实例
// 配置了 rollbar_token 时，Error 及以上级别的日志同步上报 Rollbar
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	// 解析日志级别
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	opts := []zap.Option{zap.AddCallerSkip(0)}
	if cfg.RollbarToken != "" {
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.Environment)
		opts = append(opts, zap.Hooks(rollbarHook))
	}

	logger, err := zapCfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}

	return logger, nil
}

// rollbarHook 将 Error 及以上级别的日志转发到 Rollbar
func rollbarHook(entry zapcore.Entry) error {
	switch {
	case entry.Level >= zapcore.DPanicLevel:
		rollbar.Critical(entry.Message, map[string]interface{}{"caller": entry.Caller.String()})
	case entry.Level == zapcore.ErrorLevel:
		rollbar.Error(entry.Message, map[string]interface{}{"caller": entry.Caller.String()})
	}
	return nil
}

// Flush 等待 Rollbar 队列发送完毕（进程退出前调用）
func Flush() {
	rollbar.Wait()
}
