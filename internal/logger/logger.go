package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// InitLogger 按配置的 log_level 安装全局日志器，
// 级别缺失或非法时回退到 info
func InitLogger(logLevel string) {
	cfg := zap.NewDevelopmentConfig()

	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = level

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("构建日志器失败: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}
