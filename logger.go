package keyinfo

import (
	"io"
	"log/slog"
)

// NewLogger 创建文本日志记录器，debug 为 true 时输出 debug 级别
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("component", "keyinfo")
}

// loggerFor 返回配置中的日志记录器，未设置时丢弃所有日志
func loggerFor(cfg *Config) *slog.Logger {
	if cfg == nil || cfg.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.Logger
}
