package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Provide builds the sugared logger used by the report binary.
func Provide() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.MessageKey = "message"
	logger := zap.Must(cfg.Build())
	return logger.Sugar()
}

// NewTestLogger returns a logger plus its observed entries for assertions.
func NewTestLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.InfoLevel)
	return zap.New(core).Sugar(), recorded
}
