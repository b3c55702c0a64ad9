package main

import (
	"fmt"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"boardbot/config"
)

const logFile = "boardbot/boardbot.log"

// newLogger writes to a file because the terminal belongs to the UI.
func newLogger(cfg config.LogConfig) (*zap.SugaredLogger, error) {
	path := cfg.File
	if path == "" {
		p, err := xdg.StateFile(logFile)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		path = p
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
