package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.SugaredLogger

// initLogger sets up the process-wide sugared logger. With --log-file set,
// output goes to a size-rotated file; otherwise to stderr.
func initLogger(cfg *Config) error {
	var ws zapcore.WriteSyncer
	if cfg.logFile != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
	} else {
		ws = zapcore.Lock(os.Stderr)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
	}

	level := zapcore.InfoLevel
	if cfg.verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
	logger = zap.New(core).Sugar()

	return nil
}

func syncLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// logf emits chatty operational output, gated on --verbose.
func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose || logger == nil {
		return
	}

	logger.Debugf(format, args...)
}

// errorf is always emitted, regardless of verbosity.
func errorf(format string, args ...any) {
	if logger == nil {
		return
	}

	logger.Errorf(format, args...)
}
