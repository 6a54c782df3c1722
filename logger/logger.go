// Package logger holds the process-wide zap logger used by reactorgen.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger *zap.SugaredLogger
	// JSONOutput reports whether Initialize selected JSON output
	JSONOutput bool
)

func init() {
	// No-op until Initialize is called, so library use never panics on a nil logger
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
// verbosity 0 logs at info, 1 or more at debug.
func Initialize(jsonOutput bool, verbosity int) error {
	JSONOutput = jsonOutput

	level := zap.InfoLevel
	if verbosity > 0 {
		level = zap.DebugLevel
	}

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		zapLogger, err = config.Build()
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.TimeKey = ""
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Sync flushes buffered log entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Logger.Sync()
}
