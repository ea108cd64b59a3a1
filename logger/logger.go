// Package logger holds the process-wide zap logger used across winrtgen.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global sugared logger. It discards everything until
	// Initialize runs, so library callers never need a nil check.
	Logger = zap.NewNop().Sugar()

	// JSONOutput is true when the last Initialize selected JSON encoding.
	JSONOutput bool
)

// Initialize replaces the global logger. Logs go to stderr so plans written
// to stdout stay machine readable.
func Initialize(jsonOutput bool, verbosity int) {
	InitializeWriter(os.Stderr, jsonOutput, verbosity)
}

// InitializeWriter is Initialize with an explicit sink.
func InitializeWriter(w io.Writer, jsonOutput bool, verbosity int) {
	var enc zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeCaller = nil
		cfg.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), VerbosityToLevel(verbosity))
	Logger = zap.New(core).Sugar()
	JSONOutput = jsonOutput
}

// Sync flushes buffered entries. Call it before exit.
func Sync() {
	_ = Logger.Sync()
}

func Debugw(msg string, keysAndValues ...interface{}) { Logger.Debugw(msg, keysAndValues...) }
func Infow(msg string, keysAndValues ...interface{})  { Logger.Infow(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...interface{})  { Logger.Warnw(msg, keysAndValues...) }
