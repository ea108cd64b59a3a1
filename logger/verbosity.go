package logger

import "go.uber.org/zap/zapcore"

// Counts of the -v flag.
const (
	VerbosityUser  = 0 // warnings and errors
	VerbosityInfo  = 1 // -v: run progress and summaries
	VerbosityDebug = 2 // -vv: per-type results
)

// VerbosityToLevel maps a -v count to a zap level. Anything above -vv is
// debug.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity >= VerbosityDebug:
		return zapcore.DebugLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}
