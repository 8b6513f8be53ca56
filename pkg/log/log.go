package log

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LoggerName prefixes every component logger of the CLI.
	LoggerName = "query2excel"

	// SilentLevel is above every level zap emits. A logger at this level
	// writes nothing, not even errors.
	SilentLevel = zapcore.FatalLevel + 1
)

// LevelFromFlags maps the CLI verbosity flags to a zap level.
// Debug implies verbose. With neither flag nothing is printed.
func LevelFromFlags(verbose, debug bool) zap.AtomicLevel {
	switch {
	case debug:
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case verbose:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		return zap.NewAtomicLevelAt(SilentLevel)
	}
}

// InitLog builds the console logger of the CLI. Lines go to out, usually
// the command's stderr.
func InitLog(lvl zap.AtomicLevel, out io.Writer) *zap.Logger {
	sink := zapcore.Lock(zapcore.AddSync(out))
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})

	return zap.New(
		zapcore.NewCore(encoder, sink, lvl),
		zap.AddCaller(),
		zap.AddStacktrace(zap.DPanicLevel),
		zap.ErrorOutput(sink),
	).Named(LoggerName)
}

// RedactToken hides an API credential in a header value before it is logged.
func RedactToken(value string) string {
	scheme, _, found := strings.Cut(value, " ")
	if !found {
		return "<redacted>"
	}
	return scheme + " <redacted>"
}
