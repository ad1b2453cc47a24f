package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelCritical sits above error. DPanic only panics in development builds,
// which this logger never enables.
const LevelCritical = zapcore.DPanicLevel

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
}

type zapLogger struct {
	base *zap.SugaredLogger
}

func NewFromEnv() Logger {
	env := normalizeValue(os.Getenv("ENV"))
	level := parseLevel(os.Getenv("LOG_LEVEL"), env)
	format := parseFormat(os.Getenv("LOG_FORMAT"))
	return New(os.Stdout, level, format)
}

func New(output io.Writer, level zapcore.Level, format string) Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.EncodeLevel = encodeLevel

	var encoder zapcore.Encoder
	switch normalizeValue(format) {
	case "text":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zap.NewAtomicLevelAt(level))
	return &zapLogger{base: zap.New(core).Sugar()}
}

func NewNop() Logger {
	return &zapLogger{base: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(message string, args ...any) {
	l.base.Debugw(message, args...)
}

func (l *zapLogger) Info(message string, args ...any) {
	l.base.Infow(message, args...)
}

func (l *zapLogger) Warn(message string, args ...any) {
	l.base.Warnw(message, args...)
}

func (l *zapLogger) Error(message string, args ...any) {
	l.base.Errorw(message, args...)
}

func (l *zapLogger) Critical(message string, args ...any) {
	l.base.DPanicw(message, args...)
}

func (l *zapLogger) BusinessError(message string, err error, args ...any) {
	if err == nil {
		return
	}

	attrs := append([]any{"err", err}, args...)
	l.base.Warnw(message, attrs...)
}

func (l *zapLogger) InternalError(message string, err error, args ...any) {
	if err == nil {
		return
	}

	attrs := append([]any{"err", err}, args...)
	l.base.Errorw(message, attrs...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{base: l.base.With(args...)}
}

// Sync flushes buffered entries; callers invoke it once on shutdown.
func Sync(log Logger) error {
	if zl, ok := log.(*zapLogger); ok {
		return zl.base.Sync()
	}
	return nil
}

func parseLevel(value string, env string) zapcore.Level {
	switch normalizeValue(value) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		if env == "development" {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "critical", "fatal":
		return LevelCritical
	default:
		if env == "development" {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	}
}

func parseFormat(value string) string {
	switch normalizeValue(value) {
	case "json", "text":
		return normalizeValue(value)
	default:
		return "json"
	}
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == LevelCritical {
		enc.AppendString("CRITICAL")
		return
	}
	zapcore.CapitalLevelEncoder(level, enc)
}
