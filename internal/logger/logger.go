package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// ErrorKind names the category of err for logs without exposing its text.
func ErrorKind(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error_kind", fmt.Sprintf("%T", err))
}

// BadgerAdapter routes BadgerDB's internal logging into zap.
type BadgerAdapter struct {
	Logger *zap.SugaredLogger
}

func (b BadgerAdapter) Errorf(format string, args ...interface{})   { b.Logger.Errorf(format, args...) }
func (b BadgerAdapter) Warningf(format string, args ...interface{}) { b.Logger.Warnf(format, args...) }
func (b BadgerAdapter) Infof(format string, args ...interface{})    { b.Logger.Debugf(format, args...) }
func (b BadgerAdapter) Debugf(format string, args ...interface{})   { b.Logger.Debugf(format, args...) }
