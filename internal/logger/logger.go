// Package logger wires a zap core behind the logr API and carries the
// logger through context.Context.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

const (
	VersionKey   = "version"
	GoVersionKey = "go_version"
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

// Options controls where and how verbosely the global logger writes.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// File receives the JSON log stream. Empty means stderr.
	File string
	// Version is stamped on every entry.
	Version string
}

var (
	once sync.Once

	// globalZapLogger backs globalLogrLogger and is kept for Sync.
	globalZapLogger  *zap.Logger
	globalLogrLogger *logr.Logger
	globalSink       io.Closer

	defaultNoopLogger logr.Logger = logr.Discard()
)

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Setup initializes the global logger. Only the first call has an effect;
// later calls return the logger built by the first one.
func Setup(opts Options) (*logr.Logger, error) {
	var setupErr error
	once.Do(func() {
		level, err := ParseLevel(opts.Level)
		if err != nil {
			setupErr = err
			return
		}

		sink := zapcore.Lock(os.Stderr)
		if opts.File != "" {
			if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
				setupErr = fmt.Errorf("failed to create log dir: %w", err)
				return
			}
			f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				setupErr = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			globalSink = f
			sink = zapcore.Lock(f)
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		goVersion := ""
		if info, ok := debug.ReadBuildInfo(); ok {
			goVersion = info.GoVersion
		}

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			sink,
			zap.NewAtomicLevelAt(level),
		).With([]zapcore.Field{
			zap.String(VersionKey, opts.Version),
			zap.String(GoVersionKey, goVersion),
		})

		globalZapLogger = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		)
		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	if setupErr != nil {
		return GetNoopLogger(), setupErr
	}
	if globalLogrLogger == nil {
		return GetNoopLogger(), nil
	}
	return globalLogrLogger, nil
}

// WithLogger returns a new context carrying log. If ctx already carries the
// same logger the original context is returned.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the context logger, the global logger, or a no-op
// logger, in that order.
func FromContext(ctx context.Context) *logr.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
			return log
		}
	}
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return GetNoopLogger()
}

// Sync flushes buffered entries and closes the log file, if any.
func Sync() {
	if globalZapLogger != nil {
		if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
			fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
		}
	}
	if globalSink != nil {
		_ = globalSink.Close()
		globalSink = nil
	}
}

// isIgnorableSyncError reports the errors Sync returns on pipes and TTYs.
func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.ENOTTY) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EBADF)
}

// GetNoopLogger returns a logger that drops everything.
func GetNoopLogger() *logr.Logger {
	return GetNoopLogger()
}
