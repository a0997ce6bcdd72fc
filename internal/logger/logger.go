// Package logger provides a process-wide structured logger used by every
// component of the authorization server. It wraps a zap.SugaredLogger
// singleton so call sites never construct or thread a logger themselves.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var singleton atomic.Pointer[zap.SugaredLogger]

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	singleton.Store(l.Sugar())
}

// Init installs a new base zap.Logger as the package singleton. It is meant
// to be called once at process startup, after configuration (e.g. log
// level, output format) has been resolved.
func Init(l *zap.Logger) {
	singleton.Store(l.Sugar())
}

// SetForTest installs l as the singleton and returns a restore function.
// Intended for use with t.Cleanup in tests that assert on log output.
func SetForTest(l *zap.SugaredLogger) func() {
	prev := singleton.Load()
	singleton.Store(l)
	return func() { singleton.Store(prev) }
}

func current() *zap.SugaredLogger {
	return singleton.Load()
}

// Debug logs at debug level.
func Debug(args ...any) { current().Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(template string, args ...any) { current().Debugf(template, args...) }

// Debugw logs a message with structured key-value pairs at debug level.
func Debugw(msg string, kv ...any) { current().Debugw(msg, kv...) }

// Info logs at info level.
func Info(args ...any) { current().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(template string, args ...any) { current().Infof(template, args...) }

// Infow logs a message with structured key-value pairs at info level.
func Infow(msg string, kv ...any) { current().Infow(msg, kv...) }

// Warn logs at warn level.
func Warn(args ...any) { current().Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(template string, args ...any) { current().Warnf(template, args...) }

// Warnw logs a message with structured key-value pairs at warn level.
func Warnw(msg string, kv ...any) { current().Warnw(msg, kv...) }

// Error logs at error level.
func Error(args ...any) { current().Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(template string, args ...any) { current().Errorf(template, args...) }

// Errorw logs a message with structured key-value pairs at error level.
func Errorw(msg string, kv ...any) { current().Errorw(msg, kv...) }
