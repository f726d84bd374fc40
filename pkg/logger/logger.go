// Package logger hands out request-scoped logrus entries.
package logger

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var loggerContextKey = contextKey{}

var defaultLogger = logrus.New()
var defaultEntry = logrus.NewEntry(defaultLogger)

// Configure sets the level and output format of the process-wide logger.
// Production emits JSON so log shippers can index fields.
func Configure(level string, env string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	defaultLogger.SetLevel(lvl)
	defaultLogger.SetOutput(os.Stdout)
	if env == "production" {
		defaultLogger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		defaultLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// SetLoggerOptions exposes the underlying logger for one-off tweaks (tests silence it).
func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

// NewContextWithFields returns a child context whose logger carries fields.
func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(parent, loggerContextKey, For(parent).WithFields(fields))
}

// For returns the logger stored in ctx, or the default one.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry
	}

	if gc, ok := ctx.(*gin.Context); ok {
		if gc.Request == nil {
			return defaultEntry
		}
		ctx = gc.Request.Context()
	}

	if entry, ok := ctx.Value(loggerContextKey).(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}

	return defaultEntry.WithContext(ctx)
}

// Default returns the process-wide entry for code running outside a request.
func Default() *logrus.Entry {
	return defaultEntry
}
