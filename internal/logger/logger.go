package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envKey = "BACKTEST_ENV"

func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	env := os.Getenv(envKey)
	if strings.EqualFold(env, "dev") || strings.EqualFold(env, "test") {
		logger, err = zap.NewDevelopment(opts...)
	} else {
		opts = append(opts, zap.Fields(zap.Field{
			Key:    envKey,
			Type:   zapcore.StringType,
			String: env,
		}))
		logger, err = zap.NewProduction(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

const ContextKey = "LOGGER"

func NewContext(ctx context.Context, lg *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ContextKey, lg)
}

// FromContext returns the logger stored on ctx, or the global logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if lg, ok := ctx.Value(ContextKey).(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return zap.S()
}

// WithFields returns a child context whose logger carries the given
// key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	return NewContext(ctx, FromContext(ctx).With(keysAndValues...))
}

func init() {
	logger := New()
	zap.ReplaceGlobals(logger.Desugar())
}
