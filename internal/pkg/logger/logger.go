package logger

import (
	"context"
	"sync/atomic"

	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.SugaredLogger]

func init() {
	global.Store(zap.NewNop().Sugar())
}

// Init replaces the package logger. level is one of debug, info, warn, error.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	global.Store(l.Sugar())
	return nil
}

// Set installs an already built logger, mostly for tests and embedding.
func Set(l *zap.Logger) {
	global.Store(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

func Sync() {
	_ = global.Load().Sync()
}

func withCtx(ctx context.Context) *zap.SugaredLogger {
	l := global.Load()
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(constants.CtxKeyRequestID).(string); ok && id != "" {
		l = l.With("request_id", id)
	}
	if id, ok := ctx.Value(constants.CtxKeyDatasetID).(string); ok && id != "" {
		l = l.With("dataset", id)
	}
	return l
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	withCtx(ctx).Errorf(format, args...)
}

func Info(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withCtx(ctx).Infow(msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withCtx(ctx).Warnw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withCtx(ctx).Errorw(msg, keysAndValues...)
}

func Fatal(ctx context.Context, err error) {
	withCtx(ctx).Fatal(err)
}

// WithDataset tags ctx so that log lines carry the dataset id.
func WithDataset(ctx context.Context, datasetID string) context.Context {
	return context.WithValue(ctx, constants.CtxKeyDatasetID, datasetID)
}

// WithRequestID tags ctx with the id of the http request being served.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.CtxKeyRequestID, requestID)
}
