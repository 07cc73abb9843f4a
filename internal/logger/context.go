package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithRequestID - ставится RequestIDMiddleware
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID - ставится после проверки JWT
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func stringValue(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// FromContext - глобальный логгер с request_id и user_id запроса
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	if ctx == nil {
		return l
	}

	var fields []any
	if requestID := stringValue(ctx, requestIDKey); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if userID := stringValue(ctx, userIDKey); userID != "" {
		fields = append(fields, "user_id", userID)
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError - CtxError с полем error
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error(msg, append([]any{"error", err.Error()}, args...)...)
}
