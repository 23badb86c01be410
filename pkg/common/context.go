package common

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	startTimeKey
)

// WithRequestID stores the request id used in log lines and error envelopes
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the id stored by WithRequestID
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// WithStartTime marks when the request entered the router
func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey, t)
}

func GetStartTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(startTimeKey).(time.Time)
	return t, ok
}

// GetElapsedTime is zero when no start time was recorded
func GetElapsedTime(ctx context.Context) time.Duration {
	t, ok := GetStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(t)
}
