package logger

import "context"

// NopLogger discards every record. Intended for tests and for components
// constructed before logging is configured.
type NopLogger struct{}

func NewNop() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (*NopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (*NopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (*NopLogger) Error(ctx context.Context, msg string, args ...any) {}
