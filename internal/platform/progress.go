package platform

import (
	"context"
	"fmt"
)

// ProgressFunc is a callback for reporting progress messages.
type ProgressFunc func(msg string)

type progressKey struct{}

// WithProgress returns a context carrying the given progress callback.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// ReportProgress calls the progress callback in ctx, if any.
// Safe to call when no callback is set (HTTP and MCP modes).
func ReportProgress(ctx context.Context, msg string) {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		fn(msg)
	}
}

// ReportProgressf is ReportProgress with formatting.
func ReportProgressf(ctx context.Context, format string, args ...any) {
	if _, ok := ctx.Value(progressKey{}).(ProgressFunc); !ok {
		return
	}
	ReportProgress(ctx, fmt.Sprintf(format, args...))
}
