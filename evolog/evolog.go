// Package evolog provides per-instruction trace logging above
// slog.LevelInfo, mirrored from the teacher's core.LevelTrace/Trace
// helper. The scheduler (package sim) logs through this instead of
// fmt.Println.
package evolog

import (
	"context"
	"log/slog"
)

// LevelTrace sits one step above slog.LevelInfo. slog treats higher levels
// as more severe, so a handler set to Info (or any lower level) also
// emits trace records.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs msg at LevelTrace against the default slog logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// TraceContext is Trace with an explicit context, for call sites that
// already carry one (e.g. a cancellable simulation run).
func TraceContext(ctx context.Context, msg string, args ...any) {
	slog.Log(ctx, LevelTrace, msg, args...)
}
