package application

import (
	"io"
	"log/slog"
)

// ResolveLogger returns logger or a discard logger when nil, so use cases
// can log unconditionally.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
