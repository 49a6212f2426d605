// Package testutil provides shared helpers for package tests.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger routed through t.Log, so log
// output shows up only on failure or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{tb: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	tb testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}
