package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taskmanager/pkg/config"
	"taskmanager/pkg/trace"
)

func TestNewLoggerKeepsLevelsIndependent(t *testing.T) {
	debug := NewLogger(config.LogConfig{Level: "debug", Development: true})
	warn := NewLogger(config.LogConfig{Level: "warn"})

	if !debug.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug logger to enable debug level")
	}
	if warn.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected warn logger to drop info level")
	}
	// building the second logger must not change the first
	if !debug.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug logger level changed after building another logger")
	}
}

func TestNewLoggerIgnoresUnknownLevel(t *testing.T) {
	l := NewLogger(config.LogConfig{Level: "loud"})
	if !l.Core().Enabled(zapcore.InfoLevel) || l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected production default info level")
	}
}

func TestWithTraceAddsTraceID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithTrace(trace.WithContext(context.Background(), "abc-123"), base).Info("traced")
	WithTrace(context.Background(), base).Info("untraced")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["trace_id"]; got != "abc-123" {
		t.Fatalf("unexpected trace_id %v", got)
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatal("expected no trace_id without a trace in context")
	}
}
