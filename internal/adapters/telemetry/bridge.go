package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.trai.ch/memo/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor and reports span lifecycle to
// a ports.Logger. Each span is one live computation, so the bridge gives a
// plain-text trace of what actually ran (cache hits never produce spans).
type LogBridge struct {
	log ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(log ports.Logger) *LogBridge {
	return &LogBridge{log: log}
}

// OnStart is called when a span starts.
func (b *LogBridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}
	b.log.Info("computation started",
		"span", sc.SpanID().String(), "query", s.Name())
}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	if s.Status().Code == codes.Error {
		b.log.Warn("computation failed",
			"span", sc.SpanID().String(), "query", s.Name(),
			"reason", s.Status().Description)
		return
	}
	b.log.Info("computation finished",
		"span", sc.SpanID().String(), "query", s.Name(),
		"duration", s.EndTime().Sub(s.StartTime()).String())
}

// ForceFlush does nothing; the bridge has no buffer.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

var _ sdktrace.SpanProcessor = (*LogBridge)(nil)

// Install configures the global OpenTelemetry provider with the bridge as a
// span processor, so every span the engine starts is reported through it.
func Install(bridge *LogBridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
