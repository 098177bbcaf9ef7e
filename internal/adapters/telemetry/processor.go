package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*PhaseProcessor)(nil)

// PhaseProcessor implements sdktrace.SpanProcessor and records the duration
// of every finished span under its name.
type PhaseProcessor struct {
	recorder ports.Recorder
}

// NewPhaseProcessor returns a new PhaseProcessor.
func NewPhaseProcessor(recorder ports.Recorder) *PhaseProcessor {
	return &PhaseProcessor{recorder: recorder}
}

// OnStart does nothing.
func (p *PhaseProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd records the span duration.
func (p *PhaseProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.recorder == nil || !s.SpanContext().IsValid() {
		return
	}
	p.recorder.ObservePhase(s.Name(), s.EndTime().Sub(s.StartTime()))
}

// ForceFlush does nothing.
func (p *PhaseProcessor) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *PhaseProcessor) Shutdown(context.Context) error {
	return nil
}
