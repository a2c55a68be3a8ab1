package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const otelTracerName = "github.com/relayworks/agentrelay"

// OTelRecorder bridges run events onto OpenTelemetry spans. Agent activations
// and tool invocations each become a span; hand-offs and failures are attached
// as span events on the active agent span. Span export is whatever tracer
// provider the host application has installed via otel.SetTracerProvider.
type OTelRecorder struct {
	tracer trace.Tracer

	mu         sync.Mutex
	agentSpans map[string]trace.Span // run ID -> active agent span
	toolSpans  map[string]trace.Span // call ID -> tool span
}

// NewOTelRecorder creates a recorder using the globally registered tracer
// provider. Pass a TracerProvider option to override.
func NewOTelRecorder(opts ...trace.TracerOption) *OTelRecorder {
	return &OTelRecorder{
		tracer:     otel.Tracer(otelTracerName, opts...),
		agentSpans: map[string]trace.Span{},
		toolSpans:  map[string]trace.Span{},
	}
}

// Record implements Recorder.
func (r *OTelRecorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case EventAgentStarted:
		parent := context.Background()
		if ps, ok := r.agentSpans[ev.ParentRunID]; ok {
			parent = trace.ContextWithSpan(parent, ps)
		}
		_, span := r.tracer.Start(parent, "agent "+ev.AgentName,
			trace.WithTimestamp(ev.Timestamp),
			trace.WithAttributes(
				attribute.String("agentrelay.run_id", ev.RunID),
				attribute.String("agentrelay.agent", ev.AgentName),
			))
		r.agentSpans[ev.RunID] = span

	case EventAgentEnded:
		if span, ok := r.agentSpans[ev.RunID]; ok {
			span.End(trace.WithTimestamp(ev.Timestamp))
			delete(r.agentSpans, ev.RunID)
		}

	case EventToolStarted:
		parent := context.Background()
		if ps, ok := r.agentSpans[ev.RunID]; ok {
			parent = trace.ContextWithSpan(parent, ps)
		}
		_, span := r.tracer.Start(parent, "tool "+ev.ToolName,
			trace.WithTimestamp(ev.Timestamp),
			trace.WithAttributes(
				attribute.String("agentrelay.run_id", ev.RunID),
				attribute.String("agentrelay.tool", ev.ToolName),
				attribute.String("agentrelay.call_id", ev.CallID),
			))
		r.toolSpans[ev.CallID] = span

	case EventToolEnded:
		if span, ok := r.toolSpans[ev.CallID]; ok {
			if ev.Error != "" {
				span.SetStatus(codes.Error, ev.Error)
			}
			span.End(trace.WithTimestamp(ev.Timestamp))
			delete(r.toolSpans, ev.CallID)
		}

	case EventHandoff:
		if span, ok := r.agentSpans[ev.RunID]; ok {
			span.AddEvent("handoff",
				trace.WithTimestamp(ev.Timestamp),
				trace.WithAttributes(attribute.String("agentrelay.target_agent", ev.TargetAgent)))
		}

	case EventRunFailed:
		if span, ok := r.agentSpans[ev.RunID]; ok {
			span.SetStatus(codes.Error, ev.Error)
		}
	}
}
