package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/internal/metrics"
	"github.com/propertytek/chatflow/workflow"
)

const tracerName = "chatflow/workflow"

// RunTracker records workflow execution as OTel spans and Prometheus
// metrics. It is fire-and-forget: every method returns immediately and
// never fails the run. Either collector may be nil.
type RunTracker struct {
	tracer    trace.Tracer
	collector *metrics.Collector
	logger    *zap.Logger

	mu   sync.Mutex
	runs map[string]*runSpans
}

type runSpans struct {
	run   trace.Span
	ctx   context.Context
	nodes map[string]nodeStart
}

type nodeStart struct {
	span    trace.Span
	started time.Time
}

// NewRunTracker creates the tracker. The tracer comes from the global
// provider set by Init, so a disabled setup yields noop spans.
func NewRunTracker(collector *metrics.Collector, logger *zap.Logger) *RunTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunTracker{
		tracer:    otel.Tracer(tracerName),
		collector: collector,
		logger:    logger.With(zap.String("component", "telemetry")),
		runs:      make(map[string]*runSpans),
	}
}

var _ workflow.Tracker = (*RunTracker)(nil)

func (t *RunTracker) RecordRunStart(ctx context.Context, meta workflow.RunMeta) {
	runCtx, span := t.tracer.Start(ctx, "workflow.run",
		trace.WithAttributes(
			attribute.String("run.id", meta.RunID),
			attribute.String("user.id", meta.UserID),
		))

	t.mu.Lock()
	t.runs[meta.RunID] = &runSpans{run: span, ctx: runCtx, nodes: make(map[string]nodeStart)}
	t.mu.Unlock()

	if t.collector != nil {
		t.collector.RecordRunStart()
	}
}

func (t *RunTracker) RecordRunComplete(_ context.Context, summary workflow.RunSummary) {
	t.mu.Lock()
	rs := t.runs[summary.RunID]
	delete(t.runs, summary.RunID)
	t.mu.Unlock()

	if rs != nil {
		rs.run.SetAttributes(
			attribute.Int("run.steps", summary.Steps),
			attribute.String("run.terminated", summary.Terminated),
			attribute.Bool("run.complete", summary.Complete),
		)
		rs.run.End()
	}

	if t.collector != nil {
		t.collector.RecordRunComplete(summary.Terminated, summary.Steps, summary.Duration)
	}
}

func (t *RunTracker) RecordNodeStart(_ context.Context, runID, nodeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rs, ok := t.runs[runID]
	if !ok {
		return
	}
	_, span := t.tracer.Start(rs.ctx, "node."+nodeID,
		trace.WithAttributes(attribute.String("node.id", nodeID)))
	rs.nodes[nodeID] = nodeStart{span: span, started: time.Now()}
}

func (t *RunTracker) RecordNodeComplete(_ context.Context, runID, nodeID string, fields []string, elapsed time.Duration) {
	t.endNodeSpan(runID, nodeID, func(span trace.Span) {
		span.SetAttributes(attribute.StringSlice("node.delta_fields", fields))
	})
	if t.collector != nil {
		t.collector.RecordNodeExecution(nodeID, "ok", elapsed)
	}
}

func (t *RunTracker) RecordNodeError(_ context.Context, runID, nodeID, errDescription string) {
	t.endNodeSpan(runID, nodeID, func(span trace.Span) {
		span.SetAttributes(attribute.String("node.error", errDescription))
	})
	if t.collector != nil {
		t.collector.RecordNodeExecution(nodeID, "error", 0)
	}
}

func (t *RunTracker) endNodeSpan(runID, nodeID string, decorate func(trace.Span)) {
	t.mu.Lock()
	rs, ok := t.runs[runID]
	var ns nodeStart
	var present bool
	if ok {
		ns, present = rs.nodes[nodeID]
		delete(rs.nodes, nodeID)
	}
	t.mu.Unlock()

	if !present {
		return
	}
	decorate(ns.span)
	ns.span.End()
}
