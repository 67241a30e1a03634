package workflow

import (
	"context"
	"time"
)

// RunMeta describes one run for the telemetry sink.
type RunMeta struct {
	RunID     string
	UserID    string
	UserQuery string
	StartedAt time.Time
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunID      string
	Steps      int
	Terminated string // "terminal", "recursion_limit", "deadline"
	Duration   time.Duration
	Complete   bool
}

// Tracker is the execution-telemetry sink. Implementations must be
// fire-and-forget: they may drop events but must never block or fail the
// run. The driver invokes it around every node call.
type Tracker interface {
	RecordRunStart(ctx context.Context, meta RunMeta)
	RecordRunComplete(ctx context.Context, summary RunSummary)
	RecordNodeStart(ctx context.Context, runID, nodeID string)
	RecordNodeComplete(ctx context.Context, runID, nodeID string, fields []string, elapsed time.Duration)
	RecordNodeError(ctx context.Context, runID, nodeID string, errDescription string)
}

// NoopTracker discards all events.
type NoopTracker struct{}

func (NoopTracker) RecordRunStart(context.Context, RunMeta)                             {}
func (NoopTracker) RecordRunComplete(context.Context, RunSummary)                       {}
func (NoopTracker) RecordNodeStart(context.Context, string, string)                     {}
func (NoopTracker) RecordNodeComplete(context.Context, string, string, []string, time.Duration) {}
func (NoopTracker) RecordNodeError(context.Context, string, string, string)             {}
