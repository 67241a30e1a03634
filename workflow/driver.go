package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/internal/ctxkeys"
)

// Termination reasons recorded on the run summary.
const (
	TerminatedNormally       = "terminal"
	TerminatedRecursionLimit = "recursion_limit"
	TerminatedDeadline       = "deadline"
)

const staticApology = "I apologize, but the request is taking longer than expected. Please try again with a simpler query."

// forcedTerminalBudget bounds the forced terminal invocation after a guard
// trips; it must stay small so an expired run still returns promptly.
const forcedTerminalBudget = 2 * time.Second

// Driver runs the node→router loop for one turn. It is stateless across
// runs and safe for concurrent use; each run carries its own state value.
type Driver struct {
	graph       *Graph
	interceptor *interceptor
	logger      *zap.Logger
}

// NewDriver creates a driver over a graph. The tracker may be nil.
func NewDriver(graph *Graph, tracker Tracker, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		graph:       graph,
		interceptor: newInterceptor(tracker, logger.With(zap.String("component", "workflow_driver"))),
		logger:      logger.With(zap.String("component", "workflow_driver")),
	}
}

// Run executes the graph from its entry node until the completion
// sentinel, the recursion ceiling, or the deadline. The returned state
// always has a non-empty response message and the terminal flag set; no
// failure path escapes as an error.
func (d *Driver) Run(ctx context.Context, st State, cfg RunConfig, deadline time.Time) State {
	cfg = cfg.withDefaults()
	runID := uuid.NewString()
	ctx = ctxkeys.WithRunID(ctx, runID)
	started := time.Now()

	d.interceptor.tracker.RecordRunStart(ctx, RunMeta{
		RunID:     runID,
		UserID:    st.UserID,
		UserQuery: st.UserQuery,
		StartedAt: started,
	})
	d.logger.Info("run started",
		zap.String("run_id", runID),
		zap.String("entry", d.graph.Entry()),
		zap.Int("recursion_limit", cfg.RecursionLimit),
	)

	current := d.graph.Entry()
	steps := 0
	reason := TerminatedNormally

	for current != NodeEnd {
		if steps >= cfg.RecursionLimit {
			reason = TerminatedRecursionLimit
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			reason = TerminatedDeadline
			break
		}

		st = st.Apply(d.step(ctx, runID, current, st, cfg, deadline))

		next, corrected := d.graph.Route(current, st, cfg)
		if corrected {
			d.logger.Warn("router output corrected",
				zap.String("run_id", runID),
				zap.String("node_id", current),
				zap.String("substituted", next),
			)
		}
		current = next
		steps++
	}

	if reason != TerminatedNormally {
		d.logger.Warn("run guard tripped",
			zap.String("run_id", runID),
			zap.String("reason", reason),
			zap.Int("steps", steps),
		)
		if reason == TerminatedDeadline {
			st = st.Apply(ErrorDelta("workflow_timeout"))
		} else {
			st = st.Apply(ErrorDelta("recursion_limit_exceeded"))
		}
		// Force one terminal invocation, bypassing routing, so a
		// response is always produced. It runs on a small grace budget
		// independent of the expired deadline; its own static fallback
		// path needs no external call.
		if !st.Complete {
			if h, ok := d.graph.Registry().Get(NodeGenerateResponse); ok {
				st = st.Apply(d.interceptor.invoke(ctx, runID, NodeGenerateResponse, h, st, cfg, forcedTerminalBudget))
			}
		}
	}

	// Last line of defense: these hold even if the terminal node itself
	// timed out or returned an error delta.
	if st.ResponseMessage == "" {
		st.ResponseMessage = staticApology
	}
	if len(st.SuggestedActions) == 0 {
		st.SuggestedActions = []string{"Try a simpler query", "Ask about properties", "Get help"}
	}
	st.Complete = true

	d.interceptor.tracker.RecordRunComplete(ctx, RunSummary{
		RunID:      runID,
		Steps:      steps,
		Terminated: reason,
		Duration:   time.Since(started),
		Complete:   st.Complete,
	})
	d.logger.Info("run completed",
		zap.String("run_id", runID),
		zap.String("reason", reason),
		zap.Int("steps", steps),
		zap.Duration("elapsed", time.Since(started)),
	)
	return st
}

// step invokes one node under the smaller of the per-node budget and the
// time remaining before the run deadline.
func (d *Driver) step(ctx context.Context, runID, nodeID string, st State, cfg RunConfig, deadline time.Time) Delta {
	h, ok := d.graph.Registry().Get(nodeID)
	if !ok {
		// Unreachable with a validated graph; kept so a wiring bug
		// degrades instead of panicking.
		return ErrorDelta("unregistered node: " + nodeID)
	}
	budget := cfg.NodeTimeout
	if !deadline.IsZero() {
		if remaining := time.Until(deadline); remaining < budget {
			budget = remaining
		}
	}
	if budget <= 0 {
		return ErrorDelta(ErrNodeTimeout)
	}
	return d.interceptor.invoke(ctx, runID, nodeID, h, st, cfg, budget)
}
