package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrNodeTimeout is the error description merged into state when a node
// exceeds its per-call budget.
const ErrNodeTimeout = "node_timeout"

// interceptor wraps every node invocation with the cross-cutting concerns
// that used to be stacked per node: panic/error capture into an error
// delta, per-call timeout enforcement, timing, structured logging, and
// telemetry. One wrapper owned by the driver, composed in one place.
type interceptor struct {
	tracker Tracker
	logger  *zap.Logger
}

func newInterceptor(tracker Tracker, logger *zap.Logger) *interceptor {
	if tracker == nil {
		tracker = NoopTracker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &interceptor{tracker: tracker, logger: logger}
}

type nodeResult struct {
	delta Delta
	err   error
}

// invoke executes one handler under a per-call timeout. A handler that
// overruns is abandoned rather than cancelled mid-I/O: the goroutine keeps
// running against its cancelled context and its late result is discarded,
// while the run proceeds with a node_timeout error delta.
func (ic *interceptor) invoke(ctx context.Context, runID, nodeID string, h Handler, st State, cfg RunConfig, budget time.Duration) Delta {
	ic.tracker.RecordNodeStart(ctx, runID, nodeID)

	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	resultCh := make(chan nodeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- nodeResult{err: fmt.Errorf("node panic: %v", r)}
			}
		}()
		delta, err := h.Execute(callCtx, st, cfg)
		resultCh <- nodeResult{delta: delta, err: err}
	}()

	var delta Delta
	var execErr error
	select {
	case res := <-resultCh:
		delta, execErr = res.delta, res.err
	case <-callCtx.Done():
		// A result that raced the timeout still counts; anything later
		// is discarded with the abandoned goroutine.
		select {
		case res := <-resultCh:
			delta, execErr = res.delta, res.err
		default:
			execErr = fmt.Errorf("%s: %w", ErrNodeTimeout, callCtx.Err())
		}
	}
	elapsed := time.Since(start)

	if execErr != nil {
		description := execErr.Error()
		if callCtx.Err() != nil && delta.Len() == 0 {
			description = ErrNodeTimeout
		}
		ic.logger.Warn("node failed",
			zap.String("run_id", runID),
			zap.String("node_id", nodeID),
			zap.Duration("elapsed", elapsed),
			zap.Error(execErr),
		)
		ic.tracker.RecordNodeError(ctx, runID, nodeID, description)
		return ErrorDelta(description)
	}

	ic.logger.Debug("node completed",
		zap.String("run_id", runID),
		zap.String("node_id", nodeID),
		zap.Strings("fields", delta.Fields()),
		zap.Duration("elapsed", elapsed),
	)
	ic.tracker.RecordNodeComplete(ctx, runID, nodeID, delta.Fields(), elapsed)
	return delta
}
