package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// terminalHandler produces a response and completes the run.
func terminalHandler(message string) Handler {
	return HandlerFunc(func(context.Context, State, RunConfig) (Delta, error) {
		return NewDelta().
			ResponseMessage(message).
			SuggestedActions([]string{"Ask about properties"}).
			Complete(true), nil
	})
}

func intentHandler(intent string) Handler {
	return HandlerFunc(func(context.Context, State, RunConfig) (Delta, error) {
		return NewDelta().Intent(intent), nil
	})
}

// smallGraph wires a two-node graph: entry sets the intent, the terminal
// node answers.
func smallGraph(t *testing.T, entry Handler) *Graph {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(NodeAnalyzeIntent, entry))
	require.NoError(t, reg.Register(NodeGenerateResponse, terminalHandler("done")))

	g, err := NewGraph(reg, NodeAnalyzeIntent)
	require.NoError(t, err)
	require.NoError(t, g.SetRouter(NewRouter(NodeAnalyzeIntent,
		func(State, RunConfig) string { return NodeGenerateResponse },
		NodeGenerateResponse)))
	require.NoError(t, g.SetRouter(NewRouter(NodeGenerateResponse, routeToEnd, NodeEnd)))
	return g
}

func TestDriver_RunCompletesNormally(t *testing.T) {
	g := smallGraph(t, intentHandler(IntentGeneralInfo))
	d := NewDriver(g, nil, zap.NewNop())

	final := d.Run(context.Background(), State{UserQuery: "hi"}, DefaultRunConfig(), time.Time{})

	assert.True(t, final.Complete)
	assert.Equal(t, "done", final.ResponseMessage)
	assert.Equal(t, IntentGeneralInfo, final.Intent)
}

func TestDriver_RecursionLimitForcesTerminal(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NodeAnalyzeIntent, intentHandler("looping")))
	require.NoError(t, reg.Register(NodeGenerateResponse, terminalHandler("forced answer")))

	g, err := NewGraph(reg, NodeAnalyzeIntent)
	require.NoError(t, err)
	// Self-routing node: only the recursion ceiling can stop it.
	require.NoError(t, g.SetRouter(NewRouter(NodeAnalyzeIntent,
		func(State, RunConfig) string { return NodeAnalyzeIntent },
		NodeAnalyzeIntent, NodeGenerateResponse)))
	require.NoError(t, g.SetRouter(NewRouter(NodeGenerateResponse, routeToEnd, NodeEnd)))

	d := NewDriver(g, nil, zap.NewNop())
	cfg := DefaultRunConfig()
	cfg.RecursionLimit = 4

	final := d.Run(context.Background(), State{}, cfg, time.Time{})

	assert.True(t, final.Complete)
	assert.Equal(t, "recursion_limit_exceeded", final.Error)
	assert.Equal(t, "forced answer", final.ResponseMessage, "terminal node still runs after the guard trips")
}

func TestDriver_DeadlineReturnsTerminalState(t *testing.T) {
	slow := HandlerFunc(func(ctx context.Context, _ State, _ RunConfig) (Delta, error) {
		select {
		case <-time.After(5 * time.Second):
			return NewDelta(), nil
		case <-ctx.Done():
			return NewDelta(), ctx.Err()
		}
	})
	g := smallGraph(t, slow)
	d := NewDriver(g, nil, zap.NewNop())

	start := time.Now()
	final := d.Run(context.Background(), State{}, DefaultRunConfig(), time.Now().Add(50*time.Millisecond))

	assert.Less(t, time.Since(start), 4*time.Second)
	assert.True(t, final.Complete)
	assert.NotEmpty(t, final.ResponseMessage)
}

func TestDriver_NodeErrorBecomesErrorDelta(t *testing.T) {
	failing := HandlerFunc(func(context.Context, State, RunConfig) (Delta, error) {
		return NewDelta(), errors.New("backend unavailable")
	})
	g := smallGraph(t, failing)
	d := NewDriver(g, nil, zap.NewNop())

	final := d.Run(context.Background(), State{}, DefaultRunConfig(), time.Time{})

	assert.True(t, final.Complete)
	assert.Equal(t, "done", final.ResponseMessage, "run proceeds past a failed node")
}

func TestDriver_NodePanicIsContained(t *testing.T) {
	panicking := HandlerFunc(func(context.Context, State, RunConfig) (Delta, error) {
		panic("boom")
	})
	g := smallGraph(t, panicking)
	d := NewDriver(g, nil, zap.NewNop())

	final := d.Run(context.Background(), State{}, DefaultRunConfig(), time.Time{})
	assert.True(t, final.Complete)
}

func TestDriver_NodeTimeoutAbandonsHandler(t *testing.T) {
	stuck := HandlerFunc(func(ctx context.Context, _ State, _ RunConfig) (Delta, error) {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return NewDelta().Intent("too late"), nil
	})
	g := smallGraph(t, stuck)
	d := NewDriver(g, nil, zap.NewNop())

	cfg := DefaultRunConfig()
	cfg.NodeTimeout = 30 * time.Millisecond

	final := d.Run(context.Background(), State{}, cfg, time.Time{})

	assert.True(t, final.Complete)
	assert.NotEqual(t, "too late", final.Intent, "late result from an abandoned node is discarded")
}

func TestDriver_ResponseAlwaysPresent(t *testing.T) {
	// Terminal node that fails: the driver's last-line defaults apply.
	reg := NewRegistry()
	require.NoError(t, reg.Register(NodeAnalyzeIntent, intentHandler("x")))
	require.NoError(t, reg.Register(NodeGenerateResponse,
		HandlerFunc(func(context.Context, State, RunConfig) (Delta, error) {
			return NewDelta(), errors.New("generation failed")
		})))

	g, err := NewGraph(reg, NodeAnalyzeIntent)
	require.NoError(t, err)
	require.NoError(t, g.SetRouter(NewRouter(NodeAnalyzeIntent,
		func(State, RunConfig) string { return NodeGenerateResponse },
		NodeGenerateResponse)))
	require.NoError(t, g.SetRouter(NewRouter(NodeGenerateResponse, routeToEnd, NodeEnd)))

	d := NewDriver(g, nil, zap.NewNop())
	final := d.Run(context.Background(), State{}, DefaultRunConfig(), time.Time{})

	assert.True(t, final.Complete)
	assert.NotEmpty(t, final.ResponseMessage)
	assert.NotEmpty(t, final.SuggestedActions)
}

func TestDriver_ZeroConfigGetsGuardDefaults(t *testing.T) {
	g := smallGraph(t, intentHandler("x"))
	d := NewDriver(g, nil, zap.NewNop())

	// A zero RunConfig must not disable the guards.
	final := d.Run(context.Background(), State{}, RunConfig{}, time.Time{})
	assert.True(t, final.Complete)
}
