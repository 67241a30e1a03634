package chat

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/booking"
	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/session"
	"github.com/propertytek/chatflow/testutil/fixtures"
	"github.com/propertytek/chatflow/testutil/mocks"
	"github.com/propertytek/chatflow/workflow"
	"github.com/propertytek/chatflow/workflow/nodes"
)

type serviceDeps struct {
	llm      *mocks.LLMClient
	sched    *mocks.Scheduler
	sms      *mocks.SMSSender
	tracker  *mocks.Tracker
	sessions *session.Store
	catalog  *catalog.Store
	redis    *miniredis.Miniredis
}

func newTestService(t *testing.T) (*Service, *serviceDeps) {
	t.Helper()

	deps := &serviceDeps{
		llm:     mocks.NewLLMClient(),
		sched:   mocks.NewScheduler(),
		sms:     mocks.NewSMSSender(),
		tracker: mocks.NewTracker(),
	}

	var err error
	deps.catalog, err = catalog.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, deps.catalog.Seed(context.Background(), fixtures.Listings()))

	deps.redis = miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: deps.redis.Addr()})
	t.Cleanup(func() { client.Close() })
	deps.sessions = session.NewStoreWithClient(client, session.DefaultConfig(), zap.NewNop())

	registry := workflow.NewRegistry()
	require.NoError(t, nodes.RegisterAll(registry, nodes.Deps{
		LLM:       deps.llm,
		Catalog:   deps.catalog,
		Scheduler: deps.sched,
		SMS:       deps.sms,
		Logger:    zap.NewNop(),
	}))
	graph, err := workflow.NewLeasingGraph(registry)
	require.NoError(t, err)
	driver := workflow.NewDriver(graph, deps.tracker, zap.NewNop())

	svc, err := NewService(Options{
		Driver:     driver,
		RunConfig:  workflow.DefaultRunConfig(),
		RunTimeout: 30 * time.Second,
		Booking:    booking.NewFlow(deps.catalog, zap.NewNop()),
		Sessions:   deps.sessions,
		Catalog:    deps.catalog,
		Scheduler:  deps.sched,
		SMS:        deps.sms,
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)
	return svc, deps
}

func TestNewService_RequiredDependencies(t *testing.T) {
	_, err := NewService(Options{})
	assert.ErrorContains(t, err, "driver is required")
}

func TestHandleTurn_SearchFlow(t *testing.T) {
	svc, deps := newTestService(t)
	deps.llm.WithResponse("Here is a great 2 bedroom in Austin.", "Book a tour", "Refine search")

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{
		Query:  "2 bedroom in Austin",
		UserID: "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Here is a great 2 bedroom in Austin.", resp.Response)
	assert.Equal(t, workflow.IntentPropertySearch, resp.Intent)
	require.Len(t, resp.Properties, 1)
	assert.Equal(t, "fix-002", resp.Properties[0].ID)
	assert.Equal(t, []string{"Book a tour", "Refine search"}, resp.SuggestedActions)

	// The run traversed the graph and reached the terminal node.
	steps := deps.tracker.Steps()
	assert.Contains(t, steps, workflow.NodeAnalyzeIntent)
	assert.Contains(t, steps, workflow.NodeSearchProperties)
	assert.Contains(t, steps, workflow.NodeGenerateResponse)
}

func TestHandleTurn_PersistsHistoryAndFilters(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, TurnRequest{Query: "2 bedroom in Austin", UserID: "u1"})
	require.NoError(t, err)

	history, err := deps.sessions.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2 bedroom in Austin", history[0].Content)

	filters, err := deps.sessions.Filters(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Austin", filters.City)
	assert.Equal(t, 2, filters.Bedrooms)
}

func TestHandleTurn_FiltersCarryAcrossTurns(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	_, err := svc.HandleTurn(ctx, TurnRequest{Query: "2 bedroom in Austin", UserID: "u1"})
	require.NoError(t, err)

	resp, err := svc.HandleTurn(ctx, TurnRequest{Query: "how about 1 bedroom instead", UserID: "u1"})
	require.NoError(t, err)

	require.Len(t, resp.Properties, 1)
	assert.Equal(t, "fix-001", resp.Properties[0].ID)

	filters, err := deps.sessions.Filters(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Austin", filters.City)
	assert.Equal(t, 1, filters.Bedrooms)
}

func TestHandleTurn_GreetingSkipsSearch(t *testing.T) {
	svc, deps := newTestService(t)
	deps.llm.WithResponse("Hello! How can I help with your home search?")

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{Query: "hello", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, workflow.IntentGreeting, resp.Intent)
	assert.Empty(t, resp.Properties)
	assert.NotContains(t, deps.tracker.Steps(), workflow.NodeSearchProperties)
}

func TestHandleTurn_BookingBypassesGraph(t *testing.T) {
	svc, deps := newTestService(t)

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{
		UserID:     "u1",
		ActionType: booking.ActionBookSchedule,
		PropertyID: "fix-001",
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StepSlotSelection, resp.CurrentStep)
	assert.NotEmpty(t, resp.AvailableSlots)
	assert.Empty(t, deps.tracker.Steps())
	assert.Empty(t, deps.llm.ClassifyCalls)

	// Booking turns are interactive UI steps, not conversation.
	history, err := deps.sessions.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHandleTurn_CompleteBookingSideEffects(t *testing.T) {
	svc, deps := newTestService(t)
	slot := fixtures.Slot(11)

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{
		UserID:       "u1",
		ActionType:   booking.ActionProvideInfo,
		PropertyID:   "fix-002",
		SelectedSlot: &slot,
		UserInfo:     fixtures.UserInfo(),
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StepBookingComplete, resp.CurrentStep)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, "mock-event-1", resp.Appointment.EventID)

	require.Len(t, deps.sched.EventCalls, 1)
	assert.Equal(t, slot.StartTime, deps.sched.EventCalls[0].Start)

	require.Len(t, deps.sms.Calls, 1)
	assert.Equal(t, "+15125550142", deps.sms.Calls[0].To)
	assert.Contains(t, deps.sms.Calls[0].Body, "Your tour is confirmed!")
}

func TestHandleTurn_InfoCollectionStep(t *testing.T) {
	svc, deps := newTestService(t)
	slot := fixtures.Slot(11)

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{
		UserID:       "u1",
		ActionType:   booking.ActionSelectSlot,
		PropertyID:   "fix-002",
		SelectedSlot: &slot,
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StepInfoCollection, resp.CurrentStep)
	assert.True(t, resp.RequiresUserInfo)
	assert.Equal(t, "name", resp.NextField)
	assert.Empty(t, deps.sched.EventCalls)
	assert.Empty(t, deps.sms.Calls)
}

func TestHandleTurn_SessionOutageDegrades(t *testing.T) {
	svc, deps := newTestService(t)
	deps.redis.Close()

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{Query: "hello", UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Response)
}

func TestHandleTurn_EmptyCollectionsNotNil(t *testing.T) {
	svc, deps := newTestService(t)
	deps.llm.WithResponse("Hi!")

	resp, err := svc.HandleTurn(context.Background(), TurnRequest{Query: "hello", UserID: "u1"})
	require.NoError(t, err)

	assert.NotNil(t, resp.Entities)
	assert.NotNil(t, resp.Properties)
	assert.NotNil(t, resp.AvailableSlots)
	assert.NotNil(t, resp.MissingFields)
	assert.NotNil(t, resp.SuggestedActions)
}
