package nodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/llm"
	"github.com/propertytek/chatflow/testutil/fixtures"
	"github.com/propertytek/chatflow/testutil/mocks"
	"github.com/propertytek/chatflow/types"
	"github.com/propertytek/chatflow/workflow"
)

func openCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Seed(context.Background(), fixtures.Listings()))
	return store
}

func TestHeuristicIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"greeting", "Hello there!", workflow.IntentGreeting},
		{"self introduction", "I'm Jordan", workflow.IntentSelfIntro},
		{"long self intro is not an intro", "I am looking for something but I cannot quite say what it is just yet today", ""},
		{"bedrooms with count", "show me 2 bedroom places", workflow.IntentPropertySearch},
		{"housing keyword", "any apartments available?", workflow.IntentPropertySearch},
		{"booking", "I'd like to schedule a tour", workflow.IntentScheduleTour},
		{"booking with housing stays search", "book a tour of that apartment", workflow.IntentPropertySearch},
		{"retail", "where can I buy an iphone", workflow.IntentNonProperty},
		{"empty", "   ", ""},
		{"no rule", "what is the meaning of life", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, heuristicIntent(tt.query))
		})
	}
}

func TestIntentAnalyzer_HeuristicOverridesModel(t *testing.T) {
	client := mocks.NewLLMClient().
		WithIntent(workflow.IntentGeneralInfo).
		WithEntities(map[string]string{"bedrooms": "2"})
	node := &IntentAnalyzer{llm: client, logger: zap.NewNop()}

	st := workflow.State{UserQuery: "2 bedroom apartment in Austin"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Equal(t, workflow.IntentPropertySearch, got.Intent)
	assert.Equal(t, map[string]string{"bedrooms": "2"}, got.Entities)
	assert.Len(t, client.ClassifyCalls, 1)
}

func TestIntentAnalyzer_ModelFillsWhenNoHeuristic(t *testing.T) {
	client := mocks.NewLLMClient().WithIntent(workflow.IntentScheduleTour)
	node := &IntentAnalyzer{llm: client, logger: zap.NewNop()}

	st := workflow.State{UserQuery: "can we set an appointment up for tomorrow?"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)
	assert.Equal(t, workflow.IntentScheduleTour, st.Apply(d).Intent)
}

func TestIntentAnalyzer_ClassifyErrorToleratedWithHeuristic(t *testing.T) {
	client := mocks.NewLLMClient().WithClassifyError(errors.New("model unreachable"))
	node := &IntentAnalyzer{llm: client, logger: zap.NewNop()}

	st := workflow.State{UserQuery: "looking for a rental house"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)
	assert.Equal(t, workflow.IntentPropertySearch, st.Apply(d).Intent)
}

func TestIntentAnalyzer_ClassifyErrorWithoutHeuristicFails(t *testing.T) {
	client := mocks.NewLLMClient().WithClassifyError(errors.New("model unreachable"))
	node := &IntentAnalyzer{llm: client, logger: zap.NewNop()}

	st := workflow.State{UserQuery: "what is the meaning of life"}
	_, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	assert.Error(t, err)
}

func TestIntentAnalyzer_NonPropertyClearsResultsKeepsFilters(t *testing.T) {
	client := mocks.NewLLMClient()
	node := &IntentAnalyzer{llm: client, logger: zap.NewNop()}

	st := workflow.State{
		UserQuery:     "where can I buy a laptop",
		Properties:    []types.Property{{ID: "stale"}},
		SearchFilters: types.Criteria{City: "Austin"},
	}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Equal(t, workflow.IntentNonProperty, got.Intent)
	assert.Nil(t, got.Properties)
	assert.Equal(t, "Austin", got.SearchFilters.City)
}

func TestPropertySearcher_NoHintsResetsFilters(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{
		UserQuery:     "tell me a joke",
		SearchFilters: types.Criteria{City: "Austin", Bedrooms: 2},
	}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Nil(t, got.Properties)
	assert.True(t, got.SearchFilters.IsEmpty())
	assert.Equal(t, 1, got.SearchIterations)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, workflow.FallbackNeedCriteria, got.Fallback.Kind)
}

func TestPropertySearcher_RetailQueryRedirects(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{UserQuery: "I want to rent a laptop"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Nil(t, got.Properties)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, workflow.FallbackGeneralFailure, got.Fallback.Kind)
	assert.Equal(t, "non_property", got.Fallback.Details["reason"])
}

func TestPropertySearcher_OutOfStateLocation(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{UserQuery: "apartments in Chicago"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Nil(t, got.Properties)
	assert.Empty(t, got.SearchFilters.City)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, workflow.FallbackNoProperties, got.Fallback.Kind)
	assert.Equal(t, "Chicago", got.Fallback.Details["original_location"])
	assert.NotEmpty(t, got.Fallback.Details["suggested_areas"])
}

func TestPropertySearcher_EmptyCriteriaAsksForCity(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{UserQuery: "looking for an apartment"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, workflow.FallbackNeedCriteria, got.Fallback.Kind)
	prompt, _ := got.Fallback.Details["clarify_prompt"].(string)
	assert.Contains(t, prompt, "Which city")
}

func TestPropertySearcher_FindsMatches(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{UserQuery: "2 bedroom in Austin"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, "fix-002", got.Properties[0].ID)
	assert.Equal(t, "Austin", got.SearchFilters.City)
	assert.Equal(t, 2, got.SearchFilters.Bedrooms)
	assert.Nil(t, got.Fallback)
}

func TestPropertySearcher_ZeroResultsTailorsSuggestions(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{UserQuery: "5 bedroom in Dallas"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Empty(t, got.Properties)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, workflow.FallbackNoProperties, got.Fallback.Kind)
	suggestions, ok := got.Fallback.Details["suggestions"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, suggestions, "bedrooms")
}

func TestPropertySearcher_MergesCarriedFilters(t *testing.T) {
	node := &PropertySearcher{catalog: openCatalog(t), logger: zap.NewNop()}

	st := workflow.State{
		UserQuery:     "how about 1 bedroom instead",
		SearchFilters: types.Criteria{City: "Austin", Bedrooms: 2},
	}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, "fix-001", got.Properties[0].ID)
	assert.Equal(t, "Austin", got.SearchFilters.City)
	assert.Equal(t, 1, got.SearchFilters.Bedrooms)
}

func TestReflector_NeedCriteriaEndsLoop(t *testing.T) {
	node := &Reflector{logger: zap.NewNop()}

	st := workflow.State{Fallback: &workflow.Fallback{Kind: workflow.FallbackNeedCriteria}}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.False(t, got.NeedsMoreResearch)
	assert.Equal(t, workflow.NodeGenerateResponse, got.NextStep)
	assert.Zero(t, got.ReflectionLoops)
}

func TestReflector_RetriesWhileBudgetRemains(t *testing.T) {
	node := &Reflector{logger: zap.NewNop()}

	st := workflow.State{Properties: nil, ReflectionLoops: 0}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.True(t, got.NeedsMoreResearch)
	assert.Equal(t, 1, got.ReflectionLoops)
	assert.Equal(t, workflow.NodeSearchProperties, got.NextStep)
}

func TestReflector_FinalizesWithResults(t *testing.T) {
	node := &Reflector{logger: zap.NewNop()}

	st := workflow.State{Properties: []types.Property{{ID: "fix-001"}}}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.False(t, got.NeedsMoreResearch)
	assert.Equal(t, workflow.NodeGenerateResponse, got.NextStep)
}

func TestReflector_StopsAtLoopCeiling(t *testing.T) {
	node := &Reflector{logger: zap.NewNop()}

	st := workflow.State{Properties: nil, ReflectionLoops: 1}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.False(t, got.NeedsMoreResearch)
	assert.Equal(t, 1, got.ReflectionLoops)
	assert.Equal(t, workflow.NodeGenerateResponse, got.NextStep)
}

func TestSlotFinder_ReturnsSlots(t *testing.T) {
	sched := mocks.NewScheduler().WithSlots([]types.Slot{fixtures.Slot(9), fixtures.Slot(14)})
	node := &SlotFinder{scheduler: sched, logger: zap.NewNop()}

	d, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := workflow.State{}.Apply(d)
	assert.Len(t, got.AvailableSlots, 2)
	assert.Nil(t, got.Fallback)
	assert.Equal(t, 1, sched.SlotCalls)
}

func TestSlotFinder_NoSlotsSetsFallback(t *testing.T) {
	sched := mocks.NewScheduler().WithSlots([]types.Slot{})
	node := &SlotFinder{scheduler: sched, logger: zap.NewNop()}

	st := workflow.State{UserQuery: "when can I visit?"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	require.NotNil(t, got.Fallback)
	assert.Equal(t, workflow.FallbackNoAppointments, got.Fallback.Kind)
	assert.Equal(t, "when can I visit?", got.Fallback.Details["user_query"])
}

func TestSlotFinder_ProviderErrorPropagates(t *testing.T) {
	sched := mocks.NewScheduler().WithSlotsError(errors.New("calendar down"))
	node := &SlotFinder{scheduler: sched, logger: zap.NewNop()}

	_, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	assert.ErrorContains(t, err, "fetch available slots")
}

func TestUserInfoCollector_AllFieldsProceedsToBooking(t *testing.T) {
	node := &UserInfoCollector{logger: zap.NewNop()}

	st := workflow.State{
		UserQuery: "My name is Jordan Smith, email jordan.smith@example.com, phone 512-555-0142",
	}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Equal(t, "Jordan Smith", got.UserName)
	assert.Equal(t, "jordan.smith@example.com", got.UserEmail)
	assert.Equal(t, "+15125550142", got.UserPhone)
	assert.False(t, got.RequiresUserInfo)
	assert.Empty(t, got.MissingFields)
	assert.Equal(t, workflow.NodeCreateCalendarEvent, got.NextStep)
}

func TestUserInfoCollector_ReportsMissingFields(t *testing.T) {
	node := &UserInfoCollector{logger: zap.NewNop()}

	st := workflow.State{UserQuery: "my email is jordan@example.com"}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.True(t, got.RequiresUserInfo)
	assert.ElementsMatch(t, []string{"name", "phone"}, got.MissingFields)
	assert.Equal(t, workflow.NodeGenerateResponse, got.NextStep)
	assert.Equal(t, "info_collection", got.CurrentStep)
}

func TestUserInfoCollector_KeepsPreviouslyCollected(t *testing.T) {
	node := &UserInfoCollector{logger: zap.NewNop()}

	st := workflow.State{
		UserQuery:  "phone is 512 555 0142",
		ActionType: "provide_info",
		UserInfo:   map[string]string{"name": "Jordan Smith", "email": "jordan@example.com"},
	}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Equal(t, "Jordan Smith", got.UserName)
	assert.Equal(t, "+15125550142", got.UserPhone)
	assert.Equal(t, workflow.NodeCreateCalendarEvent, got.NextStep)
}

func TestExtractContactInfo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			"full sentence",
			"my name is jordan smith, my email is Jordan@Example.com, call me at (512) 555-0142",
			map[string]string{"name": "Jordan Smith", "email": "jordan@example.com", "phone": "+15125550142"},
		},
		{
			"bare ten digit phone",
			"5125550142",
			map[string]string{"phone": "+15125550142"},
		},
		{
			"labeled fields",
			"name: Casey Jones, pets: cats and dogs",
			map[string]string{"name": "Casey Jones", "pets": "Cats and Dogs"},
		},
		{
			"no pets",
			"I have no pets",
			map[string]string{"pets": "No Pets"},
		},
		{
			"nothing",
			"see you tomorrow",
			map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractContactInfo(tt.text))
		})
	}
}

func TestCalendarManager_BooksSelectedSlot(t *testing.T) {
	sched := mocks.NewScheduler().WithEventResult(types.EventResult{Success: true, EventID: "evt-42"})
	fixed := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	node := &CalendarManager{scheduler: sched, logger: zap.NewNop(), now: func() time.Time { return fixed }}

	slot := fixtures.Slot(14)
	st := workflow.State{
		PropertyID:   "fix-002",
		Properties:   []types.Property{{ID: "fix-002", Address: "2400 Nueces St, Austin, TX 78705"}},
		SelectedSlot: &slot,
		UserName:     "Jordan Smith",
		UserEmail:    "jordan@example.com",
		UserPhone:    "+15125550142",
	}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.Equal(t, "evt-42", got.CalendarEventID)
	require.NotNil(t, got.Appointment)
	assert.Equal(t, "fix-002", got.Appointment.PropertyID)
	assert.Equal(t, "2400 Nueces St, Austin, TX 78705", got.Appointment.PropertyAddress)
	assert.Equal(t, slot.StartTime.Format("Monday, January 2 at 3:04 PM"), got.Appointment.FormattedDate)

	require.Len(t, sched.EventCalls, 1)
	spec := sched.EventCalls[0]
	assert.Equal(t, slot.StartTime, spec.Start)
	assert.Equal(t, slot.StartTime.Add(time.Hour), spec.End)
	assert.Equal(t, []string{"jordan@example.com"}, spec.Attendees)
	assert.Contains(t, spec.Summary, "2400 Nueces St")
}

func TestCalendarManager_DefaultsToTomorrowMorning(t *testing.T) {
	sched := mocks.NewScheduler()
	fixed := time.Date(2026, 9, 1, 16, 30, 0, 0, time.UTC)
	node := &CalendarManager{scheduler: sched, logger: zap.NewNop(), now: func() time.Time { return fixed }}

	_, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	require.Len(t, sched.EventCalls, 1)
	want := time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, want, sched.EventCalls[0].Start)
}

func TestCalendarManager_RejectionBecomesErrorDelta(t *testing.T) {
	sched := mocks.NewScheduler().WithEventResult(types.EventResult{Success: false, Error: "calendar is full"})
	node := &CalendarManager{scheduler: sched, logger: zap.NewNop()}

	d, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := workflow.State{}.Apply(d)
	assert.Equal(t, "calendar is full", got.Error)
	assert.Nil(t, got.Appointment)
}

func TestCalendarManager_ProviderErrorPropagates(t *testing.T) {
	sched := mocks.NewScheduler().WithEventError(errors.New("timeout"))
	node := &CalendarManager{scheduler: sched, logger: zap.NewNop()}

	_, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	assert.ErrorContains(t, err, "create calendar event")
}

func TestSMSConfirmer_SendsConfirmation(t *testing.T) {
	sms := mocks.NewSMSSender()
	node := &SMSConfirmer{sms: sms, logger: zap.NewNop()}

	appt := fixtures.Appointment()
	st := workflow.State{UserPhone: "+15125550142", Appointment: appt}
	d, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := st.Apply(d)
	assert.True(t, got.SMSSent)
	require.NotNil(t, got.SMSResult)
	assert.Equal(t, "SM-mock-1", got.SMSResult.MessageID)
	require.Len(t, sms.Calls, 1)
	assert.Equal(t, "+15125550142", sms.Calls[0].To)
	assert.Contains(t, sms.Calls[0].Body, appt.PropertyAddress)
}

func TestSMSConfirmer_SkipsWithoutPhone(t *testing.T) {
	sms := mocks.NewSMSSender()
	node := &SMSConfirmer{sms: sms, logger: zap.NewNop()}

	appt := fixtures.Appointment()
	d, err := node.Execute(context.Background(), workflow.State{Appointment: appt}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	assert.Zero(t, d.Len())
	assert.Empty(t, sms.Calls)
}

func TestSMSConfirmer_SkipsWhenDisabled(t *testing.T) {
	sms := mocks.NewSMSSender()
	node := &SMSConfirmer{sms: sms, logger: zap.NewNop()}

	cfg := workflow.DefaultRunConfig()
	cfg.EnableSMS = false
	appt := fixtures.Appointment()
	st := workflow.State{UserPhone: "+15125550142", Appointment: appt}
	d, err := node.Execute(context.Background(), st, cfg)
	require.NoError(t, err)

	assert.Zero(t, d.Len())
	assert.Empty(t, sms.Calls)
}

func TestSMSConfirmer_SendErrorPropagates(t *testing.T) {
	sms := mocks.NewSMSSender().WithError(errors.New("twilio down"))
	node := &SMSConfirmer{sms: sms, logger: zap.NewNop()}

	appt := fixtures.Appointment()
	st := workflow.State{UserPhone: "+15125550142", Appointment: appt}
	_, err := node.Execute(context.Background(), st, workflow.DefaultRunConfig())
	assert.ErrorContains(t, err, "send confirmation sms")
}

func TestResponseGenerator_CapsSuggestedActions(t *testing.T) {
	client := mocks.NewLLMClient().WithResponse("Here are some options.", "One", "Two", "Three", "Four")
	node := &ResponseGenerator{llm: client, logger: zap.NewNop()}

	d, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := workflow.State{}.Apply(d)
	assert.Equal(t, "Here are some options.", got.ResponseMessage)
	assert.Equal(t, []string{"One", "Two", "Three"}, got.SuggestedActions)
	assert.True(t, got.Complete)
}

func TestResponseGenerator_RetriesWithFailureContext(t *testing.T) {
	calls := 0
	client := mocks.NewLLMClient().WithGenerateFunc(
		func(_ context.Context, req llm.ResponseRequest) (llm.ResponseResult, error) {
			calls++
			if calls == 1 {
				return llm.ResponseResult{}, errors.New("rate limited")
			}
			if assert.NotNil(t, req.Fallback) {
				assert.Equal(t, string(workflow.FallbackGeneralFailure), req.Fallback.Kind)
			}
			return llm.ResponseResult{Message: "Recovered reply."}, nil
		})
	node := &ResponseGenerator{llm: client, logger: zap.NewNop()}

	d, err := node.Execute(context.Background(), workflow.State{UserQuery: "hi"}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := workflow.State{}.Apply(d)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Recovered reply.", got.ResponseMessage)
	assert.Equal(t, defaultActions, got.SuggestedActions)
}

func TestResponseGenerator_DoubleFailureUsesApology(t *testing.T) {
	client := mocks.NewLLMClient().WithGenerateError(errors.New("backend down"))
	node := &ResponseGenerator{llm: client, logger: zap.NewNop()}

	d, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := workflow.State{}.Apply(d)
	assert.Equal(t, apologyMessage, got.ResponseMessage)
	assert.Equal(t, apologyActions, got.SuggestedActions)
	assert.True(t, got.Complete)
	assert.Len(t, client.GenerateCalls, 2)
}

func TestResponseGenerator_EmptyResultGetsDefaults(t *testing.T) {
	client := mocks.NewLLMClient().WithResponse("")
	node := &ResponseGenerator{llm: client, logger: zap.NewNop()}

	d, err := node.Execute(context.Background(), workflow.State{}, workflow.DefaultRunConfig())
	require.NoError(t, err)

	got := workflow.State{}.Apply(d)
	assert.Equal(t, defaultMessage, got.ResponseMessage)
	assert.Equal(t, defaultActions, got.SuggestedActions)
}
