package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateSlots(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	slots := GenerateSlots(now, 60)

	require.Len(t, slots, maxOfferedSlots)
	first := slots[0]
	assert.Equal(t, time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), first.StartTime)
	assert.Equal(t, "2026-09-02_09:00", first.ID)
	assert.True(t, first.Available)
	assert.Contains(t, first.Display, "September 2")

	// Four slots per day, so the grid spills into a third day.
	assert.Equal(t, time.Date(2026, 9, 4, 11, 0, 0, 0, time.UTC), slots[9].StartTime)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].StartTime.After(slots[i-1].StartTime))
	}
}

func TestGenerateSlots_ZeroDurationDefaults(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, GenerateSlots(now, 60), GenerateSlots(now, 0))
}

func TestHTTPProvider_AvailableSlots(t *testing.T) {
	p := NewHTTPProvider(HTTPConfig{}, zap.NewNop())
	p.now = func() time.Time { return time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC) }

	slots, err := p.AvailableSlots(context.Background(), 60)
	require.NoError(t, err)
	assert.Len(t, slots, maxOfferedSlots)
}

func TestCreateEvent_LocalFallbackWithoutBaseURL(t *testing.T) {
	p := NewHTTPProvider(HTTPConfig{}, zap.NewNop())

	result, err := p.CreateEvent(context.Background(), EventSpec{Summary: "Tour"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.EventID, "local-"))
}

func TestCreateEvent_PostsToBackend(t *testing.T) {
	var captured createEventRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/events", r.URL.Path)
		assert.Equal(t, "Bearer cal-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(createEventResponse{ID: "evt-99", Success: true})
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{BaseURL: srv.URL, APIKey: "cal-key"}, zap.NewNop())
	start := time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)
	result, err := p.CreateEvent(context.Background(), EventSpec{
		Summary:   "Property Tour",
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: []string{"jordan@example.com"},
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "evt-99", result.EventID)
	assert.Equal(t, "Property Tour", captured.Summary)
	assert.Equal(t, start.Format(time.RFC3339), captured.Start)
	assert.Equal(t, "America/Chicago", captured.TimeZone)
	assert.Equal(t, []string{"jordan@example.com"}, captured.Attendees)
}

func TestCreateEvent_BackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(createEventResponse{Success: false, Error: "slot taken"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	result, err := p.CreateEvent(context.Background(), EventSpec{Summary: "Tour"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "slot taken", result.Error)
}

func TestCreateEvent_BackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())
	_, err := p.CreateEvent(context.Background(), EventSpec{Summary: "Tour"})
	assert.ErrorContains(t, err, "status 500")
}
