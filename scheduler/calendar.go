// Package scheduler is the calendar collaborator: tour slot availability
// and event creation. The engine consumes the Provider interface; the
// shipped implementations are a fixed-slot generator for availability and
// an HTTP calendar client for event creation.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/types"
)

// EventSpec describes a calendar event to create.
type EventSpec struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TimeZone    string    `json:"time_zone"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// Provider is the scheduling collaborator contract.
type Provider interface {
	AvailableSlots(ctx context.Context, durationMinutes int) ([]types.Slot, error)
	CreateEvent(ctx context.Context, spec EventSpec) (types.EventResult, error)
}

// Tour slots are offered at fixed hours starting the next day.
var slotHours = []int{9, 11, 14, 16}

const maxOfferedSlots = 10

// GenerateSlots produces the fixed tour slots for the next week, capped at
// maxOfferedSlots. Shared by the availability provider and the booking
// flow's slot-selection step.
func GenerateSlots(now time.Time, durationMinutes int) []types.Slot {
	if durationMinutes <= 0 {
		durationMinutes = 60
	}
	base := now.AddDate(0, 0, 1)
	var slots []types.Slot
	for day := 0; day < 7 && len(slots) < maxOfferedSlots; day++ {
		date := base.AddDate(0, 0, day)
		for _, hour := range slotHours {
			if len(slots) >= maxOfferedSlots {
				break
			}
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, now.Location())
			slots = append(slots, types.Slot{
				ID:        fmt.Sprintf("%s_%02d:00", start.Format("2006-01-02"), hour),
				Display:   start.Format("Monday, January 2 at 3:04 PM"),
				StartTime: start,
				Available: true,
			})
		}
	}
	return slots
}

// HTTPConfig configures the HTTP calendar client.
type HTTPConfig struct {
	BaseURL  string        `json:"base_url" yaml:"base_url"`
	APIKey   string        `json:"api_key" yaml:"api_key"`
	TimeZone string        `json:"time_zone" yaml:"time_zone"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// HTTPProvider talks to a calendar service over HTTP. Availability uses
// the fixed slot grid; event creation posts to the service.
type HTTPProvider struct {
	cfg    HTTPConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewHTTPProvider creates the calendar client.
func NewHTTPProvider(cfg HTTPConfig, logger *zap.Logger) *HTTPProvider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "America/Chicago"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "scheduler")),
		now:    time.Now,
	}
}

// AvailableSlots returns the fixed tour slot grid.
func (p *HTTPProvider) AvailableSlots(_ context.Context, durationMinutes int) ([]types.Slot, error) {
	return GenerateSlots(p.now(), durationMinutes), nil
}

type createEventRequest struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	TimeZone    string   `json:"time_zone"`
	Attendees   []string `json:"attendees,omitempty"`
}

type createEventResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CreateEvent posts the event to the calendar service. Without a
// configured BaseURL it degrades to a locally generated event id so
// development setups work end to end.
func (p *HTTPProvider) CreateEvent(ctx context.Context, spec EventSpec) (types.EventResult, error) {
	if spec.TimeZone == "" {
		spec.TimeZone = p.cfg.TimeZone
	}
	if p.cfg.BaseURL == "" {
		id := "local-" + uuid.NewString()
		p.logger.Info("calendar backend not configured, using local event id",
			zap.String("event_id", id))
		return types.EventResult{Success: true, EventID: id}, nil
	}

	body, err := json.Marshal(createEventRequest{
		Summary:     spec.Summary,
		Description: spec.Description,
		Start:       spec.Start.Format(time.RFC3339),
		End:         spec.End.Format(time.RFC3339),
		TimeZone:    spec.TimeZone,
		Attendees:   spec.Attendees,
	})
	if err != nil {
		return types.EventResult{}, fmt.Errorf("marshal event: %w", err)
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return types.EventResult{}, fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return types.EventResult{}, fmt.Errorf("create event: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return types.EventResult{}, fmt.Errorf("read event response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return types.EventResult{}, fmt.Errorf("calendar backend status %d", resp.StatusCode)
	}

	var parsed createEventResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return types.EventResult{}, fmt.Errorf("decode event response: %w", err)
	}
	if !parsed.Success || parsed.ID == "" {
		return types.EventResult{Success: false, Error: parsed.Error}, nil
	}

	p.logger.Info("calendar event created", zap.String("event_id", parsed.ID))
	return types.EventResult{Success: true, EventID: parsed.ID}, nil
}
