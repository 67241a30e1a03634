// Package chat composes one conversational turn: session load, booking
// flow bypass, workflow run, post-booking side effects and session
// persistence.
package chat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/booking"
	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/internal/metrics"
	"github.com/propertytek/chatflow/notify"
	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/session"
	"github.com/propertytek/chatflow/types"
	"github.com/propertytek/chatflow/workflow"
)

// TurnRequest is one incoming chat turn.
type TurnRequest struct {
	Query               string            `json:"query"`
	UserID              string            `json:"user_id"`
	ConversationHistory string            `json:"conversation_history,omitempty"`
	ActionType          string            `json:"action_type,omitempty"`
	PropertyID          string            `json:"property_id,omitempty"`
	SelectedSlot        *types.Slot       `json:"selected_slot,omitempty"`
	UserInfo            map[string]string `json:"user_info,omitempty"`
}

// TurnResponse is the outward reply for one turn.
type TurnResponse struct {
	Response         string                 `json:"response"`
	Intent           string                 `json:"intent,omitempty"`
	Entities         map[string]string      `json:"entities"`
	SuggestedActions []string               `json:"suggested_actions"`
	Properties       []types.Property       `json:"properties"`
	AvailableSlots   []types.Slot           `json:"available_slots"`
	CurrentStep      string                 `json:"current_step"`
	RequiresUserInfo bool                   `json:"requires_user_info"`
	PropertyDetails  *types.PropertyDetails `json:"property_details,omitempty"`
	Appointment      *types.Appointment     `json:"appointment_details,omitempty"`
	NextField        string                 `json:"next_field,omitempty"`
	MissingFields    []string               `json:"missing_fields"`
	InfoPrompt       string                 `json:"info_prompt,omitempty"`
}

// Service handles chat turns.
type Service struct {
	driver     *workflow.Driver
	runCfg     workflow.RunConfig
	runTimeout time.Duration
	booking    *booking.Flow
	sessions   *session.Store
	catalog    *catalog.Store
	scheduler  scheduler.Provider
	sms        notify.Sender
	collector  *metrics.Collector
	logger     *zap.Logger
}

// Options wires the service. Driver, Booking and Sessions are required;
// the rest may be nil and the corresponding side effects are skipped.
type Options struct {
	Driver     *workflow.Driver
	RunConfig  workflow.RunConfig
	RunTimeout time.Duration
	Booking    *booking.Flow
	Sessions   *session.Store
	Catalog    *catalog.Store
	Scheduler  scheduler.Provider
	SMS        notify.Sender
	Collector  *metrics.Collector
	Logger     *zap.Logger
}

// NewService creates the chat service.
func NewService(opts Options) (*Service, error) {
	if opts.Driver == nil {
		return nil, fmt.Errorf("chat: driver is required")
	}
	if opts.Booking == nil {
		return nil, fmt.Errorf("chat: booking flow is required")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("chat: session store is required")
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 120 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		driver:     opts.Driver,
		runCfg:     opts.RunConfig,
		runTimeout: opts.RunTimeout,
		booking:    opts.Booking,
		sessions:   opts.Sessions,
		catalog:    opts.Catalog,
		scheduler:  opts.Scheduler,
		sms:        opts.SMS,
		collector:  opts.Collector,
		logger:     logger.With(zap.String("component", "chat")),
	}, nil
}

const historyWindow = 10

// HandleTurn processes one chat turn end to end.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	history, err := s.sessions.History(ctx, req.UserID)
	if err != nil {
		// Session loss degrades to a fresh conversation, not a failed turn.
		s.logger.Warn("loading session history failed", zap.Error(err))
		s.recordSessionMiss("history")
	} else if len(history) > 0 {
		s.recordSessionHit("history")
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	filters, err := s.sessions.Filters(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("loading session filters failed", zap.Error(err))
		s.recordSessionMiss("filters")
	} else if !filters.IsEmpty() {
		s.recordSessionHit("filters")
	}

	st := workflow.State{
		UserQuery:           req.Query,
		UserID:              req.UserID,
		ConversationHistory: req.ConversationHistory,
		Messages:            history,
		ActionType:          req.ActionType,
		PropertyID:          req.PropertyID,
		SelectedSlot:        req.SelectedSlot,
		UserInfo:            req.UserInfo,
		SearchFilters:       filters,
		CurrentStep:         booking.StepPropertySearch,
	}

	var resp TurnResponse
	if booking.Handles(req.ActionType) {
		resp, err = s.handleBookingTurn(ctx, req, st)
	} else {
		resp = s.handleWorkflowTurn(ctx, req, st)
	}
	if err != nil {
		return TurnResponse{}, err
	}

	s.persist(ctx, req, resp)
	return resp, nil
}

// handleWorkflowTurn runs the conversational graph under the run deadline.
func (s *Service) handleWorkflowTurn(ctx context.Context, req TurnRequest, st workflow.State) TurnResponse {
	deadline := time.Now().Add(s.runTimeout)
	final := s.driver.Run(ctx, st, s.runCfg, deadline)

	if req.UserID != "" {
		if err := s.sessions.SaveFilters(ctx, req.UserID, final.SearchFilters); err != nil {
			s.logger.Warn("persisting search filters failed", zap.Error(err))
		}
	}

	return TurnResponse{
		Response:         final.ResponseMessage,
		Intent:           final.Intent,
		Entities:         orEmptyMap(final.Entities),
		SuggestedActions: orEmptySlice(final.SuggestedActions),
		Properties:       orEmptyProperties(final.Properties),
		AvailableSlots:   orEmptySlots(final.AvailableSlots),
		CurrentStep:      orDefault(final.CurrentStep, booking.StepPropertySearch),
		RequiresUserInfo: final.RequiresUserInfo,
		Appointment:      final.Appointment,
		MissingFields:    orEmptySlice(final.MissingFields),
	}
}

// handleBookingTurn bypasses the graph for interactive booking actions
// and performs the calendar and SMS side effects once the flow completes.
func (s *Service) handleBookingTurn(ctx context.Context, req TurnRequest, st workflow.State) (TurnResponse, error) {
	update, err := s.booking.ProcessAction(ctx, booking.Request{
		ActionType:   req.ActionType,
		CurrentStep:  st.CurrentStep,
		PropertyID:   req.PropertyID,
		SelectedSlot: req.SelectedSlot,
		UserInfo:     req.UserInfo,
		Properties:   nil,
	})
	if err != nil {
		return TurnResponse{}, fmt.Errorf("booking flow: %w", err)
	}

	if update.Complete && update.Appointment != nil {
		s.completeBooking(ctx, update.Appointment)
	}

	resp := TurnResponse{
		Response:         orDefault(update.ResponseMessage, "I'm here to help!"),
		Entities:         map[string]string{},
		SuggestedActions: orEmptySlice(update.SuggestedActions),
		Properties:       []types.Property{},
		AvailableSlots:   orEmptySlots(update.AvailableSlots),
		CurrentStep:      orDefault(update.CurrentStep, booking.StepPropertySearch),
		RequiresUserInfo: update.RequiresUserInfo,
		PropertyDetails:  update.PropertyDetails,
		Appointment:      update.Appointment,
		NextField:        update.NextField,
		MissingFields:    orEmptySlice(update.MissingFields),
		InfoPrompt:       update.InfoPrompt,
	}
	return resp, nil
}

// completeBooking books the calendar event and sends the confirmation SMS
// for a finished booking flow. Failures are logged, never surfaced; the
// booking itself stands.
func (s *Service) completeBooking(ctx context.Context, appt *types.Appointment) {
	if s.scheduler != nil && appt.Slot != nil && !appt.Slot.StartTime.IsZero() {
		spec := scheduler.EventSpec{
			Summary: "Property Tour - " + orDefault(appt.UserName, "Client"),
			Description: fmt.Sprintf(
				"Property Tour Appointment\n\nClient Information:\n- Full Name: %s\n- Email: %s\n- Phone: %s\n- Pets: %s\n\nProperty: %s",
				appt.UserName, appt.UserEmail, appt.UserPhone, appt.UserPets,
				orDefault(appt.PropertyAddress, appt.PropertyID)),
			Start: appt.Slot.StartTime,
			End:   appt.Slot.StartTime.Add(time.Hour),
		}
		if appt.UserEmail != "" {
			spec.Attendees = []string{appt.UserEmail}
		}
		result, err := s.scheduler.CreateEvent(ctx, spec)
		if err != nil {
			s.logger.Error("post-booking calendar event failed", zap.Error(err))
		} else if result.Success {
			appt.EventID = result.EventID
			appt.FormattedDate = appt.Slot.StartTime.Format("Monday, January 2 at 3:04 PM")
		}
	}

	if s.sms != nil && appt.UserPhone != "" {
		result, err := s.sms.SendSMS(ctx, appt.UserPhone, notify.ConfirmationBody(*appt))
		if err != nil {
			s.logger.Error("post-booking sms failed", zap.Error(err))
		}
		if s.collector != nil {
			s.collector.RecordSMS(err == nil && result.Success)
		}
	}
}

// persist saves chat history for conversational turns. Persistence is
// last-write-wins per user.
func (s *Service) persist(ctx context.Context, req TurnRequest, resp TurnResponse) {
	if req.UserID == "" {
		return
	}
	if !booking.Handles(req.ActionType) {
		err := s.sessions.AppendHistory(ctx, req.UserID,
			types.Message{Role: types.RoleUser, Content: req.Query},
			types.Message{Role: types.RoleAssistant, Content: resp.Response},
		)
		if err != nil {
			s.logger.Warn("persisting chat history failed", zap.Error(err))
		}
	}
}

func (s *Service) recordSessionHit(kind string) {
	if s.collector != nil {
		s.collector.RecordSessionHit(kind)
	}
}

func (s *Service) recordSessionMiss(kind string) {
	if s.collector != nil {
		s.collector.RecordSessionMiss(kind)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyProperties(p []types.Property) []types.Property {
	if p == nil {
		return []types.Property{}
	}
	return p
}

func orEmptySlots(s []types.Slot) []types.Slot {
	if s == nil {
		return []types.Slot{}
	}
	return s
}
