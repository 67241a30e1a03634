// Package booking drives the interactive tour booking flow. It is a small
// state machine keyed on the client's action type and the step carried in
// the session; it runs before the conversational graph and bypasses it
// entirely when it recognizes the action.
package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/catalog"
	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/types"
)

// Client action types recognized by the flow.
const (
	ActionInquire       = "inquire"
	ActionBookSchedule  = "book_schedule"
	ActionSelectSlot    = "select_slot"
	ActionProvideInfo   = "provide_info"
	ActionCancelBooking = "cancel_booking"
)

// Flow steps.
const (
	StepPropertySearch      = "property_search"
	StepPropertyDetails     = "property_details"
	StepSlotSelection       = "slot_selection"
	StepInfoCollection      = "info_collection"
	StepBookingConfirmation = "booking_confirmation"
	StepBookingComplete     = "booking_complete"
)

// Contact fields are collected in this order, one per turn.
var requiredFieldsOrder = []string{"name", "email", "phone", "pets"}

var fieldPrompts = map[string]string{
	"name":  "What's your full name?",
	"email": "What's your email address?",
	"phone": "What's your phone number?",
	"pets":  "Do you have any pets? If yes, please specify.",
}

// Request is the booking-relevant slice of an incoming turn.
type Request struct {
	ActionType   string
	CurrentStep  string
	PropertyID   string
	SelectedSlot *types.Slot
	UserInfo     map[string]string
	Properties   []types.Property
}

// Update is the flow's outcome for one turn. The chat layer merges it
// into the outward response; it never flows through the graph state.
type Update struct {
	CurrentStep      string
	ResponseMessage  string
	AvailableSlots   []types.Slot
	RequiresUserInfo bool
	NextField        string
	MissingFields    []string
	InfoPrompt       string
	ValidationError  bool
	PropertyDetails  *types.PropertyDetails
	Appointment      *types.Appointment
	Complete         bool
	SuggestedActions []string
}

// Handles reports whether the action type belongs to the booking flow.
func Handles(actionType string) bool {
	switch actionType {
	case ActionInquire, ActionBookSchedule, ActionSelectSlot, ActionProvideInfo, ActionCancelBooking:
		return true
	}
	return false
}

// Flow is the booking state machine.
type Flow struct {
	catalog *catalog.Store
	logger  *zap.Logger
	now     func() time.Time
}

// NewFlow creates the booking flow.
func NewFlow(store *catalog.Store, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		catalog: store,
		logger:  logger.With(zap.String("component", "booking")),
		now:     time.Now,
	}
}

// ProcessAction advances the flow one step. Unknown action types fall
// back to the handler for the carried step, so out-of-order requests
// re-prompt instead of erroring.
func (f *Flow) ProcessAction(ctx context.Context, req Request) (Update, error) {
	f.logger.Info("processing booking action",
		zap.String("action", req.ActionType),
		zap.String("step", req.CurrentStep))

	switch req.ActionType {
	case ActionInquire:
		return f.handleInquiry(ctx, req)
	case ActionBookSchedule:
		return f.handleBookingRequest(req)
	case ActionSelectSlot:
		return f.handleSlotSelection(req)
	case ActionProvideInfo:
		return f.handleInfoCollection(req)
	case ActionCancelBooking:
		return f.handleCancel(), nil
	}

	switch req.CurrentStep {
	case StepSlotSelection:
		return f.handleSlotSelection(req)
	case StepInfoCollection:
		return f.handleInfoCollection(req)
	case StepBookingConfirmation:
		return f.confirmBooking(req), nil
	default:
		return Update{
			CurrentStep:      StepPropertySearch,
			ResponseMessage:  `Here are the available properties. Click "Inquire" for details or "Book Schedule" to view available times.`,
			SuggestedActions: []string{ActionInquire, ActionBookSchedule},
		}, nil
	}
}

func (f *Flow) handleCancel() Update {
	return Update{
		CurrentStep:      StepPropertySearch,
		ResponseMessage:  "Booking canceled. You can start again when ready.",
		SuggestedActions: []string{"search_properties", ActionBookSchedule},
	}
}

func (f *Flow) handleInquiry(ctx context.Context, req Request) (Update, error) {
	selected, ok := findProperty(req.Properties, req.PropertyID)
	if !ok && f.catalog != nil {
		p, err := f.catalog.Get(ctx, req.PropertyID)
		if err == nil {
			selected, ok = p, true
		}
	}
	if !ok {
		return Update{
			CurrentStep:     StepPropertySearch,
			ResponseMessage: "Property not found. Please try again.",
		}, nil
	}

	details := types.DetailsFor(selected)
	return Update{
		CurrentStep:      StepPropertyDetails,
		ResponseMessage:  fmt.Sprintf("Here are the details for %s:", selected.Address),
		PropertyDetails:  &details,
		SuggestedActions: []string{ActionBookSchedule, "back_to_search"},
	}, nil
}

func (f *Flow) handleBookingRequest(req Request) (Update, error) {
	if req.PropertyID == "" {
		return Update{
			CurrentStep:     StepPropertySearch,
			ResponseMessage: "Please select a property first.",
		}, nil
	}
	return Update{
		CurrentStep:      StepSlotSelection,
		ResponseMessage:  "Please select an available time slot for your property visit:",
		AvailableSlots:   scheduler.GenerateSlots(f.now(), 60),
		SuggestedActions: []string{ActionSelectSlot, ActionCancelBooking},
	}, nil
}

func (f *Flow) handleSlotSelection(req Request) (Update, error) {
	if req.SelectedSlot == nil {
		return Update{
			CurrentStep:     StepSlotSelection,
			ResponseMessage: "Please select a time slot.",
		}, nil
	}

	if next := nextMissingField(req.UserInfo); next != "" {
		return Update{
			CurrentStep:      StepInfoCollection,
			ResponseMessage:  "To complete your booking, please provide the following information:",
			RequiresUserInfo: true,
			MissingFields:    missingFields(req.UserInfo),
			NextField:        next,
			InfoPrompt:       fieldPrompts[next],
			SuggestedActions: []string{ActionProvideInfo, ActionCancelBooking},
		}, nil
	}
	return f.confirmBooking(req), nil
}

func (f *Flow) handleInfoCollection(req Request) (Update, error) {
	// Supplied fields are validated before the next one is requested, so
	// an invalid value re-prompts for the same field.
	if req.ActionType == ActionProvideInfo {
		for _, field := range requiredFieldsOrder {
			value, present := req.UserInfo[field]
			if !present {
				continue
			}
			if msg := ValidateField(field, value); msg != "" {
				return Update{
					CurrentStep:      StepInfoCollection,
					ResponseMessage:  fmt.Sprintf("Invalid %s: %s. Please try again:", field, msg),
					RequiresUserInfo: true,
					NextField:        field,
					InfoPrompt:       fieldPrompts[field],
					ValidationError:  true,
					SuggestedActions: []string{ActionProvideInfo, ActionCancelBooking},
				}, nil
			}
		}
	}

	if next := nextMissingField(req.UserInfo); next != "" {
		prompt := fieldPrompts[next]
		return Update{
			CurrentStep:      StepInfoCollection,
			ResponseMessage:  prompt,
			RequiresUserInfo: true,
			MissingFields:    missingFields(req.UserInfo),
			NextField:        next,
			InfoPrompt:       prompt,
			SuggestedActions: []string{ActionProvideInfo, ActionCancelBooking},
		}, nil
	}
	return f.confirmBooking(req), nil
}

func (f *Flow) confirmBooking(req Request) Update {
	pets := req.UserInfo["pets"]
	if pets == "" {
		pets = "Not specified"
	}
	appt := &types.Appointment{
		PropertyID: req.PropertyID,
		UserName:   req.UserInfo["name"],
		UserEmail:  req.UserInfo["email"],
		UserPhone:  req.UserInfo["phone"],
		UserPets:   pets,
		CreatedAt:  f.now(),
	}
	display := ""
	if req.SelectedSlot != nil {
		slot := *req.SelectedSlot
		appt.Slot = &slot
		appt.FormattedDate = req.SelectedSlot.Display
		display = req.SelectedSlot.Display
	}
	if p, ok := findProperty(req.Properties, req.PropertyID); ok {
		appt.PropertyAddress = p.Address
	}

	return Update{
		CurrentStep: StepBookingComplete,
		ResponseMessage: fmt.Sprintf(
			"Great! Your appointment has been scheduled for %s. You'll receive a confirmation SMS shortly.", display),
		Appointment:      appt,
		Complete:         true,
		SuggestedActions: []string{"booking_confirmed", "new_search"},
	}
}

func findProperty(properties []types.Property, id string) (types.Property, bool) {
	for _, p := range properties {
		if p.ID == id {
			return p, true
		}
	}
	return types.Property{}, false
}

func nextMissingField(info map[string]string) string {
	for _, f := range requiredFieldsOrder {
		if info[f] == "" {
			return f
		}
	}
	return ""
}

func missingFields(info map[string]string) []string {
	var out []string
	for _, f := range requiredFieldsOrder {
		if info[f] == "" {
			out = append(out, f)
		}
	}
	return out
}
