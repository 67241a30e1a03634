package nodes

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/types"
	"github.com/propertytek/chatflow/workflow"
)

// CalendarManager books the tour on the calendar backend and records the
// appointment details for the confirmation steps.
type CalendarManager struct {
	scheduler scheduler.Provider
	logger    *zap.Logger
	now       func() time.Time
}

const appointmentTimeFormat = "Monday, January 2 at 3:04 PM"

func (n *CalendarManager) Execute(ctx context.Context, st workflow.State, cfg workflow.RunConfig) (workflow.Delta, error) {
	when := n.appointmentTime(st)
	address := propertyAddress(st)
	duration := time.Duration(cfg.SlotDurationMinutes) * time.Minute
	if duration <= 0 {
		duration = time.Hour
	}

	spec := scheduler.EventSpec{
		Summary: "Property Tour - " + address,
		Description: fmt.Sprintf(
			"Property Tour Appointment\n\nClient Details:\n- Name: %s\n- Email: %s\n- Phone: %s\n- Pets: %s\n\nProperty: %s",
			orNA(st.UserName), orNA(st.UserEmail), orNA(st.UserPhone), orNA(st.UserPets), address),
		Start: when,
		End:   when.Add(duration),
	}
	if st.UserEmail != "" {
		spec.Attendees = []string{st.UserEmail}
	}

	result, err := n.scheduler.CreateEvent(ctx, spec)
	if err != nil {
		return workflow.Delta{}, fmt.Errorf("create calendar event: %w", err)
	}
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "failed to create calendar event"
		}
		n.logger.Warn("calendar event creation rejected", zap.String("reason", reason))
		return workflow.NewDelta().Error(reason), nil
	}

	n.logger.Info("calendar event created",
		zap.String("event_id", result.EventID),
		zap.String("property", address))

	appt := &types.Appointment{
		PropertyID:      st.PropertyID,
		PropertyAddress: address,
		FormattedDate:   when.Format(appointmentTimeFormat),
		EventID:         result.EventID,
		UserName:        st.UserName,
		UserEmail:       st.UserEmail,
		UserPhone:       st.UserPhone,
		UserPets:        st.UserPets,
		CreatedAt:       n.clock()(),
	}
	if st.SelectedSlot != nil {
		slot := *st.SelectedSlot
		appt.Slot = &slot
	}

	return workflow.NewDelta().
		CalendarEventID(result.EventID).
		Appointment(appt), nil
}

// appointmentTime prefers the slot the user picked; without one the tour
// defaults to tomorrow at 11:00.
func (n *CalendarManager) appointmentTime(st workflow.State) time.Time {
	if st.SelectedSlot != nil && !st.SelectedSlot.StartTime.IsZero() {
		return st.SelectedSlot.StartTime
	}
	now := n.clock()()
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 11, 0, 0, 0, now.Location())
}

func (n *CalendarManager) clock() func() time.Time {
	if n.now != nil {
		return n.now
	}
	return time.Now
}

func propertyAddress(st workflow.State) string {
	if len(st.Properties) > 0 && st.Properties[0].Address != "" {
		return st.Properties[0].Address
	}
	return "Property Tour Location"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
