package types

import "time"

// Slot is a bookable tour time.
type Slot struct {
	ID        string    `json:"id"`
	Display   string    `json:"display"`
	StartTime time.Time `json:"start_time"`
	Available bool      `json:"available"`
}

// Appointment is the finalized booking record: the selected property and
// slot plus the personal details collected during the flow.
type Appointment struct {
	PropertyID      string    `json:"property_id"`
	PropertyAddress string    `json:"property_address,omitempty"`
	Slot            *Slot     `json:"slot,omitempty"`
	FormattedDate   string    `json:"formatted_date,omitempty"`
	EventID         string    `json:"event_id,omitempty"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	UserPhone       string    `json:"user_phone"`
	UserPets        string    `json:"user_pets"`
	CreatedAt       time.Time `json:"created_at"`
}

// SendResult is the outcome of a confirmation message delivery attempt.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EventResult is the outcome of a calendar event creation attempt.
type EventResult struct {
	Success bool   `json:"success"`
	EventID string `json:"event_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
