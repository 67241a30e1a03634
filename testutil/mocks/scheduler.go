package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/propertytek/chatflow/scheduler"
	"github.com/propertytek/chatflow/types"
)

// Scheduler is a mock calendar provider.
type Scheduler struct {
	mu sync.Mutex

	slots    []types.Slot
	slotsErr error

	eventResult types.EventResult
	eventErr    error

	SlotCalls  int
	EventCalls []scheduler.EventSpec
}

var _ scheduler.Provider = (*Scheduler)(nil)

// NewScheduler creates a mock that succeeds with a generated slot grid.
func NewScheduler() *Scheduler {
	return &Scheduler{
		eventResult: types.EventResult{Success: true, EventID: "mock-event-1"},
	}
}

// WithSlots fixes the availability response.
func (m *Scheduler) WithSlots(slots []types.Slot) *Scheduler {
	m.slots = slots
	return m
}

// WithSlotsError makes AvailableSlots fail.
func (m *Scheduler) WithSlotsError(err error) *Scheduler {
	m.slotsErr = err
	return m
}

// WithEventResult fixes the event creation outcome.
func (m *Scheduler) WithEventResult(res types.EventResult) *Scheduler {
	m.eventResult = res
	return m
}

// WithEventError makes CreateEvent fail.
func (m *Scheduler) WithEventError(err error) *Scheduler {
	m.eventErr = err
	return m
}

func (m *Scheduler) AvailableSlots(ctx context.Context, durationMinutes int) ([]types.Slot, error) {
	m.mu.Lock()
	m.SlotCalls++
	m.mu.Unlock()

	if m.slotsErr != nil {
		return nil, m.slotsErr
	}
	if m.slots != nil {
		return m.slots, nil
	}
	return scheduler.GenerateSlots(time.Now(), durationMinutes), nil
}

func (m *Scheduler) CreateEvent(ctx context.Context, spec scheduler.EventSpec) (types.EventResult, error) {
	m.mu.Lock()
	m.EventCalls = append(m.EventCalls, spec)
	m.mu.Unlock()

	if m.eventErr != nil {
		return types.EventResult{}, m.eventErr
	}
	return m.eventResult, nil
}
