package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/propertytek/chatflow/workflow"
)

// Tracker is a mock telemetry sink that records every event.
type Tracker struct {
	mu sync.Mutex

	RunStarts    []workflow.RunMeta
	RunCompletes []workflow.RunSummary
	NodeStarts   []string
	NodeResults  map[string]int
	NodeErrors   map[string]string
}

var _ workflow.Tracker = (*Tracker)(nil)

// NewTracker creates an empty recording tracker.
func NewTracker() *Tracker {
	return &Tracker{
		NodeResults: make(map[string]int),
		NodeErrors:  make(map[string]string),
	}
}

func (m *Tracker) RecordRunStart(ctx context.Context, meta workflow.RunMeta) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunStarts = append(m.RunStarts, meta)
}

func (m *Tracker) RecordRunComplete(ctx context.Context, summary workflow.RunSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunCompletes = append(m.RunCompletes, summary)
}

func (m *Tracker) RecordNodeStart(ctx context.Context, runID, nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NodeStarts = append(m.NodeStarts, nodeID)
}

func (m *Tracker) RecordNodeComplete(ctx context.Context, runID, nodeID string, fields []string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NodeResults[nodeID]++
}

func (m *Tracker) RecordNodeError(ctx context.Context, runID, nodeID string, errDescription string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NodeErrors[nodeID] = errDescription
}

// Steps returns the recorded node invocation order.
func (m *Tracker) Steps() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.NodeStarts))
	copy(out, m.NodeStarts)
	return out
}
