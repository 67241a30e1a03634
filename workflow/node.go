package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Stable node identifiers. The driver resolves handlers by identifier only.
const (
	NodeAnalyzeIntent       = "analyze_intent"
	NodeSearchProperties    = "search_properties"
	NodeReflect             = "reflect"
	NodeGetAvailableSlots   = "get_available_slots"
	NodeCollectUserInfo     = "collect_user_info"
	NodeCreateCalendarEvent = "create_calendar_event"
	NodeSendSMSConfirmation = "send_sms_confirmation"
	NodeGenerateResponse    = "generate_response"

	// NodeEnd is the completion sentinel; it is not a handler.
	NodeEnd = "__end__"
)

// Handler is a single unit of work in the graph. It reads the accumulated
// state and returns a partial update. External I/O is expected; automatic
// retry is not — a failed handler yields an error delta and the graph
// proceeds. Handlers should catch their own failures and return
// ErrorDelta; a returned error (or panic) is converted to the same shape
// by the driver's interceptor as defense in depth.
type Handler interface {
	Execute(ctx context.Context, st State, cfg RunConfig) (Delta, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, st State, cfg RunConfig) (Delta, error)

func (f HandlerFunc) Execute(ctx context.Context, st State, cfg RunConfig) (Delta, error) {
	return f(ctx, st, cfg)
}

// Registry maps stable node identifiers to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a node identifier. Registering the same
// identifier twice is a wiring bug and returns an error.
func (r *Registry) Register(nodeID string, h Handler) error {
	if nodeID == "" || nodeID == NodeEnd {
		return fmt.Errorf("workflow: invalid node id %q", nodeID)
	}
	if h == nil {
		return fmt.Errorf("workflow: nil handler for node %q", nodeID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[nodeID]; exists {
		return fmt.Errorf("workflow: node %q already registered", nodeID)
	}
	r.handlers[nodeID] = h
	return nil
}

// Get resolves a handler by identifier.
func (r *Registry) Get(nodeID string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[nodeID]
	return h, ok
}

// NodeIDs lists the registered identifiers, sorted.
func (r *Registry) NodeIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
