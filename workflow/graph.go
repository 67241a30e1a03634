package workflow

import "fmt"

// Graph binds a node registry to the routers declared for each node. The
// driver walks it from the entry node until the completion sentinel.
type Graph struct {
	registry *Registry
	routers  map[string]*Router
	entry    string
}

// NewGraph creates a graph over a registry with the given entry node.
func NewGraph(registry *Registry, entry string) (*Graph, error) {
	if registry == nil {
		return nil, fmt.Errorf("workflow: nil registry")
	}
	if _, ok := registry.Get(entry); !ok {
		return nil, fmt.Errorf("workflow: entry node %q not registered", entry)
	}
	return &Graph{
		registry: registry,
		routers:  make(map[string]*Router),
		entry:    entry,
	}, nil
}

// Entry returns the entry node identifier.
func (g *Graph) Entry() string { return g.entry }

// Registry returns the underlying node registry.
func (g *Graph) Registry() *Registry { return g.registry }

// SetRouter declares the router for a node. Every declared edge must be a
// registered node or the completion sentinel.
func (g *Graph) SetRouter(r *Router) error {
	if _, ok := g.registry.Get(r.From()); !ok {
		return fmt.Errorf("workflow: router source %q not registered", r.From())
	}
	for _, edge := range r.Edges() {
		if edge == NodeEnd {
			continue
		}
		if _, ok := g.registry.Get(edge); !ok {
			return fmt.Errorf("workflow: router %q declares unknown edge %q", r.From(), edge)
		}
	}
	g.routers[r.From()] = r
	return nil
}

// Route resolves the next node after nodeID. A node without a router, like
// a router output outside the declared edge set, is corrected toward the
// terminal node so the run always converges.
func (g *Graph) Route(nodeID string, st State, cfg RunConfig) (next string, corrected bool) {
	r, ok := g.routers[nodeID]
	if !ok {
		if nodeID == NodeGenerateResponse {
			return NodeEnd, false
		}
		return NodeGenerateResponse, true
	}
	return r.Resolve(st, cfg)
}

// NewLeasingGraph wires the leasing conversation graph over a registry
// that already holds the eight node handlers. The shape: intent analysis
// is the entry and routes by intent; the search branch may cycle through
// reflect under the loop guards; the scheduling branch is linear with two
// short-circuits; every branch converges on the terminal response node,
// the only node with an edge to the completion sentinel.
func NewLeasingGraph(registry *Registry) (*Graph, error) {
	required := []string{
		NodeAnalyzeIntent,
		NodeSearchProperties,
		NodeReflect,
		NodeGetAvailableSlots,
		NodeCollectUserInfo,
		NodeCreateCalendarEvent,
		NodeSendSMSConfirmation,
		NodeGenerateResponse,
	}
	for _, id := range required {
		if _, ok := registry.Get(id); !ok {
			return nil, fmt.Errorf("workflow: leasing graph requires node %q", id)
		}
	}

	g, err := NewGraph(registry, NodeAnalyzeIntent)
	if err != nil {
		return nil, err
	}

	routers := []*Router{
		NewRouter(NodeAnalyzeIntent, routeFromIntent,
			NodeSearchProperties, NodeGetAvailableSlots, NodeCreateCalendarEvent, NodeGenerateResponse),
		NewRouter(NodeSearchProperties, routeAfterSearch,
			NodeReflect, NodeGenerateResponse),
		NewRouter(NodeReflect, routeAfterReflect,
			NodeSearchProperties, NodeGenerateResponse),
		NewRouter(NodeGetAvailableSlots, routeAfterSlots,
			NodeCollectUserInfo, NodeGenerateResponse),
		NewRouter(NodeCollectUserInfo, routeAfterUserInfo,
			NodeCreateCalendarEvent, NodeGenerateResponse),
		NewRouter(NodeCreateCalendarEvent, routeAfterCalendar,
			NodeSendSMSConfirmation, NodeGenerateResponse),
		NewRouter(NodeSendSMSConfirmation, routeToResponse,
			NodeGenerateResponse),
		NewRouter(NodeGenerateResponse, routeToEnd,
			NodeEnd),
	}
	for _, r := range routers {
		if err := g.SetRouter(r); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Intent labels produced by the intent analysis node.
const (
	IntentPropertySearch = "property_search"
	IntentScheduleTour   = "schedule_tour"
	IntentConfirmBooking = "confirm_booking"
	IntentNonProperty    = "non_property"
	IntentGreeting       = "greeting"
	IntentSelfIntro      = "self_introduction"
	IntentGeneralInfo    = "general_info"
)

func routeFromIntent(st State, _ RunConfig) string {
	switch st.Intent {
	case IntentPropertySearch:
		return NodeSearchProperties
	case IntentScheduleTour:
		return NodeGetAvailableSlots
	case IntentConfirmBooking:
		return NodeCreateCalendarEvent
	default:
		// Greetings, self-introductions, non-property and anything
		// unclassified go straight to the response node.
		return NodeGenerateResponse
	}
}

func routeAfterSearch(st State, cfg RunConfig) string {
	if st.Fallback != nil && st.Fallback.Kind == FallbackNeedCriteria {
		return NodeGenerateResponse
	}
	// Secondary ceiling, independent of the reflect cycle.
	if st.SearchIterations >= cfg.MaxSearchIterations {
		return NodeGenerateResponse
	}
	if len(st.Properties) > 0 {
		return NodeGenerateResponse
	}
	return NodeReflect
}

func routeAfterReflect(st State, cfg RunConfig) string {
	if st.ReflectionLoops > cfg.MaxResearchLoops {
		return NodeGenerateResponse
	}
	if st.NextStep == NodeSearchProperties {
		return NodeSearchProperties
	}
	return NodeGenerateResponse
}

func routeAfterSlots(st State, _ RunConfig) string {
	if st.Fallback != nil && st.Fallback.Kind == FallbackNoAppointments {
		return NodeGenerateResponse
	}
	return NodeCollectUserInfo
}

func routeAfterUserInfo(st State, _ RunConfig) string {
	if st.UserName != "" && st.UserEmail != "" && st.UserPhone != "" && st.UserPets != "" {
		return NodeCreateCalendarEvent
	}
	return NodeGenerateResponse
}

func routeAfterCalendar(st State, _ RunConfig) string {
	if st.CalendarEventID != "" {
		return NodeSendSMSConfirmation
	}
	return NodeGenerateResponse
}

func routeToResponse(State, RunConfig) string { return NodeGenerateResponse }

func routeToEnd(State, RunConfig) string { return NodeEnd }
