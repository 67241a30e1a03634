package workflow

import "sort"

// RouteFunc maps the current state to the next node identifier. It must be
// pure: no I/O, total over reachable states, defaulting to the terminal
// node when nothing matches.
type RouteFunc func(st State, cfg RunConfig) string

// Router is a per-node routing decision constrained to a declared edge
// set. A decision outside the edge set is corrected to the terminal node
// rather than failing the run, so a buggy route function cannot deadlock
// or panic a turn.
type Router struct {
	from   string
	decide RouteFunc
	edges  map[string]struct{}
}

// NewRouter declares the router for a node with its admissible edge set.
func NewRouter(from string, decide RouteFunc, edges ...string) *Router {
	set := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	return &Router{from: from, decide: decide, edges: set}
}

// From returns the node this router belongs to.
func (r *Router) From() string { return r.from }

// Edges lists the declared edge set, sorted.
func (r *Router) Edges() []string {
	out := make([]string, 0, len(r.edges))
	for e := range r.edges {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Admits reports whether the edge is declared.
func (r *Router) Admits(nodeID string) bool {
	_, ok := r.edges[nodeID]
	return ok
}

// Resolve computes the next node and corrects undeclared outputs. The
// corrected target is NodeGenerateResponse when declared, otherwise
// NodeEnd, so the single terminal node keeps its exclusive edge to the
// completion sentinel.
func (r *Router) Resolve(st State, cfg RunConfig) (next string, corrected bool) {
	next = r.decide(st, cfg)
	if r.Admits(next) {
		return next, false
	}
	if r.Admits(NodeGenerateResponse) {
		return NodeGenerateResponse, true
	}
	return NodeEnd, true
}
