package workflow

import "time"

// Default loop-guard and timeout ceilings.
const (
	DefaultMaxResearchLoops    = 1
	DefaultMaxSearchIterations = 3
	DefaultRecursionLimit      = 10
	DefaultNodeTimeout         = 30 * time.Second
)

// RunConfig is the run-scoped configuration handed to every node. It is
// built once per turn by the caller and never mutated during the run.
type RunConfig struct {
	// IntentModel selects the generation backend profile for intent
	// classification.
	IntentModel string `yaml:"intent_model" json:"intent_model"`

	// ResponseModel selects the generation backend profile for the
	// terminal response node.
	ResponseModel string `yaml:"response_model" json:"response_model"`

	// EnableSMS gates the SMS confirmation node; when false the node
	// returns a no-op delta.
	EnableSMS bool `yaml:"enable_sms" json:"enable_sms"`

	// SlotDurationMinutes is passed to the scheduling provider.
	SlotDurationMinutes int `yaml:"slot_duration_minutes" json:"slot_duration_minutes"`

	// MaxResearchLoops bounds the reflect→search cycle.
	MaxResearchLoops int `yaml:"max_research_loops" json:"max_research_loops"`

	// MaxSearchIterations bounds search re-entry independently of the
	// reflect cycle.
	MaxSearchIterations int `yaml:"max_search_iterations" json:"max_search_iterations"`

	// RecursionLimit bounds total node invocations per run. A structural
	// backstop against routing bugs the semantic counters miss.
	RecursionLimit int `yaml:"recursion_limit" json:"recursion_limit"`

	// ParallelFanOut is reserved for future parallel search variants and
	// is unused by the current graph shape.
	ParallelFanOut int `yaml:"parallel_fan_out" json:"parallel_fan_out"`

	// NodeTimeout bounds each node invocation. A node that exceeds it is
	// abandoned and its delta replaced with a node_timeout error delta.
	NodeTimeout time.Duration `yaml:"node_timeout" json:"node_timeout"`
}

// DefaultRunConfig returns the run configuration used when the caller does
// not override any option.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		IntentModel:         "gpt-4o-mini",
		ResponseModel:       "gpt-4o-mini",
		EnableSMS:           true,
		SlotDurationMinutes: 60,
		MaxResearchLoops:    DefaultMaxResearchLoops,
		MaxSearchIterations: DefaultMaxSearchIterations,
		RecursionLimit:      DefaultRecursionLimit,
		ParallelFanOut:      1,
		NodeTimeout:         DefaultNodeTimeout,
	}
}

// withDefaults fills unset ceilings so a zero-value config cannot disable
// the loop guards.
func (c RunConfig) withDefaults() RunConfig {
	if c.MaxResearchLoops <= 0 {
		c.MaxResearchLoops = DefaultMaxResearchLoops
	}
	if c.MaxSearchIterations <= 0 {
		c.MaxSearchIterations = DefaultMaxSearchIterations
	}
	if c.RecursionLimit <= 0 {
		c.RecursionLimit = DefaultRecursionLimit
	}
	if c.NodeTimeout <= 0 {
		c.NodeTimeout = DefaultNodeTimeout
	}
	return c
}
