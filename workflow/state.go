package workflow

import (
	"fmt"
	"sort"

	"github.com/propertytek/chatflow/types"
)

// FallbackKind tags why a node could not produce its primary artifact.
// The terminal node is the single consumer; it selects a response-shaping
// strategy by kind and passes Details through as template data.
type FallbackKind string

const (
	// FallbackNeedCriteria signals the user must supply more search input.
	FallbackNeedCriteria FallbackKind = "need_criteria"
	// FallbackNoProperties signals the search produced zero candidates.
	FallbackNoProperties FallbackKind = "no_properties"
	// FallbackNoAppointments signals no tour slots are available.
	FallbackNoAppointments FallbackKind = "no_appointments"
	// FallbackGeneralFailure covers unclassifiable or broken requests.
	FallbackGeneralFailure FallbackKind = "general_failure"
)

// Fallback carries the reason a node bailed out, to the terminal node.
type Fallback struct {
	Kind    FallbackKind   `json:"kind"`
	Details map[string]any `json:"details,omitempty"`
}

// State is the canonical record accumulated across one run. It is created
// at turn start, mutated only by the driver applying node deltas, and
// discarded after the terminal output is extracted.
type State struct {
	// Input fields, immutable once set.
	UserQuery           string
	UserID              string
	ConversationHistory string
	Messages            []types.Message
	ActionType          string
	PropertyID          string
	SelectedSlot        *types.Slot
	UserInfo            map[string]string

	// Derived fields, each written by exactly one node category.
	Intent            string
	Entities          map[string]string
	Confidence        string
	Properties        []types.Property
	SearchFilters     types.Criteria
	ReflectionNotes   string
	NeedsMoreResearch bool
	Fallback          *Fallback
	AvailableSlots    []types.Slot
	Appointment       *types.Appointment
	UserName          string
	UserEmail         string
	UserPhone         string
	UserPets          string
	CalendarEventID   string
	SMSSent           bool
	SMSResult         *types.SendResult
	ResponseMessage   string
	SuggestedActions  []string
	Error             string

	// Control fields.
	NextStep         string
	CurrentStep      string
	RequiresUserInfo bool
	MissingFields    []string
	Complete         bool
	ReflectionLoops  int
	SearchIterations int
}

// field enumerates the delta-writable State fields. Deltas are built
// through typed setters only, so an unknown key cannot exist.
type field uint8

const (
	fieldIntent field = iota + 1
	fieldEntities
	fieldConfidence
	fieldProperties
	fieldSearchFilters
	fieldReflectionNotes
	fieldNeedsMoreResearch
	fieldFallback
	fieldAvailableSlots
	fieldAppointment
	fieldUserInfo
	fieldUserName
	fieldUserEmail
	fieldUserPhone
	fieldUserPets
	fieldCalendarEventID
	fieldSMSSent
	fieldSMSResult
	fieldResponseMessage
	fieldSuggestedActions
	fieldError
	fieldNextStep
	fieldCurrentStep
	fieldRequiresUserInfo
	fieldMissingFields
	fieldComplete
	fieldReflectionLoops
	fieldSearchIterations
)

var fieldNames = map[field]string{
	fieldIntent:            "intent",
	fieldEntities:          "entities",
	fieldConfidence:        "confidence",
	fieldProperties:        "properties",
	fieldSearchFilters:     "search_filters",
	fieldReflectionNotes:   "reflection_notes",
	fieldNeedsMoreResearch: "needs_more_research",
	fieldFallback:          "fallback",
	fieldAvailableSlots:    "available_slots",
	fieldAppointment:       "appointment",
	fieldUserInfo:          "user_info",
	fieldUserName:          "user_name",
	fieldUserEmail:         "user_email",
	fieldUserPhone:         "user_phone",
	fieldUserPets:          "user_pets",
	fieldCalendarEventID:   "calendar_event_id",
	fieldSMSSent:           "sms_sent",
	fieldSMSResult:         "sms_result",
	fieldResponseMessage:   "response_message",
	fieldSuggestedActions:  "suggested_actions",
	fieldError:             "error",
	fieldNextStep:          "next_step",
	fieldCurrentStep:       "current_step",
	fieldRequiresUserInfo:  "requires_user_info",
	fieldMissingFields:     "missing_fields",
	fieldComplete:          "complete",
	fieldReflectionLoops:   "reflection_loops",
	fieldSearchIterations:  "search_iterations",
}

// Delta is the partial update a node returns. Every field it names is
// overwritten wholesale on merge, including explicit zero values; fields it
// does not name are untouched.
type Delta struct {
	m map[field]any
}

// NewDelta creates an empty delta.
func NewDelta() Delta {
	return Delta{m: make(map[field]any)}
}

// ErrorDelta is the standardized failure shape a node (or the driver's
// safety net) returns so the run can still reach the terminal node.
func ErrorDelta(description string) Delta {
	return NewDelta().Error(description)
}

// Len returns the number of fields the delta sets.
func (d Delta) Len() int { return len(d.m) }

// Fields lists the names of the fields the delta sets, sorted.
func (d Delta) Fields() []string {
	out := make([]string, 0, len(d.m))
	for f := range d.m {
		out = append(out, fieldNames[f])
	}
	sort.Strings(out)
	return out
}

func (d Delta) set(f field, v any) Delta {
	if d.m == nil {
		d.m = make(map[field]any)
	}
	d.m[f] = v
	return d
}

func (d Delta) Intent(v string) Delta                     { return d.set(fieldIntent, v) }
func (d Delta) Entities(v map[string]string) Delta        { return d.set(fieldEntities, v) }
func (d Delta) Confidence(v string) Delta                 { return d.set(fieldConfidence, v) }
func (d Delta) Properties(v []types.Property) Delta       { return d.set(fieldProperties, v) }
func (d Delta) SearchFilters(v types.Criteria) Delta      { return d.set(fieldSearchFilters, v) }
func (d Delta) ReflectionNotes(v string) Delta            { return d.set(fieldReflectionNotes, v) }
func (d Delta) NeedsMoreResearch(v bool) Delta            { return d.set(fieldNeedsMoreResearch, v) }
func (d Delta) Fallback(v *Fallback) Delta                { return d.set(fieldFallback, v) }
func (d Delta) AvailableSlots(v []types.Slot) Delta       { return d.set(fieldAvailableSlots, v) }
func (d Delta) Appointment(v *types.Appointment) Delta    { return d.set(fieldAppointment, v) }
func (d Delta) UserInfo(v map[string]string) Delta        { return d.set(fieldUserInfo, v) }
func (d Delta) UserName(v string) Delta                   { return d.set(fieldUserName, v) }
func (d Delta) UserEmail(v string) Delta                  { return d.set(fieldUserEmail, v) }
func (d Delta) UserPhone(v string) Delta                  { return d.set(fieldUserPhone, v) }
func (d Delta) UserPets(v string) Delta                   { return d.set(fieldUserPets, v) }
func (d Delta) CalendarEventID(v string) Delta            { return d.set(fieldCalendarEventID, v) }
func (d Delta) SMSSent(v bool) Delta                      { return d.set(fieldSMSSent, v) }
func (d Delta) SMSResult(v *types.SendResult) Delta       { return d.set(fieldSMSResult, v) }
func (d Delta) ResponseMessage(v string) Delta            { return d.set(fieldResponseMessage, v) }
func (d Delta) SuggestedActions(v []string) Delta         { return d.set(fieldSuggestedActions, v) }
func (d Delta) Error(v string) Delta                      { return d.set(fieldError, v) }
func (d Delta) NextStep(v string) Delta                   { return d.set(fieldNextStep, v) }
func (d Delta) CurrentStep(v string) Delta                { return d.set(fieldCurrentStep, v) }
func (d Delta) RequiresUserInfo(v bool) Delta             { return d.set(fieldRequiresUserInfo, v) }
func (d Delta) MissingFields(v []string) Delta            { return d.set(fieldMissingFields, v) }
func (d Delta) Complete(v bool) Delta                     { return d.set(fieldComplete, v) }
func (d Delta) ReflectionLoops(v int) Delta               { return d.set(fieldReflectionLoops, v) }
func (d Delta) SearchIterations(v int) Delta              { return d.set(fieldSearchIterations, v) }

// Apply merges a delta into the state and returns the result. The merge is
// right-biased per field, not deep: each named field is replaced wholesale.
// Two invariants are enforced here rather than trusted to nodes: the
// terminal flag is never cleared once set, and the loop counters never move
// backwards within a run.
func (s State) Apply(d Delta) State {
	for f, v := range d.m {
		switch f {
		case fieldIntent:
			s.Intent = v.(string)
		case fieldEntities:
			s.Entities = v.(map[string]string)
		case fieldConfidence:
			s.Confidence = v.(string)
		case fieldProperties:
			s.Properties = v.([]types.Property)
		case fieldSearchFilters:
			s.SearchFilters = v.(types.Criteria)
		case fieldReflectionNotes:
			s.ReflectionNotes = v.(string)
		case fieldNeedsMoreResearch:
			s.NeedsMoreResearch = v.(bool)
		case fieldFallback:
			s.Fallback = v.(*Fallback)
		case fieldAvailableSlots:
			s.AvailableSlots = v.([]types.Slot)
		case fieldAppointment:
			s.Appointment = v.(*types.Appointment)
		case fieldUserInfo:
			s.UserInfo = v.(map[string]string)
		case fieldUserName:
			s.UserName = v.(string)
		case fieldUserEmail:
			s.UserEmail = v.(string)
		case fieldUserPhone:
			s.UserPhone = v.(string)
		case fieldUserPets:
			s.UserPets = v.(string)
		case fieldCalendarEventID:
			s.CalendarEventID = v.(string)
		case fieldSMSSent:
			s.SMSSent = v.(bool)
		case fieldSMSResult:
			s.SMSResult = v.(*types.SendResult)
		case fieldResponseMessage:
			s.ResponseMessage = v.(string)
		case fieldSuggestedActions:
			s.SuggestedActions = v.([]string)
		case fieldError:
			s.Error = v.(string)
		case fieldNextStep:
			s.NextStep = v.(string)
		case fieldCurrentStep:
			s.CurrentStep = v.(string)
		case fieldRequiresUserInfo:
			s.RequiresUserInfo = v.(bool)
		case fieldMissingFields:
			s.MissingFields = v.([]string)
		case fieldComplete:
			if !s.Complete {
				s.Complete = v.(bool)
			}
		case fieldReflectionLoops:
			if n := v.(int); n > s.ReflectionLoops {
				s.ReflectionLoops = n
			}
		case fieldSearchIterations:
			if n := v.(int); n > s.SearchIterations {
				s.SearchIterations = n
			}
		default:
			// Unreachable: deltas are built through typed setters only.
			panic(fmt.Sprintf("workflow: delta names undeclared field %d", f))
		}
	}
	return s
}
