package pattern

import (
	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
)

/*
========================
Pattern AST
========================
*/

// Kind discriminates the pattern variants. The set is closed and
// rarely-changing, so evaluation is an exhaustive switch rather than
// interface dispatch.
type Kind string

const (
	KindDirect   Kind = "direct"
	KindPath     Kind = "path"
	KindState    Kind = "state"
	KindTemporal Kind = "temporal"
	KindAnd      Kind = "and"
	KindOr       Kind = "or"
)

// Pattern is a declarative relationship pattern evaluated against an
// ordered pair (A, B) at a slice index. It is a tagged union: Kind decides
// which field group is meaningful.
//
//   - direct:   EdgeTypes, Negate
//   - path:     Path, PathGenders / ThroughGender, HistoricalSpouse
//   - state:    States
//   - temporal: Temporals
//   - and/or:   Patterns
type Pattern struct {
	Kind Kind `yaml:"kind"`

	// Direct: A and B are connected by an edge whose type is in the set
	// (empty set = any edge). Negate matches when no such edge exists.
	EdgeTypes []graph.RelationshipType `yaml:"edgeTypes,omitempty"`
	Negate    bool                     `yaml:"negate,omitempty"`

	// Path: dot-separated chain of steps (parent, child, sibling, spouse)
	// walked from A; B must be reached by the exact step sequence.
	// PathGenders constrains the person REACHED at each step (nil entry =
	// any); ThroughGender is the legacy uniform filter, used only when
	// PathGenders is absent. HistoricalSpouse resolves spouse steps
	// against every spouse the person ever had, deceased and divorced
	// included.
	Path             string          `yaml:"path,omitempty"`
	PathGenders      []*graph.Gender `yaml:"pathGenders,omitempty"`
	ThroughGender    *graph.Gender   `yaml:"throughGender,omitempty"`
	HistoricalSpouse bool            `yaml:"historicalSpouse,omitempty"`

	// State: named person-state conditions; all must hold.
	States []StateCond `yaml:"states,omitempty"`

	// Temporal: event-relative conditions; all must hold.
	Temporals []TemporalCond `yaml:"temporals,omitempty"`

	// And/Or: nested sub-patterns. And requires all; Or takes the first
	// matching sub-pattern.
	Patterns []*Pattern `yaml:"patterns,omitempty"`
}

// SubjectRef names a participant relative to the queried pair.
type SubjectRef string

const (
	SubjectA        SubjectRef = "a"
	SubjectB        SubjectRef = "b"
	SubjectSpouseA  SubjectRef = "spouse-of-a"
	SubjectSpouseB  SubjectRef = "spouse-of-b"
	SubjectChildOfA SubjectRef = "child-of-a"
	SubjectChildOfB SubjectRef = "child-of-b"
)

// StateCond is one named person-state condition on A or B.
// Recognized names: alive, dead, married, unmarried, has-children,
// childless, has-brothers, male, female. An unrecognized name fails the
// pattern (no match), it does not abort evaluation.
type StateCond struct {
	Subject SubjectRef `yaml:"subject"`
	Name    string     `yaml:"name"`
	Negate  bool       `yaml:"negate,omitempty"`
}

// TemporalKind names the event-relative condition variants.
type TemporalKind string

const (
	// TemporalAliveWhen: was Subject alive at the moment Event happened.
	TemporalAliveWhen TemporalKind = "alive-when"
	// TemporalLifetimesOverlap: did Subject's and Other's lifetimes
	// overlap at all.
	TemporalLifetimesOverlap TemporalKind = "lifetimes-overlap"
	// TemporalEventPrecedes: did Event happen before After.
	TemporalEventPrecedes TemporalKind = "event-precedes"
	// TemporalChildrenWhen: did Subject have living children at the
	// moment Event happened.
	TemporalChildrenWhen TemporalKind = "children-when"
	// TemporalEdgeWhen: did an edge of one of EdgeTypes exist between
	// Subject and Other at the moment Event happened.
	TemporalEdgeWhen TemporalKind = "edge-when"
)

// EventRef identifies a lifecycle event of a referenced subject.
// Kind is restricted to introduction and death here; edge-lifecycle
// references are located through the query engine directly.
type EventRef struct {
	Kind    graph.EventRefKind `yaml:"kind"`
	Subject SubjectRef         `yaml:"subject"`
}

// TemporalCond is one event-relative condition.
type TemporalCond struct {
	Kind      TemporalKind             `yaml:"kind"`
	Subject   SubjectRef               `yaml:"subject,omitempty"`
	Other     SubjectRef               `yaml:"other,omitempty"`
	Event     *EventRef                `yaml:"event,omitempty"`
	After     *EventRef                `yaml:"after,omitempty"`
	EdgeTypes []graph.RelationshipType `yaml:"edgeTypes,omitempty"`
	Negate    bool                     `yaml:"negate,omitempty"`
}

/*
========================
Builder shorthands
========================
*/

// Direct builds a direct-edge pattern.
func Direct(types ...graph.RelationshipType) *Pattern {
	return &Pattern{Kind: KindDirect, EdgeTypes: types}
}

// NoEdge builds a negated direct-edge pattern.
func NoEdge(types ...graph.RelationshipType) *Pattern {
	return &Pattern{Kind: KindDirect, EdgeTypes: types, Negate: true}
}

// Path builds a path pattern; genders constrain the person reached at
// each step, nil meaning any.
func Path(steps string, genders ...*graph.Gender) *Pattern {
	return &Pattern{Kind: KindPath, Path: steps, PathGenders: genders}
}

// State builds a state pattern.
func State(conds ...StateCond) *Pattern {
	return &Pattern{Kind: KindState, States: conds}
}

// Temporal builds a temporal pattern.
func Temporal(conds ...TemporalCond) *Pattern {
	return &Pattern{Kind: KindTemporal, Temporals: conds}
}

// And builds a conjunction.
func And(ps ...*Pattern) *Pattern {
	return &Pattern{Kind: KindAnd, Patterns: ps}
}

// Or builds a disjunction.
func Or(ps ...*Pattern) *Pattern {
	return &Pattern{Kind: KindOr, Patterns: ps}
}

// GenderOf is a convenience for building PathGenders literals.
func GenderOf(g graph.Gender) *graph.Gender { return &g }
