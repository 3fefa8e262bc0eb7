package graph

type EventKind string

const (
	EventPersonAdded EventKind = "person_added"
	EventPersonDied  EventKind = "person_died"
	EventEdgeAdded   EventKind = "edge_added"
	EventEdgeUpdated EventKind = "edge_updated"
	EventEdgeRemoved EventKind = "edge_removed"
)

// EdgePatch is a partial update applied to an existing edge, typically a
// type change such as marriage -> divorce. Nil fields are left untouched.
type EdgePatch struct {
	Type     *RelationshipType `yaml:"type,omitempty"`
	Children *[]PersonID       `yaml:"children,omitempty"`
	Hidden   *bool             `yaml:"hidden,omitempty"`
}

// Event is one structural change on the timeline. Which payload fields are
// set depends on Kind:
//
//   - person_added: Person
//   - person_died:  PersonID
//   - edge_added:   Edge
//   - edge_updated: EdgeID + Patch
//   - edge_removed: EdgeID
type Event struct {
	Kind     EventKind     `yaml:"kind"`
	Person   *Person       `yaml:"person,omitempty"`
	PersonID PersonID      `yaml:"personId,omitempty"`
	Edge     *Relationship `yaml:"edge,omitempty"`
	EdgeID   EdgeID        `yaml:"edgeId,omitempty"`
	Patch    *EdgePatch    `yaml:"patch,omitempty"`
}

// Slice is one coarse step of the time axis: an ordered sequence of events
// plus a display label.
type Slice struct {
	Label  string  `yaml:"label,omitempty"`
	Events []Event `yaml:"events"`
}

// Timeline is the full event history of a graph, 0-indexed by slice.
type Timeline struct {
	Slices []Slice `yaml:"slices"`
}

// Len returns the number of slices.
func (t *Timeline) Len() int { return len(t.Slices) }

// EventAt returns the event at the given instant, if it exists.
func (t *Timeline) EventAt(at Instant) (Event, bool) {
	if at.Slice < 0 || at.Slice >= len(t.Slices) {
		return Event{}, false
	}
	s := t.Slices[at.Slice]
	if at.Event < 0 || at.Event >= len(s.Events) {
		return Event{}, false
	}
	return s.Events[at.Event], true
}

// Walk calls fn for every event in timeline order. fn returning false
// stops the walk.
func (t *Timeline) Walk(fn func(at Instant, ev Event) bool) {
	for si, s := range t.Slices {
		for ei, ev := range s.Events {
			if !fn(Instant{Slice: si, Event: ei}, ev) {
				return
			}
		}
	}
}
