package graph

/*
========================
Graph query engine
========================
*/

// QueryEngine answers structural and temporal-state questions against a
// timeline, either at slice precision (an index) or at event precision
// (an Instant).
//
// All queries are pure reads. Absence of data -- an unknown person, a
// dangling edge endpoint, no matching event -- is a normal outcome and
// yields an empty result, never an error: graphs are user-authored and
// frequently incomplete mid-edit.
type QueryEngine struct {
	timeline *Timeline
	resolver StateResolver
}

func NewQueryEngine(t *Timeline) *QueryEngine {
	return &QueryEngine{
		timeline: t,
		resolver: NewResolver(t),
	}
}

// NewQueryEngineWith binds the engine to a caller-supplied resolver.
func NewQueryEngineWith(t *Timeline, r StateResolver) *QueryEngine {
	return &QueryEngine{timeline: t, resolver: r}
}

// Timeline returns the engine's underlying timeline.
func (q *QueryEngine) Timeline() *Timeline { return q.timeline }

// StateAt returns the resolved snapshot at a slice index.
func (q *QueryEngine) StateAt(index int) Snapshot {
	return q.resolver.StateAt(index)
}

// PersonAt returns the resolved person record at an index.
func (q *QueryEngine) PersonAt(p PersonID, index int) (Person, bool) {
	person, ok := q.StateAt(index).People[p]
	return person, ok
}

/*
========================
Relationship lookups
========================
*/

// RelationshipsBetween returns every edge connecting a and b (either
// direction) present at the index.
func (q *QueryEngine) RelationshipsBetween(a, b PersonID, index int) []Relationship {
	var out []Relationship
	for _, e := range q.StateAt(index).Edges {
		if e.Between(a, b) {
			out = append(out, e)
		}
	}
	return out
}

// RelationshipsOf returns every edge touching p present at the index.
func (q *QueryEngine) RelationshipsOf(p PersonID, index int) []Relationship {
	var out []Relationship
	for _, e := range q.StateAt(index).Edges {
		if e.Touches(p) {
			out = append(out, e)
		}
	}
	return out
}

/*
========================
Derived relations
========================
*/

// ParentsOf returns p's parents at the index: sources of parent edges into
// p, plus both endpoints of any union-type edge listing p as a child.
func (q *QueryEngine) ParentsOf(p PersonID, index int) []PersonID {
	snap := q.StateAt(index)
	seen := map[PersonID]bool{}
	var out []PersonID

	add := func(id PersonID) {
		if id == "" || id == p || seen[id] {
			return
		}
		if _, ok := snap.People[id]; !ok {
			return // dangling endpoint, skip
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, e := range snap.Edges {
		if e.Type == RelParent && e.To == p {
			add(e.From)
			continue
		}
		for _, child := range e.Children {
			if child == p {
				add(e.From)
				add(e.To)
			}
		}
	}
	return out
}

// ChildrenOf returns p's children at the index: targets of parent edges
// from p, plus children listed on union-type edges p is party to.
func (q *QueryEngine) ChildrenOf(p PersonID, index int) []PersonID {
	snap := q.StateAt(index)
	seen := map[PersonID]bool{}
	var out []PersonID

	add := func(id PersonID) {
		if id == "" || id == p || seen[id] {
			return
		}
		if _, ok := snap.People[id]; !ok {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, e := range snap.Edges {
		if e.Type == RelParent && e.From == p {
			add(e.To)
			continue
		}
		if e.Touches(p) {
			for _, child := range e.Children {
				add(child)
			}
		}
	}
	return out
}

// SiblingsOf returns p's siblings at the index: explicit sibling edges
// plus anyone sharing at least one parent with p.
func (q *QueryEngine) SiblingsOf(p PersonID, index int) []PersonID {
	snap := q.StateAt(index)
	seen := map[PersonID]bool{}
	var out []PersonID

	add := func(id PersonID) {
		if id == "" || id == p || seen[id] {
			return
		}
		if _, ok := snap.People[id]; !ok {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, e := range snap.Edges {
		if e.Type == RelSibling && e.Touches(p) {
			add(e.Other(p))
		}
	}
	for _, parent := range q.ParentsOf(p, index) {
		for _, child := range q.ChildrenOf(parent, index) {
			add(child)
		}
	}
	return out
}

// SpousesOf returns p's current spouses at the index: parties to an active
// betrothal, full marriage, or levirate marriage. Divorce and chalitza
// edges do not count, and neither does a spouse who is no longer alive.
func (q *QueryEngine) SpousesOf(p PersonID, index int) []PersonID {
	snap := q.StateAt(index)
	if self, ok := snap.People[p]; !ok || !self.Alive(index) {
		return nil
	}
	seen := map[PersonID]bool{}
	var out []PersonID
	for _, e := range snap.Edges {
		if !e.Type.IsSpousal() || !e.Touches(p) {
			continue
		}
		other := e.Other(p)
		partner, ok := snap.People[other]
		if !ok || !partner.Alive(index) || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// EverSpousesOf returns everyone p was EVER married to by the index --
// including spouses since deceased and marriages since turned to divorce
// or chalitza. Edges removed from the timeline (editor corrections) are
// treated as never having existed. This is the resolution base for
// historical-spouse path steps: permanent prohibitions such as a
// brother's former wife survive both death and divorce.
func (q *QueryEngine) EverSpousesOf(p PersonID, index int) []PersonID {
	if index >= q.timeline.Len() {
		index = q.timeline.Len() - 1
	}

	type mark struct {
		rel  Relationship
		ever bool
	}
	edges := map[EdgeID]*mark{}

	for si := 0; si <= index && si >= 0; si++ {
		for _, ev := range q.timeline.Slices[si].Events {
			switch ev.Kind {
			case EventEdgeAdded:
				if ev.Edge == nil {
					continue
				}
				edges[ev.Edge.ID] = &mark{rel: *ev.Edge, ever: ev.Edge.Type.IsSpousal()}
			case EventEdgeUpdated:
				m, ok := edges[ev.EdgeID]
				if !ok || ev.Patch == nil {
					continue
				}
				if ev.Patch.Type != nil {
					m.rel.Type = *ev.Patch.Type
					m.ever = m.ever || m.rel.Type.IsSpousal()
				}
			case EventEdgeRemoved:
				delete(edges, ev.EdgeID)
			}
		}
	}

	seen := map[PersonID]bool{}
	var out []PersonID
	for _, m := range edges {
		if !m.ever || !m.rel.Touches(p) {
			continue
		}
		other := m.rel.Other(p)
		if other == "" || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

/*
========================
Liveness
========================
*/

// IsAlive reports slice-level liveness: false if p is not yet introduced
// by the index, or if p's death index is at or before it.
func (q *QueryEngine) IsAlive(p PersonID, index int) bool {
	person, ok := q.PersonAt(p, index)
	return ok && person.Alive(index)
}

// WasAliveAt is the event-precision liveness check: p was introduced at or
// before the instant's slice, and either never dies, dies in a later
// slice, or dies within the same slice by an event strictly after the
// instant.
func (q *QueryEngine) WasAliveAt(p PersonID, at Instant) bool {
	person, ok := q.PersonAt(p, at.Slice)
	if !ok || person.IntroducedAt > at.Slice {
		return false
	}
	if person.DiedAt == nil {
		return true
	}
	if *person.DiedAt > at.Slice {
		return true
	}
	if *person.DiedAt < at.Slice {
		return false
	}
	death, ok := q.FindEvent(EventQuery{Kind: RefDeath, Person: p})
	if !ok {
		return true
	}
	return death.After(at)
}

// HadLivingChildrenAt reports whether any of p's children (as known at the
// instant's slice) was alive, by the event-precision rule, at the instant.
func (q *QueryEngine) HadLivingChildrenAt(p PersonID, at Instant) bool {
	for _, child := range q.ChildrenOf(p, at.Slice) {
		if q.WasAliveAt(child, at) {
			return true
		}
	}
	return false
}

// LifetimesOverlap reports whether the half-open lifetime intervals
// [introduction, death-or-infinity) of a and b intersect at all.
func (q *QueryEngine) LifetimesOverlap(a, b PersonID) bool {
	final := q.StateAt(q.timeline.Len() - 1)
	pa, okA := final.People[a]
	pb, okB := final.People[b]
	if !okA || !okB {
		return false
	}
	if pa.DiedAt != nil && *pa.DiedAt <= pb.IntroducedAt {
		return false
	}
	if pb.DiedAt != nil && *pb.DiedAt <= pa.IntroducedAt {
		return false
	}
	return true
}

/*
========================
Event location
========================
*/

type EventRefKind string

const (
	RefIntroduction EventRefKind = "introduction"
	RefDeath        EventRefKind = "death"
	RefEdgeAdded    EventRefKind = "edge_added"
	RefEdgeUpdated  EventRefKind = "edge_updated"
	RefEdgeRemoved  EventRefKind = "edge_removed"
)

// EventQuery identifies a lifecycle event by kind and subject: Person for
// introduction/death queries, Edge for edge-lifecycle queries.
type EventQuery struct {
	Kind   EventRefKind
	Person PersonID
	Edge   EdgeID
}

// FindEvent locates the first event matching the query, if any.
func (q *QueryEngine) FindEvent(query EventQuery) (Instant, bool) {
	var found Instant
	ok := false
	q.timeline.Walk(func(at Instant, ev Event) bool {
		if matchesQuery(query, ev) {
			found, ok = at, true
			return false
		}
		return true
	})
	return found, ok
}

// EventOrder compares two instants: negative when a precedes b, zero when
// identical, positive when a follows b.
func (q *QueryEngine) EventOrder(a, b Instant) int { return a.Compare(b) }

func matchesQuery(query EventQuery, ev Event) bool {
	switch query.Kind {
	case RefIntroduction:
		return ev.Kind == EventPersonAdded && ev.Person != nil && ev.Person.ID == query.Person
	case RefDeath:
		return ev.Kind == EventPersonDied && ev.PersonID == query.Person
	case RefEdgeAdded:
		return ev.Kind == EventEdgeAdded && ev.Edge != nil && ev.Edge.ID == query.Edge
	case RefEdgeUpdated:
		return ev.Kind == EventEdgeUpdated && ev.EdgeID == query.Edge
	case RefEdgeRemoved:
		return ev.Kind == EventEdgeRemoved && ev.EdgeID == query.Edge
	}
	return false
}

/*
========================
Event-precision state
========================
*/

// StateAtInstant replays every event strictly before the instant: the
// graph state "at the moment" the instant's event happened.
func (q *QueryEngine) StateAtInstant(at Instant) Snapshot {
	snap := emptySnapshot()
	q.timeline.Walk(func(pos Instant, ev Event) bool {
		if !pos.Before(at) {
			return false
		}
		applyEvent(&snap, pos.Slice, ev)
		return true
	})
	return snap
}

// RelationshipExistedAt reports whether an edge with one of the given
// types connected a and b at the moment the instant's event happened.
func (q *QueryEngine) RelationshipExistedAt(a, b PersonID, types []RelationshipType, at Instant) bool {
	snap := q.StateAtInstant(at)
	for _, e := range snap.Edges {
		if !e.Between(a, b) {
			continue
		}
		if len(types) == 0 {
			return true
		}
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
	}
	return false
}
