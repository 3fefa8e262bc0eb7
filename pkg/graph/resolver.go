package graph

// Snapshot is the flat graph state after replaying every event up to and
// including a slice index.
type Snapshot struct {
	People map[PersonID]Person
	Edges  map[EdgeID]Relationship
}

func emptySnapshot() Snapshot {
	return Snapshot{
		People: map[PersonID]Person{},
		Edges:  map[EdgeID]Relationship{},
	}
}

// NewSnapshot returns an empty snapshot, for callers that fold events
// forward themselves.
func NewSnapshot() Snapshot { return emptySnapshot() }

// Apply folds one event (occurring at the given slice) into the snapshot.
func (s *Snapshot) Apply(slice int, ev Event) { applyEvent(s, slice, ev) }

// StateResolver produces the resolved graph state at a slice index. The
// engine only depends on this interface; hosts that already maintain
// resolved state (e.g. an editor with its own delta replay) can plug their
// own implementation in.
type StateResolver interface {
	StateAt(index int) Snapshot
}

// Resolver is the reference StateResolver: a forward event replay over the
// timeline with per-index memoization. Snapshots are built once per index
// and shared, so callers must treat them as read-only.
type Resolver struct {
	timeline *Timeline
	memo     map[int]Snapshot
}

func NewResolver(t *Timeline) *Resolver {
	return &Resolver{
		timeline: t,
		memo:     map[int]Snapshot{},
	}
}

// StateAt replays all events through slice `index`. A negative index
// yields an empty snapshot; an index past the end yields the final state.
func (r *Resolver) StateAt(index int) Snapshot {
	if index < 0 {
		return emptySnapshot()
	}
	if index >= r.timeline.Len() {
		index = r.timeline.Len() - 1
		if index < 0 {
			return emptySnapshot()
		}
	}
	if snap, ok := r.memo[index]; ok {
		return snap
	}

	snap := emptySnapshot()
	for si := 0; si <= index; si++ {
		for _, ev := range r.timeline.Slices[si].Events {
			applyEvent(&snap, si, ev)
		}
	}
	r.memo[index] = snap
	return snap
}

// Reset drops memoized snapshots; call after the timeline was mutated.
func (r *Resolver) Reset() {
	r.memo = map[int]Snapshot{}
}

func applyEvent(snap *Snapshot, slice int, ev Event) {
	switch ev.Kind {

	case EventPersonAdded:
		if ev.Person == nil {
			return
		}
		p := *ev.Person
		p.IntroducedAt = slice
		p.DiedAt = nil
		snap.People[p.ID] = p

	case EventPersonDied:
		p, ok := snap.People[ev.PersonID]
		if !ok {
			return
		}
		died := slice
		p.DiedAt = &died
		snap.People[p.ID] = p

	case EventEdgeAdded:
		if ev.Edge == nil {
			return
		}
		e := *ev.Edge
		e.IntroducedAt = slice
		snap.Edges[e.ID] = e

	case EventEdgeUpdated:
		e, ok := snap.Edges[ev.EdgeID]
		if !ok || ev.Patch == nil {
			return
		}
		if ev.Patch.Type != nil {
			e.Type = *ev.Patch.Type
		}
		if ev.Patch.Children != nil {
			e.Children = append([]PersonID(nil), (*ev.Patch.Children)...)
		}
		if ev.Patch.Hidden != nil {
			e.Hidden = *ev.Patch.Hidden
		}
		snap.Edges[e.ID] = e

	case EventEdgeRemoved:
		delete(snap.Edges, ev.EdgeID)
	}
}
