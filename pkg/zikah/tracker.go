// Package zikah tracks the formation and resolution of levirate bonds: a
// man dying married and childless while brothers of his are alive binds
// his widow (the yevama) to those brothers (the yevamim) until one of
// them marries her (yibum) or releases her (chalitza).
//
// The bond is multi-person, time-spanning state that two-argument rule
// patterns cannot express, so it is derived by one forward pass over the
// event timeline and queried separately.
package zikah

import (
	"github.com/google/uuid"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
)

type Status string

const (
	// StatusPending: bond formed, awaiting resolution.
	StatusPending Status = "pending"
	// StatusMaamar: a brother performed the partial act; the bond is
	// still active.
	StatusMaamar Status = "maamar"
	// StatusYibum: resolved by levirate marriage.
	StatusYibum Status = "yibum"
	// StatusChalitza: resolved by the release rite.
	StatusChalitza Status = "chalitza"
)

// Resolved reports whether the status is terminal.
func (s Status) Resolved() bool { return s == StatusYibum || s == StatusChalitza }

// Record is one bond: created once when the husband dies, mutated in
// place as later events resolve it, never deleted.
type Record struct {
	ID           string
	Widow        graph.PersonID
	Deceased     graph.PersonID
	MarriageEdge graph.EdgeID
	// Brothers eligible at the moment of death.
	Brothers  []graph.PersonID
	CreatedAt graph.Instant
	Status    Status
	// PartialBy is the brother who performed maamar, if any.
	PartialBy  *graph.PersonID
	ResolvedAt *graph.Instant
	ResolvedBy *graph.EdgeID
}

// HasBrother reports whether p was eligible at formation.
func (r *Record) HasBrother(p graph.PersonID) bool {
	for _, b := range r.Brothers {
		if b == p {
			return true
		}
	}
	return false
}

// ForbiddenFunc reports whether a brother is independently in a forbidden
// relation with the widow at the index (e.g. she is his daughter). The
// tracker knows nothing of rule semantics; the status layer supplies this
// predicate.
type ForbiddenFunc func(brother, widow graph.PersonID, index int) bool

// Tracker derives bond records lazily from the timeline and caches them
// until Rebuild.
type Tracker struct {
	q       *graph.QueryEngine
	forbid  ForbiddenFunc
	records []*Record
	built   bool
}

func NewTracker(q *graph.QueryEngine, forbid ForbiddenFunc) *Tracker {
	return &Tracker{q: q, forbid: forbid}
}

// Rebuild drops the cached records; the next query replays the timeline.
func (t *Tracker) Rebuild() {
	t.records = nil
	t.built = false
}

// Records returns every bond record, building them on first use.
func (t *Tracker) Records() []*Record {
	t.ensure()
	return t.records
}

/*
========================
Timeline scan
========================
*/

func (t *Tracker) ensure() {
	if t.built {
		return
	}
	t.records = nil

	// forward mirror: graph state at the moment BEFORE the current event
	snap := graph.NewSnapshot()

	t.q.Timeline().Walk(func(at graph.Instant, ev graph.Event) bool {
		switch ev.Kind {
		case graph.EventPersonDied:
			t.onDeath(snap, at, ev.PersonID)
		case graph.EventEdgeAdded:
			if ev.Edge != nil {
				t.onResolutionEdge(at, ev.Edge.ID, ev.Edge.Type, ev.Edge.From, ev.Edge.To)
			}
		case graph.EventEdgeUpdated:
			if e, ok := snap.Edges[ev.EdgeID]; ok && ev.Patch != nil && ev.Patch.Type != nil {
				t.onResolutionEdge(at, e.ID, *ev.Patch.Type, e.From, e.To)
			}
		}
		snap.Apply(at.Slice, ev)
		return true
	})
	t.built = true
}

// onDeath checks whether a bond forms at this death event: the deceased
// must be male, married at the moment of death, childless at the moment
// of death, and survived by at least one eligible brother.
func (t *Tracker) onDeath(snap graph.Snapshot, at graph.Instant, pid graph.PersonID) {
	deceased, ok := snap.People[pid]
	if !ok || deceased.Gender != graph.Male {
		return
	}
	if t.q.HadLivingChildrenAt(pid, at) {
		return
	}

	for _, e := range snap.Edges {
		if !e.Type.IsSpousal() || !e.Touches(pid) {
			continue
		}
		widow := e.Other(pid)
		wp, ok := snap.People[widow]
		if !ok || wp.Gender != graph.Female || !t.q.WasAliveAt(widow, at) {
			continue
		}
		brothers := t.eligibleBrothers(pid, widow, at)
		if len(brothers) == 0 {
			continue
		}
		t.records = append(t.records, &Record{
			ID:           uuid.NewString(),
			Widow:        widow,
			Deceased:     pid,
			MarriageEdge: e.ID,
			Brothers:     brothers,
			CreatedAt:    at,
			Status:       StatusPending,
		})
	}
}

// eligibleBrothers collects the deceased's brothers alive at the moment
// of death, excluding any independently forbidden to the widow.
func (t *Tracker) eligibleBrothers(deceased, widow graph.PersonID, at graph.Instant) []graph.PersonID {
	var out []graph.PersonID
	for _, sib := range t.q.SiblingsOf(deceased, at.Slice) {
		p, ok := t.q.PersonAt(sib, at.Slice)
		if !ok || p.Gender != graph.Male {
			continue
		}
		if !t.q.WasAliveAt(sib, at) {
			continue
		}
		if t.forbid != nil && t.forbid(sib, widow, at.Slice) {
			continue
		}
		out = append(out, sib)
	}
	return out
}

// onResolutionEdge transitions pending records when a yibum, chalitza or
// maamar edge appears between a record's widow and one of its brothers.
func (t *Tracker) onResolutionEdge(at graph.Instant, id graph.EdgeID, typ graph.RelationshipType, from, to graph.PersonID) {
	switch typ {
	case graph.RelYibum, graph.RelChalitza, graph.RelMaamar:
	default:
		return
	}

	for _, rec := range t.records {
		if rec.Status.Resolved() {
			continue
		}
		var brother graph.PersonID
		switch rec.Widow {
		case from:
			brother = to
		case to:
			brother = from
		default:
			continue
		}
		if !rec.HasBrother(brother) {
			continue
		}

		switch typ {
		case graph.RelMaamar:
			b := brother
			rec.Status = StatusMaamar
			rec.PartialBy = &b
		case graph.RelYibum:
			rec.Status = StatusYibum
			rec.ResolvedAt = ptr(at)
			rec.ResolvedBy = ptr(id)
		case graph.RelChalitza:
			rec.Status = StatusChalitza
			rec.ResolvedAt = ptr(at)
			rec.ResolvedBy = ptr(id)
		}
	}
}

func ptr[T any](v T) *T { return &v }

/*
========================
Queries
========================
*/

// Info is the derived view of a record at a query index.
type Info struct {
	RecordID     string
	Widow        graph.PersonID
	Deceased     graph.PersonID
	MarriageEdge graph.EdgeID
	Status       Status
	Active       bool
	// Brothers still alive at the query index.
	Brothers   []graph.PersonID
	CreatedAt  graph.Instant
	ResolvedAt *graph.Instant
}

func (t *Tracker) activeAt(rec *Record, index int) bool {
	if rec.CreatedAt.Slice > index {
		return false
	}
	if rec.Status.Resolved() && rec.ResolvedAt != nil && rec.ResolvedAt.Slice <= index {
		return false
	}
	return true
}

func (t *Tracker) info(rec *Record, index int) *Info {
	var alive []graph.PersonID
	for _, b := range rec.Brothers {
		if t.q.IsAlive(b, index) {
			alive = append(alive, b)
		}
	}
	return &Info{
		RecordID:     rec.ID,
		Widow:        rec.Widow,
		Deceased:     rec.Deceased,
		MarriageEdge: rec.MarriageEdge,
		Status:       rec.Status,
		Active:       t.activeAt(rec, index),
		Brothers:     alive,
		CreatedAt:    rec.CreatedAt,
		ResolvedAt:   rec.ResolvedAt,
	}
}

// ZikahBetween returns the bond linking x and y (either order: one must
// be the widow, the other an eligible brother) existing by the index, or
// nil when no record links the pair.
func (t *Tracker) ZikahBetween(x, y graph.PersonID, index int) *Info {
	t.ensure()
	for _, rec := range t.records {
		var other graph.PersonID
		switch rec.Widow {
		case x:
			other = y
		case y:
			other = x
		default:
			continue
		}
		if !rec.HasBrother(other) || rec.CreatedAt.Slice > index {
			continue
		}
		return t.info(rec, index)
	}
	return nil
}

// IsYevama reports whether p is a widow under an active bond at the index.
func (t *Tracker) IsYevama(p graph.PersonID, index int) bool {
	t.ensure()
	for _, rec := range t.records {
		if rec.Widow == p && t.activeAt(rec, index) {
			return true
		}
	}
	return false
}

// IsYavam reports whether p is a living eligible brother under an active
// bond at the index.
func (t *Tracker) IsYavam(p graph.PersonID, index int) bool {
	t.ensure()
	if !t.q.IsAlive(p, index) {
		return false
	}
	for _, rec := range t.records {
		if rec.HasBrother(p) && t.activeAt(rec, index) {
			return true
		}
	}
	return false
}

// YevamosAt lists the living widows under an active bond at the index.
func (t *Tracker) YevamosAt(index int) []graph.PersonID {
	t.ensure()
	seen := map[graph.PersonID]bool{}
	var out []graph.PersonID
	for _, rec := range t.records {
		if !t.activeAt(rec, index) || seen[rec.Widow] {
			continue
		}
		if !t.q.IsAlive(rec.Widow, index) {
			continue
		}
		seen[rec.Widow] = true
		out = append(out, rec.Widow)
	}
	return out
}

// YevamimFor lists the living eligible brothers bound to the widow at the
// index.
func (t *Tracker) YevamimFor(widow graph.PersonID, index int) []graph.PersonID {
	t.ensure()
	seen := map[graph.PersonID]bool{}
	var out []graph.PersonID
	for _, rec := range t.records {
		if rec.Widow != widow || !t.activeAt(rec, index) {
			continue
		}
		for _, b := range rec.Brothers {
			if seen[b] || !t.q.IsAlive(b, index) {
				continue
			}
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
