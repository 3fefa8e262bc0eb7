package pattern

import (
	"strings"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
)

/*
========================
Matcher
========================
*/

// Match is the outcome of evaluating one pattern against a pair.
// Path, when set, is the reconstructed relational chain A..B used for
// display; Edge is the matched edge of a direct pattern.
type Match struct {
	Matched bool
	Path    []graph.PersonID
	Edge    *graph.Relationship
}

// Matcher evaluates patterns against a query engine. It holds no state of
// its own beyond the engine binding.
type Matcher struct {
	q *graph.QueryEngine
}

func NewMatcher(q *graph.QueryEngine) *Matcher {
	return &Matcher{q: q}
}

// Eval decides whether the pattern holds between the ordered pair (a, b)
// at the slice index. Unknown step keywords and unknown state-condition
// names fail the single pattern silently (no match): a registry may be
// extended with rule kinds faster than the matcher is.
func (m *Matcher) Eval(p *Pattern, a, b graph.PersonID, index int) Match {
	if p == nil {
		return Match{}
	}
	switch p.Kind {
	case KindDirect:
		return m.evalDirect(p, a, b, index)
	case KindPath:
		return m.evalPath(p, a, b, index)
	case KindState:
		return m.evalState(p, a, b, index)
	case KindTemporal:
		return m.evalTemporal(p, a, b, index)
	case KindAnd:
		return m.evalAnd(p, a, b, index)
	case KindOr:
		return m.evalOr(p, a, b, index)
	}
	return Match{}
}

/*
========================
Direct
========================
*/

func (m *Matcher) evalDirect(p *Pattern, a, b graph.PersonID, index int) Match {
	for _, e := range m.q.RelationshipsBetween(a, b, index) {
		if !typeInSet(e.Type, p.EdgeTypes) {
			continue
		}
		if p.Negate {
			return Match{}
		}
		edge := e
		return Match{Matched: true, Edge: &edge, Path: []graph.PersonID{a, b}}
	}
	if p.Negate {
		return Match{Matched: true}
	}
	return Match{}
}

func typeInSet(t graph.RelationshipType, set []graph.RelationshipType) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}

/*
========================
Path (backtracking DFS)
========================
*/

func (m *Matcher) evalPath(p *Pattern, a, b graph.PersonID, index int) Match {
	steps := parseSteps(p.Path)
	if len(steps) == 0 {
		// an empty chain relates a person only to themselves
		if a == b {
			return Match{Matched: true, Path: []graph.PersonID{a}}
		}
		return Match{}
	}

	visited := map[graph.PersonID]bool{a: true}
	trail := make([]graph.PersonID, 0, len(steps)+1)
	trail = append(trail, a)

	if path, ok := m.walk(p, steps, 0, a, b, index, visited, trail); ok {
		return Match{Matched: true, Path: path}
	}
	return Match{}
}

func parseSteps(path string) []string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// walk advances one step of the chain from cur, trying every candidate
// satisfying the step relation. The visited set is local to this attempt:
// independent branches must not prune each other.
func (m *Matcher) walk(
	p *Pattern,
	steps []string,
	i int,
	cur, target graph.PersonID,
	index int,
	visited map[graph.PersonID]bool,
	trail []graph.PersonID,
) ([]graph.PersonID, bool) {

	if i == len(steps) {
		if cur == target {
			return append([]graph.PersonID(nil), trail...), true
		}
		return nil, false
	}

	candidates, known := m.stepCandidates(steps[i], cur, index, p.HistoricalSpouse)
	if !known {
		// unrecognized step keyword: the whole pattern cannot match
		return nil, false
	}

	for _, next := range candidates {
		if visited[next] {
			continue
		}
		if !m.stepGenderAllowed(p, i, next, index) {
			continue
		}
		visited[next] = true
		result, ok := m.walk(p, steps, i+1, next, target, index, visited, append(trail, next))
		visited[next] = false
		if ok {
			return result, true
		}
	}
	return nil, false
}

func (m *Matcher) stepCandidates(step string, from graph.PersonID, index int, historical bool) ([]graph.PersonID, bool) {
	switch step {
	case "parent":
		return m.q.ParentsOf(from, index), true
	case "child":
		return m.q.ChildrenOf(from, index), true
	case "sibling":
		return m.q.SiblingsOf(from, index), true
	case "spouse":
		if historical {
			return m.q.EverSpousesOf(from, index), true
		}
		return m.q.SpousesOf(from, index), true
	}
	return nil, false
}

// stepGenderAllowed filters the person REACHED by step i. A nil per-step
// entry means any gender at that position; the legacy ThroughGender
// filter applies uniformly only when PathGenders is absent entirely.
func (m *Matcher) stepGenderAllowed(p *Pattern, i int, reached graph.PersonID, index int) bool {
	var want *graph.Gender
	if len(p.PathGenders) > 0 {
		if i < len(p.PathGenders) {
			want = p.PathGenders[i]
		}
	} else {
		want = p.ThroughGender
	}
	if want == nil {
		return true
	}
	person, ok := m.q.PersonAt(reached, index)
	return ok && person.Gender == *want
}

/*
========================
State conditions
========================
*/

func (m *Matcher) evalState(p *Pattern, a, b graph.PersonID, index int) Match {
	for _, c := range p.States {
		holds, known := m.stateHolds(c, a, b, index)
		if !known {
			return Match{}
		}
		if c.Negate {
			holds = !holds
		}
		if !holds {
			return Match{}
		}
	}
	return Match{Matched: true}
}

func (m *Matcher) stateHolds(c StateCond, a, b graph.PersonID, index int) (holds, known bool) {
	var subject graph.PersonID
	switch c.Subject {
	case SubjectA:
		subject = a
	case SubjectB:
		subject = b
	default:
		return false, false
	}

	person, exists := m.q.PersonAt(subject, index)

	switch c.Name {
	case "alive":
		return exists && person.Alive(index), true
	case "dead":
		return exists && person.DiedAt != nil && *person.DiedAt <= index, true
	case "married":
		return len(m.q.SpousesOf(subject, index)) > 0, true
	case "unmarried":
		return exists && len(m.q.SpousesOf(subject, index)) == 0, true
	case "has-children":
		return len(m.q.ChildrenOf(subject, index)) > 0, true
	case "childless":
		return exists && len(m.q.ChildrenOf(subject, index)) == 0, true
	case "has-brothers":
		for _, sib := range m.q.SiblingsOf(subject, index) {
			if sp, ok := m.q.PersonAt(sib, index); ok && sp.Gender == graph.Male {
				return true, true
			}
		}
		return false, true
	case "male":
		return exists && person.Gender == graph.Male, true
	case "female":
		return exists && person.Gender == graph.Female, true
	}
	return false, false
}

/*
========================
Temporal conditions
========================
*/

func (m *Matcher) evalTemporal(p *Pattern, a, b graph.PersonID, index int) Match {
	for _, c := range p.Temporals {
		holds := m.temporalHolds(c, a, b, index)
		if c.Negate {
			holds = !holds
		}
		if !holds {
			return Match{}
		}
	}
	return Match{Matched: true}
}

// temporalHolds evaluates one condition existentially: when a subject
// reference resolves to several people (e.g. child-of-a), the condition
// holds if it holds for any resolution.
func (m *Matcher) temporalHolds(c TemporalCond, a, b graph.PersonID, index int) bool {
	switch c.Kind {

	case TemporalAliveWhen:
		for _, s := range m.resolveSubject(c.Subject, a, b, index) {
			for _, at := range m.resolveEvent(c.Event, a, b, index) {
				if m.q.WasAliveAt(s, at) {
					return true
				}
			}
		}

	case TemporalLifetimesOverlap:
		for _, s := range m.resolveSubject(c.Subject, a, b, index) {
			for _, o := range m.resolveSubject(c.Other, a, b, index) {
				if m.q.LifetimesOverlap(s, o) {
					return true
				}
			}
		}

	case TemporalEventPrecedes:
		for _, e1 := range m.resolveEvent(c.Event, a, b, index) {
			for _, e2 := range m.resolveEvent(c.After, a, b, index) {
				if e1.Before(e2) {
					return true
				}
			}
		}

	case TemporalChildrenWhen:
		for _, s := range m.resolveSubject(c.Subject, a, b, index) {
			for _, at := range m.resolveEvent(c.Event, a, b, index) {
				if m.q.HadLivingChildrenAt(s, at) {
					return true
				}
			}
		}

	case TemporalEdgeWhen:
		for _, s := range m.resolveSubject(c.Subject, a, b, index) {
			for _, o := range m.resolveSubject(c.Other, a, b, index) {
				for _, at := range m.resolveEvent(c.Event, a, b, index) {
					if m.q.RelationshipExistedAt(s, o, c.EdgeTypes, at) {
						return true
					}
				}
			}
		}
	}
	return false
}

// resolveSubject expands a subject reference to concrete people. Spouse
// references resolve historically so that a condition about a deceased
// spouse still has a referent.
func (m *Matcher) resolveSubject(ref SubjectRef, a, b graph.PersonID, index int) []graph.PersonID {
	switch ref {
	case SubjectA:
		return []graph.PersonID{a}
	case SubjectB:
		return []graph.PersonID{b}
	case SubjectSpouseA:
		return m.q.EverSpousesOf(a, index)
	case SubjectSpouseB:
		return m.q.EverSpousesOf(b, index)
	case SubjectChildOfA:
		return m.q.ChildrenOf(a, index)
	case SubjectChildOfB:
		return m.q.ChildrenOf(b, index)
	}
	return nil
}

func (m *Matcher) resolveEvent(ref *EventRef, a, b graph.PersonID, index int) []graph.Instant {
	if ref == nil {
		return nil
	}
	var out []graph.Instant
	for _, s := range m.resolveSubject(ref.Subject, a, b, index) {
		if at, ok := m.q.FindEvent(graph.EventQuery{Kind: ref.Kind, Person: s}); ok {
			out = append(out, at)
		}
	}
	return out
}

/*
========================
Composition
========================
*/

func (m *Matcher) evalAnd(p *Pattern, a, b graph.PersonID, index int) Match {
	combined := Match{Matched: true}
	for _, sub := range p.Patterns {
		res := m.Eval(sub, a, b, index)
		if !res.Matched {
			return Match{}
		}
		if combined.Path == nil && res.Path != nil {
			combined.Path = res.Path
		}
		if combined.Edge == nil && res.Edge != nil {
			combined.Edge = res.Edge
		}
	}
	return combined
}

func (m *Matcher) evalOr(p *Pattern, a, b graph.PersonID, index int) Match {
	for _, sub := range p.Patterns {
		if res := m.Eval(sub, a, b, index); res.Matched {
			return res
		}
	}
	return Match{}
}
