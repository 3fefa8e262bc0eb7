package graph

// Shared timeline construction helpers for the package tests. The
// fixtures mimic how the editor layer emits events: one slice per "scene",
// several events inside it.

type timelineBuilder struct {
	t Timeline
}

func build() *timelineBuilder {
	return &timelineBuilder{}
}

func (b *timelineBuilder) slice(label string) *timelineBuilder {
	b.t.Slices = append(b.t.Slices, Slice{Label: label})
	return b
}

func (b *timelineBuilder) cur() *Slice {
	if len(b.t.Slices) == 0 {
		b.slice("")
	}
	return &b.t.Slices[len(b.t.Slices)-1]
}

func (b *timelineBuilder) person(id PersonID, g Gender) *timelineBuilder {
	s := b.cur()
	s.Events = append(s.Events, Event{
		Kind:   EventPersonAdded,
		Person: &Person{ID: id, Gender: g},
	})
	return b
}

func (b *timelineBuilder) dies(id PersonID) *timelineBuilder {
	s := b.cur()
	s.Events = append(s.Events, Event{Kind: EventPersonDied, PersonID: id})
	return b
}

func (b *timelineBuilder) edge(id EdgeID, typ RelationshipType, from, to PersonID, children ...PersonID) *timelineBuilder {
	s := b.cur()
	s.Events = append(s.Events, Event{
		Kind: EventEdgeAdded,
		Edge: &Relationship{ID: id, Type: typ, From: from, To: to, Children: children},
	})
	return b
}

func (b *timelineBuilder) retype(id EdgeID, typ RelationshipType) *timelineBuilder {
	s := b.cur()
	s.Events = append(s.Events, Event{
		Kind:   EventEdgeUpdated,
		EdgeID: id,
		Patch:  &EdgePatch{Type: &typ},
	})
	return b
}

func (b *timelineBuilder) remove(id EdgeID) *timelineBuilder {
	s := b.cur()
	s.Events = append(s.Events, Event{Kind: EventEdgeRemoved, EdgeID: id})
	return b
}

func (b *timelineBuilder) done() *Timeline {
	return &b.t
}

// twoBrothersFamily: father Yaakov with sons Reuven and Shimon, Reuven
// married to Leah at slice 1.
func twoBrothersFamily() *Timeline {
	return build().
		slice("family").
		person("yaakov", Male).
		person("reuven", Male).
		person("shimon", Male).
		person("leah", Female).
		edge("p1", RelParent, "yaakov", "reuven").
		edge("p2", RelParent, "yaakov", "shimon").
		slice("wedding").
		edge("m1", RelMarriage, "reuven", "leah").
		done()
}
