package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_InstantOrdering(t *testing.T) {
	a := Instant{Slice: 1, Event: 2}
	b := Instant{Slice: 1, Event: 3}
	c := Instant{Slice: 2, Event: 0}

	require.True(t, a.Before(b))
	require.True(t, b.Before(c))
	require.True(t, c.After(a))
	require.Equal(t, 0, a.Compare(Instant{Slice: 1, Event: 2}))
}

func Test_IsAlive(t *testing.T) {
	tl := build().
		slice("s0").person("rivka", Female).
		slice("s1").
		slice("s2").dies("rivka").
		done()
	q := NewQueryEngine(tl)

	require.True(t, q.IsAlive("rivka", 0))
	require.True(t, q.IsAlive("rivka", 1))
	// death index counts as dead already
	require.False(t, q.IsAlive("rivka", 2))
	// unknown person is simply not alive
	require.False(t, q.IsAlive("nobody", 2))
}

func Test_IsAlive_BeforeIntroduction(t *testing.T) {
	tl := build().
		slice("s0").
		slice("s1").person("late", Male).
		done()
	q := NewQueryEngine(tl)

	require.False(t, q.IsAlive("late", 0))
	require.True(t, q.IsAlive("late", 1))
}

func Test_ParentsChildrenSiblings(t *testing.T) {
	q := NewQueryEngine(twoBrothersFamily())

	require.ElementsMatch(t, []PersonID{"yaakov"}, q.ParentsOf("reuven", 0))
	require.ElementsMatch(t, []PersonID{"reuven", "shimon"}, q.ChildrenOf("yaakov", 0))
	require.ElementsMatch(t, []PersonID{"shimon"}, q.SiblingsOf("reuven", 0))
	require.Empty(t, q.SiblingsOf("leah", 0))
}

func Test_ChildrenFromUnionEdge(t *testing.T) {
	tl := build().
		slice("s0").
		person("a", Male).
		person("b", Female).
		person("kid", Male).
		edge("u1", RelUnion, "a", "b", "kid").
		done()
	q := NewQueryEngine(tl)

	require.ElementsMatch(t, []PersonID{"kid"}, q.ChildrenOf("a", 0))
	require.ElementsMatch(t, []PersonID{"kid"}, q.ChildrenOf("b", 0))
	require.ElementsMatch(t, []PersonID{"a", "b"}, q.ParentsOf("kid", 0))
}

func Test_DanglingEdgeEndpointsSkipped(t *testing.T) {
	tl := build().
		slice("s0").
		person("a", Male).
		edge("p1", RelParent, "ghost", "a").
		done()
	q := NewQueryEngine(tl)

	require.Empty(t, q.ParentsOf("a", 0))
}

func Test_Spouses(t *testing.T) {
	q := NewQueryEngine(twoBrothersFamily())

	require.Empty(t, q.SpousesOf("reuven", 0))
	require.ElementsMatch(t, []PersonID{"leah"}, q.SpousesOf("reuven", 1))
	require.ElementsMatch(t, []PersonID{"reuven"}, q.SpousesOf("leah", 1))
}

func Test_Spouses_DivorceEndsMarriage(t *testing.T) {
	tl := build().
		slice("s0").
		person("h", Male).
		person("w", Female).
		edge("m1", RelMarriage, "h", "w").
		slice("s1").
		retype("m1", RelDivorce).
		done()
	q := NewQueryEngine(tl)

	require.ElementsMatch(t, []PersonID{"w"}, q.SpousesOf("h", 0))
	require.Empty(t, q.SpousesOf("h", 1))

	// the divorced wife remains a historical spouse
	require.ElementsMatch(t, []PersonID{"w"}, q.EverSpousesOf("h", 1))
}

func Test_Spouses_DeathEndsMarriage(t *testing.T) {
	tl := build().
		slice("s0").
		person("h", Male).
		person("w", Female).
		edge("m1", RelMarriage, "h", "w").
		slice("s1").
		dies("h").
		done()
	q := NewQueryEngine(tl)

	require.Empty(t, q.SpousesOf("w", 1))
	require.ElementsMatch(t, []PersonID{"h"}, q.EverSpousesOf("w", 1))
}

func Test_EverSpouses_RemovedEdgeNeverExisted(t *testing.T) {
	tl := build().
		slice("s0").
		person("h", Male).
		person("w", Female).
		edge("m1", RelMarriage, "h", "w").
		slice("s1").
		remove("m1").
		done()
	q := NewQueryEngine(tl)

	require.Empty(t, q.EverSpousesOf("h", 1))
}

func Test_WasAliveAt_SameSliceOrdering(t *testing.T) {
	// both brothers die in the same slice: Levi first, then Yehuda
	tl := build().
		slice("s0").
		person("levi", Male).
		person("yehuda", Male).
		slice("s1").
		dies("levi").
		dies("yehuda").
		done()
	q := NewQueryEngine(tl)

	leviDeath, ok := q.FindEvent(EventQuery{Kind: RefDeath, Person: "levi"})
	require.True(t, ok)
	yehudaDeath, ok := q.FindEvent(EventQuery{Kind: RefDeath, Person: "yehuda"})
	require.True(t, ok)

	// Yehuda was still alive at the moment Levi died, not vice versa
	require.True(t, q.WasAliveAt("yehuda", leviDeath))
	require.False(t, q.WasAliveAt("levi", yehudaDeath))
	// nobody is alive at the instant of their own death event
	require.False(t, q.WasAliveAt("levi", leviDeath))
}

func Test_HadLivingChildrenAt(t *testing.T) {
	// the child dies in the same slice, before the father does
	tl := build().
		slice("s0").
		person("av", Male).
		person("ben", Male).
		edge("p1", RelParent, "av", "ben").
		slice("s1").
		dies("ben").
		dies("av").
		done()
	q := NewQueryEngine(tl)

	death, ok := q.FindEvent(EventQuery{Kind: RefDeath, Person: "av"})
	require.True(t, ok)
	require.False(t, q.HadLivingChildrenAt("av", death))

	// before anyone died the child counts
	require.True(t, q.HadLivingChildrenAt("av", Instant{Slice: 0, Event: 3}))
}

func Test_LifetimesOverlap(t *testing.T) {
	tl := build().
		slice("s0").person("old", Male).
		slice("s1").dies("old").
		slice("s2").person("young", Male).
		done()
	q := NewQueryEngine(tl)

	require.False(t, q.LifetimesOverlap("old", "young"))
	require.False(t, q.LifetimesOverlap("young", "old"))
	require.True(t, q.LifetimesOverlap("old", "old"))
	require.False(t, q.LifetimesOverlap("old", "nobody"))
}

func Test_LifetimesOverlap_SameSliceBoundary(t *testing.T) {
	// death at the slice the other is introduced: half-open intervals do
	// not intersect
	tl := build().
		slice("s0").person("a", Male).
		slice("s1").dies("a").person("b", Male).
		done()
	q := NewQueryEngine(tl)

	require.False(t, q.LifetimesOverlap("a", "b"))
}

func Test_FindEvent(t *testing.T) {
	q := NewQueryEngine(twoBrothersFamily())

	intro, ok := q.FindEvent(EventQuery{Kind: RefIntroduction, Person: "shimon"})
	require.True(t, ok)
	require.Equal(t, Instant{Slice: 0, Event: 2}, intro)

	wedding, ok := q.FindEvent(EventQuery{Kind: RefEdgeAdded, Edge: "m1"})
	require.True(t, ok)
	require.Equal(t, Instant{Slice: 1, Event: 0}, wedding)

	_, ok = q.FindEvent(EventQuery{Kind: RefDeath, Person: "reuven"})
	require.False(t, ok)
}

func Test_RelationshipExistedAt(t *testing.T) {
	tl := build().
		slice("s0").
		person("h", Male).
		person("w", Female).
		edge("m1", RelMarriage, "h", "w").
		slice("s1").
		retype("m1", RelDivorce).
		dies("h").
		done()
	q := NewQueryEngine(tl)

	death, ok := q.FindEvent(EventQuery{Kind: RefDeath, Person: "h"})
	require.True(t, ok)

	// the divorce happened earlier within the same slice, so at the moment
	// of death there was no marriage anymore
	require.False(t, q.RelationshipExistedAt("h", "w", []RelationshipType{RelMarriage}, death))
	require.True(t, q.RelationshipExistedAt("h", "w", []RelationshipType{RelDivorce}, death))
}

func Test_ResolverPatchAndRemoval(t *testing.T) {
	hidden := true
	tl := &Timeline{}
	tl.Slices = []Slice{
		{Events: []Event{
			{Kind: EventPersonAdded, Person: &Person{ID: "a", Gender: Male}},
			{Kind: EventPersonAdded, Person: &Person{ID: "b", Gender: Female}},
			{Kind: EventEdgeAdded, Edge: &Relationship{ID: "e1", Type: RelMarriage, From: "a", To: "b"}},
		}},
		{Events: []Event{
			{Kind: EventEdgeUpdated, EdgeID: "e1", Patch: &EdgePatch{Hidden: &hidden}},
		}},
		{Events: []Event{
			{Kind: EventEdgeRemoved, EdgeID: "e1"},
		}},
	}
	r := NewResolver(tl)

	require.False(t, r.StateAt(0).Edges["e1"].Hidden)
	require.True(t, r.StateAt(1).Edges["e1"].Hidden)
	_, present := r.StateAt(2).Edges["e1"]
	require.False(t, present)
}
