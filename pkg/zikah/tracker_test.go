package zikah

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nossonhuebner/yevamos-vibes-sub000/pkg/graph"
)

func person(id graph.PersonID, g graph.Gender) graph.Event {
	return graph.Event{Kind: graph.EventPersonAdded, Person: &graph.Person{ID: id, Gender: g}}
}

func died(id graph.PersonID) graph.Event {
	return graph.Event{Kind: graph.EventPersonDied, PersonID: id}
}

func edge(id graph.EdgeID, typ graph.RelationshipType, from, to graph.PersonID, children ...graph.PersonID) graph.Event {
	return graph.Event{Kind: graph.EventEdgeAdded, Edge: &graph.Relationship{
		ID: id, Type: typ, From: from, To: to, Children: children,
	}}
}

// base: father Yaakov, sons Reuven and Shimon, Reuven married to Leah.
// Slice 2 is left to the individual tests.
func base(extra ...graph.Slice) *graph.Timeline {
	slices := []graph.Slice{
		{Label: "family", Events: []graph.Event{
			person("yaakov", graph.Male),
			person("reuven", graph.Male),
			person("shimon", graph.Male),
			person("leah", graph.Female),
			edge("p1", graph.RelParent, "yaakov", "reuven"),
			edge("p2", graph.RelParent, "yaakov", "shimon"),
		}},
		{Label: "wedding", Events: []graph.Event{
			edge("m1", graph.RelMarriage, "reuven", "leah"),
		}},
	}
	return &graph.Timeline{Slices: append(slices, extra...)}
}

func tracker(tl *graph.Timeline, forbid ForbiddenFunc) *Tracker {
	return NewTracker(graph.NewQueryEngine(tl), forbid)
}

func Test_BondForms_ChildlessDeath(t *testing.T) {
	tl := base(graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}})
	tr := tracker(tl, nil)

	info := tr.ZikahBetween("shimon", "leah", 2)
	require.NotNil(t, info)
	require.True(t, info.Active)
	require.Equal(t, StatusPending, info.Status)
	require.Equal(t, graph.PersonID("leah"), info.Widow)
	require.Equal(t, graph.PersonID("reuven"), info.Deceased)
	require.Equal(t, graph.EdgeID("m1"), info.MarriageEdge)
	require.ElementsMatch(t, []graph.PersonID{"shimon"}, info.Brothers)
	require.Equal(t, graph.Instant{Slice: 2, Event: 0}, info.CreatedAt)

	// the pair is symmetric
	require.NotNil(t, tr.ZikahBetween("leah", "shimon", 2))
	// nothing before the death
	require.Nil(t, tr.ZikahBetween("shimon", "leah", 1))
}

func Test_NoBond_LivingChild(t *testing.T) {
	tl := base(
		graph.Slice{Label: "child", Events: []graph.Event{
			person("chanoch", graph.Male),
			edge("p3", graph.RelParent, "reuven", "chanoch"),
		}},
		graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}},
	)
	tr := tracker(tl, nil)

	require.Nil(t, tr.ZikahBetween("shimon", "leah", 3))
	require.False(t, tr.IsYevama("leah", 3))
}

func Test_BondForms_ChildDiedFirst(t *testing.T) {
	// the child dies earlier in the same slice as the father: at the
	// moment of the father's death no living child remains
	tl := base(
		graph.Slice{Label: "child", Events: []graph.Event{
			person("chanoch", graph.Male),
			edge("p3", graph.RelParent, "reuven", "chanoch"),
		}},
		graph.Slice{Label: "deaths", Events: []graph.Event{
			died("chanoch"),
			died("reuven"),
		}},
	)
	tr := tracker(tl, nil)

	info := tr.ZikahBetween("shimon", "leah", 3)
	require.NotNil(t, info)
	require.True(t, info.Active)
}

func Test_NoBond_ChildDiesAfterFatherInSameSlice(t *testing.T) {
	tl := base(
		graph.Slice{Label: "child", Events: []graph.Event{
			person("chanoch", graph.Male),
			edge("p3", graph.RelParent, "reuven", "chanoch"),
		}},
		graph.Slice{Label: "deaths", Events: []graph.Event{
			died("reuven"),
			died("chanoch"),
		}},
	)
	tr := tracker(tl, nil)

	require.Nil(t, tr.ZikahBetween("shimon", "leah", 3))
}

func Test_BrotherDeadAtDeathMoment_Excluded(t *testing.T) {
	// Shimon dies earlier in the same slice as Reuven: no eligible
	// brother remains at the moment of Reuven's death
	tl := base(graph.Slice{Label: "deaths", Events: []graph.Event{
		died("shimon"),
		died("reuven"),
	}})
	tr := tracker(tl, nil)

	require.Nil(t, tr.ZikahBetween("shimon", "leah", 2))
}

func Test_BrotherBornAfterDeath_NotEligible(t *testing.T) {
	tl := base(
		graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}},
		graph.Slice{Label: "birth", Events: []graph.Event{
			person("binyamin", graph.Male),
			edge("p4", graph.RelParent, "yaakov", "binyamin"),
		}},
	)
	tr := tracker(tl, nil)

	// the bond with Shimon exists, but Binyamin is not part of it
	require.Nil(t, tr.ZikahBetween("binyamin", "leah", 3))
	info := tr.ZikahBetween("shimon", "leah", 3)
	require.NotNil(t, info)
	require.ElementsMatch(t, []graph.PersonID{"shimon"}, info.Brothers)
}

func Test_ForbiddenBrotherExcluded(t *testing.T) {
	forbid := func(brother, widow graph.PersonID, index int) bool {
		return brother == "shimon" && widow == "leah"
	}
	tl := base(graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}})
	tr := tracker(tl, forbid)

	// Shimon was the only brother; with him excluded no bond forms
	require.Nil(t, tr.ZikahBetween("shimon", "leah", 2))
	require.False(t, tr.IsYevama("leah", 2))
}

func Test_Resolution_Chalitza(t *testing.T) {
	tl := base(
		graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}},
		graph.Slice{Label: "chalitza", Events: []graph.Event{
			edge("c1", graph.RelChalitza, "shimon", "leah"),
		}},
	)
	tr := tracker(tl, nil)

	require.True(t, tr.ZikahBetween("shimon", "leah", 2).Active)

	info := tr.ZikahBetween("shimon", "leah", 3)
	require.NotNil(t, info)
	require.False(t, info.Active)
	require.Equal(t, StatusChalitza, info.Status)
	require.NotNil(t, info.ResolvedAt)
	require.Equal(t, 3, info.ResolvedAt.Slice)
	require.False(t, tr.IsYevama("leah", 3))
	require.False(t, tr.IsYavam("shimon", 3))
}

func Test_Resolution_Yibum(t *testing.T) {
	tl := base(
		graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}},
		graph.Slice{Label: "yibum", Events: []graph.Event{
			edge("y1", graph.RelYibum, "shimon", "leah"),
		}},
	)
	tr := tracker(tl, nil)

	info := tr.ZikahBetween("shimon", "leah", 3)
	require.NotNil(t, info)
	require.False(t, info.Active)
	require.Equal(t, StatusYibum, info.Status)
}

func Test_Maamar_KeepsBondActive(t *testing.T) {
	tl := base(
		graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}},
		graph.Slice{Label: "maamar", Events: []graph.Event{
			edge("mm1", graph.RelMaamar, "shimon", "leah"),
		}},
	)
	tr := tracker(tl, nil)

	info := tr.ZikahBetween("shimon", "leah", 3)
	require.NotNil(t, info)
	require.True(t, info.Active)
	require.Equal(t, StatusMaamar, info.Status)
	require.True(t, tr.IsYevama("leah", 3))
}

func Test_Projections(t *testing.T) {
	// second brother Levi joins the family
	tl := &graph.Timeline{Slices: []graph.Slice{
		{Events: []graph.Event{
			person("yaakov", graph.Male),
			person("reuven", graph.Male),
			person("shimon", graph.Male),
			person("levi", graph.Male),
			person("leah", graph.Female),
			edge("p1", graph.RelParent, "yaakov", "reuven"),
			edge("p2", graph.RelParent, "yaakov", "shimon"),
			edge("p3", graph.RelParent, "yaakov", "levi"),
		}},
		{Events: []graph.Event{edge("m1", graph.RelMarriage, "reuven", "leah")}},
		{Events: []graph.Event{died("reuven")}},
		{Events: []graph.Event{died("levi")}},
	}}
	tr := tracker(tl, nil)

	require.ElementsMatch(t, []graph.PersonID{"leah"}, tr.YevamosAt(2))
	require.ElementsMatch(t, []graph.PersonID{"shimon", "levi"}, tr.YevamimFor("leah", 2))
	// Levi's later death removes him from the living projection, not
	// from the record
	require.ElementsMatch(t, []graph.PersonID{"shimon"}, tr.YevamimFor("leah", 3))
	require.True(t, tr.IsYavam("shimon", 3))
	require.False(t, tr.IsYavam("levi", 3))
}

func Test_RebuildReplays(t *testing.T) {
	tl := base(graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}})
	tr := tracker(tl, nil)

	require.NotNil(t, tr.ZikahBetween("shimon", "leah", 2))
	first := len(tr.Records())

	tr.Rebuild()
	require.Equal(t, first, len(tr.Records()))
}

func Test_PosthumousChildDoesNotReleaseBond(t *testing.T) {
	// Known limitation, kept deliberately: a child born to the widow
	// after the husband's death (conceived before it) does not
	// retroactively release the bond. Skipped until the behavior is
	// decided the other way.
	t.Skip("posthumous child does not re-evaluate an existing bond")

	tl := base(
		graph.Slice{Label: "death", Events: []graph.Event{died("reuven")}},
		graph.Slice{Label: "birth", Events: []graph.Event{
			person("posthumous", graph.Male),
			edge("p9", graph.RelParent, "reuven", "posthumous"),
		}},
	)
	tr := tracker(tl, nil)
	require.Nil(t, tr.ZikahBetween("shimon", "leah", 3))
}
