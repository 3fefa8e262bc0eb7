package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTimeline = `
slices:
  - label: family
    events:
      - kind: person_added
        person: {id: reuven, gender: male}
      - kind: person_added
        person: {id: leah, gender: female, name: "Leah"}
      - kind: edge_added
        edge: {id: m1, type: marriage, from: reuven, to: leah}
  - label: divorce
    events:
      - kind: edge_updated
        edgeId: m1
        patch: {type: divorce}
  - label: end
    events:
      - kind: person_died
        personId: reuven
      - kind: edge_removed
        edgeId: m1
`

func Test_ParseTimeline(t *testing.T) {
	tl, err := ParseTimeline([]byte(sampleTimeline))
	require.NoError(t, err)
	require.Equal(t, 3, tl.Len())
	require.Equal(t, "family", tl.Slices[0].Label)

	ev, ok := tl.EventAt(Instant{Slice: 0, Event: 1})
	require.True(t, ok)
	require.Equal(t, EventPersonAdded, ev.Kind)
	require.Equal(t, "Leah", ev.Person.Name)
	require.Equal(t, Female, ev.Person.Gender)

	ev, ok = tl.EventAt(Instant{Slice: 1, Event: 0})
	require.True(t, ok)
	require.Equal(t, EventEdgeUpdated, ev.Kind)
	require.Equal(t, EdgeID("m1"), ev.EdgeID)
	require.NotNil(t, ev.Patch.Type)
	require.Equal(t, RelDivorce, *ev.Patch.Type)

	// the decoded document drives queries directly
	q := NewQueryEngine(tl)
	require.Equal(t, []PersonID{"leah"}, q.SpousesOf("reuven", 0))
	require.Empty(t, q.SpousesOf("reuven", 1))
	require.False(t, q.IsAlive("reuven", 2))
}

func Test_ParseTimeline_Invalid(t *testing.T) {
	_, err := ParseTimeline([]byte("slices: {not: a list}"))
	require.Error(t, err)
}
