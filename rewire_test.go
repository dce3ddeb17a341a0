package crewflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func chain(ids ...string) []Edge {
	var edges []Edge
	for i := 0; i+1 < len(ids); i++ {
		edges = append(edges, Edge{ID: EdgeID(ids[i], ids[i+1]), Source: ids[i], Target: ids[i+1]})
	}
	return edges
}

func pairs(edges []Edge) [][2]string {
	out := make([][2]string, len(edges))
	for i, e := range edges {
		out[i] = [2]string{e.Source, e.Target}
	}
	return out
}

var sortPairs = cmpopts.SortSlices(func(a, b [2]string) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
})

func TestRewireBridgesSingleNode(t *testing.T) {
	got := Rewire(chain("o", "w", "t"), set("w"))

	want := []Edge{{ID: "o->t", Source: "o", Target: "t"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rewire() mismatch (-want +got):\n%s", diff)
	}
}

func TestRewireBatchChain(t *testing.T) {
	got := Rewire(chain("a", "b", "c", "d"), set("b", "c"))
	assert.Equal(t, [][2]string{{"a", "d"}}, pairs(got))
}

func TestRewireSequentialChainMatchesBatch(t *testing.T) {
	edges := chain("a", "b", "c", "d")
	edges = Rewire(edges, set("b"))
	edges = Rewire(edges, set("c"))
	assert.Equal(t, [][2]string{{"a", "d"}}, pairs(edges))
}

// Batch deletion bridges every outside incomer to every outside outgoer of
// the whole set, while one-at-a-time deletion only bridges per node.
func TestRewireBatchAndSequentialDiverge(t *testing.T) {
	edges := []Edge{
		{ID: "1", Source: "a", Target: "b"},
		{ID: "2", Source: "b", Target: "d"},
		{ID: "3", Source: "x", Target: "c"},
		{ID: "4", Source: "c", Target: "e"},
	}

	batch := Rewire(edges, set("b", "c"))
	want := [][2]string{{"a", "d"}, {"a", "e"}, {"x", "d"}, {"x", "e"}}
	if diff := cmp.Diff(want, pairs(batch), sortPairs); diff != "" {
		t.Errorf("batch mismatch (-want +got):\n%s", diff)
	}

	seq := Rewire(Rewire(edges, set("b")), set("c"))
	want = [][2]string{{"a", "d"}, {"x", "e"}}
	if diff := cmp.Diff(want, pairs(seq), sortPairs); diff != "" {
		t.Errorf("sequential mismatch (-want +got):\n%s", diff)
	}
}

func TestRewireSkipsExistingPair(t *testing.T) {
	edges := append(chain("o", "w", "t"), Edge{ID: "manual", Source: "o", Target: "t"})
	got := Rewire(edges, set("w"))
	assert.Equal(t, []Edge{{ID: "manual", Source: "o", Target: "t"}}, got)
}

func TestRewireSkipsSelfLoop(t *testing.T) {
	edges := []Edge{
		{ID: "1", Source: "a", Target: "b"},
		{ID: "2", Source: "b", Target: "a"},
	}
	got := Rewire(edges, set("b"))
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestRewireKeepsUnrelatedEdges(t *testing.T) {
	edges := []Edge{
		{ID: "keep", Source: "p", Target: "q"},
		{ID: "1", Source: "o", Target: "w"},
	}
	got := Rewire(edges, set("w"))
	assert.Equal(t, []Edge{{ID: "keep", Source: "p", Target: "q"}}, got)
}

func TestRewireDisambiguatesTakenID(t *testing.T) {
	edges := append(chain("o", "w", "t"), Edge{ID: "o->t", Source: "p", Target: "q"})
	got := Rewire(edges, set("w"))
	require.Len(t, got, 2)
	assert.Equal(t, Edge{ID: "o->t#2", Source: "o", Target: "t"}, got[1])
}

func TestRewireDoesNotMutateInput(t *testing.T) {
	edges := chain("a", "b", "c")
	before := append([]Edge(nil), edges...)
	Rewire(edges, set("b"))
	assert.Equal(t, before, edges)
}
