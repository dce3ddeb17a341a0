package crewflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savedFlow = `{
  "nodes": [
    {"id": "crew-1", "type": "crew", "position": {"x": 0, "y": 0}, "selected": true,
     "data": {"type": "crew", "name": "Simple Crew", "description": "A crew"}},
    {"id": "agent-1", "type": "agent", "position": {"x": 200, "y": 0},
     "data": {"type": "agent", "name": "Exec", "role": "Executor", "goal": "Execute",
              "backstory": "Efficient", "tools": ["web_search", "calculator"], "color": "blue"}},
    {"id": "task-1", "type": "task",
     "data": {"name": "Simple Task", "description": "Do it", "expectedOutput": "Done"}}
  ],
  "edges": [
    {"id": "e1-2", "source": "crew-1", "target": "agent-1", "animated": true},
    {"id": "e2-3", "source": "agent-1", "target": "task-1"}
  ]
}`

func TestDecodeSnapshotIgnoresPresentationFields(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(savedFlow))
	require.NoError(t, err)

	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, Node{ID: "crew-1", Kind: KindOrchestrator, Attributes: OrchestratorAttrs{
		Name: "Simple Crew", Description: "A crew",
	}}, snap.Nodes[0])
	assert.Equal(t, WorkerAttrs{
		Name: "Exec", Role: "Executor", Goal: "Execute", Backstory: "Efficient",
		Tools: ToolList{"web_search", "calculator"},
	}, snap.Nodes[1].Attributes)
	assert.Equal(t, WorkItemAttrs{Name: "Simple Task", Description: "Do it", ExpectedOutput: "Done"}, snap.Nodes[2].Attributes)
	assert.Equal(t, []Edge{
		{ID: "e1-2", Source: "crew-1", Target: "agent-1"},
		{ID: "e2-3", Source: "agent-1", Target: "task-1"},
	}, snap.Edges)
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			want, err := Preset(name)
			require.NoError(t, err)

			data, err := json.Marshal(want)
			require.NoError(t, err)
			got, err := DecodeSnapshot(data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSnapshotMarshalShape(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Node{{ID: "agent-1", Kind: KindWorker, Attributes: WorkerAttrs{Role: "R"}}},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"nodes": [{"id": "agent-1", "type": "agent", "data": {
			"type": "agent", "name": "", "role": "R", "goal": "", "backstory": "", "tools": []
		}}],
		"edges": []
	}`, string(data))
}

func TestDecodeSnapshotLegacyToolString(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"nodes": [{"id": "agent-1", "type": "agent",
		"data": {"type": "agent", "tools": "academic_database, data_analysis,"}}], "edges": []}`))
	require.NoError(t, err)
	assert.Equal(t, ToolList{"academic_database", "data_analysis"}, snap.Nodes[0].Attributes.(WorkerAttrs).Tools)
}

func TestDecodeSnapshotEmpty(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, snap.Nodes)
	assert.Empty(t, snap.Edges)
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{"nodes": [`},
		{"not an object", `[]`},
		{"nodes not a list", `{"nodes": 5}`},
		{"node missing id", `{"nodes": [{"type": "crew", "data": {}}]}`},
		{"node unknown type", `{"nodes": [{"id": "x", "type": "team", "data": {}}]}`},
		{"node missing type", `{"nodes": [{"id": "x", "data": {}}]}`},
		{"node missing data", `{"nodes": [{"id": "x", "type": "crew"}]}`},
		{"data not an object", `{"nodes": [{"id": "x", "type": "crew", "data": "crew"}]}`},
		{"data type disagrees", `{"nodes": [{"id": "x", "type": "crew", "data": {"type": "task"}}]}`},
		{"field wrong type", `{"nodes": [{"id": "x", "type": "task", "data": {"description": 7}}]}`},
		{"tools wrong type", `{"nodes": [{"id": "x", "type": "agent", "data": {"tools": {"a": 1}}}]}`},
		{"duplicate node id", `{"nodes": [
			{"id": "x", "type": "crew", "data": {}},
			{"id": "x", "type": "task", "data": {}}]}`},
		{"edge missing id", `{"nodes": [
			{"id": "c", "type": "crew", "data": {}},
			{"id": "t", "type": "task", "data": {}}],
			"edges": [{"source": "c", "target": "t"}]}`},
		{"edge dangling", `{"nodes": [{"id": "c", "type": "crew", "data": {}}],
			"edges": [{"id": "e", "source": "c", "target": "t"}]}`},
		{"edge source wrong type", `{"nodes": [{"id": "c", "type": "crew", "data": {}}],
			"edges": [{"id": "e", "source": 1, "target": "c"}]}`},
		{"duplicate edge pair", `{"nodes": [
			{"id": "c", "type": "crew", "data": {}},
			{"id": "t", "type": "task", "data": {}}],
			"edges": [{"id": "e1", "source": "c", "target": "t"}, {"id": "e2", "source": "c", "target": "t"}]}`},
		{"duplicate edge id", `{"nodes": [
			{"id": "c", "type": "crew", "data": {}},
			{"id": "a", "type": "agent", "data": {}},
			{"id": "t", "type": "task", "data": {}}],
			"edges": [{"id": "e", "source": "c", "target": "t"}, {"id": "e", "source": "a", "target": "t"}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := DecodeSnapshot([]byte(tc.in))
			assert.ErrorIs(t, err, ErrMalformedSnapshot)
			assert.Nil(t, snap)
		})
	}
}

// Edges outside the drawing whitelist are kept; rewiring can produce them.
func TestDecodeSnapshotAcceptsRewiredEdges(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"nodes": [
		{"id": "a", "type": "agent", "data": {}},
		{"id": "b", "type": "agent", "data": {}}],
		"edges": [{"id": "a->b", "source": "a", "target": "b"}]}`))
	assert.NoError(t, err)
}

func TestEncodeAttributesUnknown(t *testing.T) {
	_, err := EncodeAttributes(nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
