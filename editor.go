package crewflow

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Views are the representations derived from the graph after each commit.
type Views struct {
	Snapshot *Snapshot `json:"snapshot"`
	JSON     string    `json:"json"`
	Script   string    `json:"script"`
}

// Editor funnels every mutation through one Graph and recomputes the derived
// views synchronously after each successful one. It also holds the form
// editor's current selection. Like Graph, it is not safe for concurrent use.
//
// Mutators return the views after the call. On error the graph is untouched
// and the returned views are the current ones.
type Editor struct {
	graph    *Graph
	views    Views
	selected string
	logger   *slog.Logger
}

// NewEditor returns an editor over an empty graph.
func NewEditor(logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Editor{graph: NewGraph(), logger: logger}
	e.recompute()
	return e
}

// Views returns the views for the latest committed state.
func (e *Editor) Views() Views { return e.views }

// Graph exposes the underlying graph for read-only queries.
func (e *Editor) Graph() *Graph { return e.graph }

// Add creates a node of kind with attrs. A nil attrs means an empty record.
func (e *Editor) Add(kind NodeKind, attrs Attributes) (Node, Views, error) {
	n, err := e.graph.AddNode(kind, attrs)
	if err != nil {
		v, err := e.reject("add", err)
		return Node{}, v, err
	}
	e.commit("add", slog.String("node", n.ID))
	return n, e.views, nil
}

// Update replaces the attributes of node id.
func (e *Editor) Update(id string, attrs Attributes) (Views, error) {
	if err := e.graph.UpdateNode(id, attrs); err != nil {
		return e.reject("update", err)
	}
	e.commit("update", slog.String("node", id))
	return e.views, nil
}

// RemoveBatch deletes ids in one batch, rewiring around them.
func (e *Editor) RemoveBatch(ids []string) (Views, error) {
	if err := e.graph.RemoveNodes(ids); err != nil {
		return e.reject("remove", err)
	}
	for _, id := range ids {
		if id == e.selected {
			e.selected = ""
		}
	}
	e.commit("remove", slog.Any("nodes", ids))
	return e.views, nil
}

// Connect draws an edge; edgeID may be empty.
func (e *Editor) Connect(source, target, edgeID string) (Edge, Views, error) {
	edge, err := e.graph.AddEdge(edgeID, source, target)
	if err != nil {
		v, err := e.reject("connect", err)
		return Edge{}, v, err
	}
	e.commit("connect", slog.String("edge", edge.ID))
	return edge, e.views, nil
}

// Disconnect removes edge edgeID.
func (e *Editor) Disconnect(edgeID string) (Views, error) {
	if err := e.graph.RemoveEdge(edgeID); err != nil {
		return e.reject("disconnect", err)
	}
	e.commit("disconnect", slog.String("edge", edgeID))
	return e.views, nil
}

// Load replaces the whole graph with snap. The selection is cleared.
func (e *Editor) Load(snap *Snapshot) (Views, error) {
	if snap == nil {
		return e.reject("load", fmt.Errorf("%w: nil snapshot", ErrMalformedSnapshot))
	}
	if err := e.graph.Load(snap); err != nil {
		return e.reject("load", err)
	}
	e.selected = ""
	e.commit("load", slog.Int("nodes", len(snap.Nodes)), slog.Int("edges", len(snap.Edges)))
	return e.views, nil
}

// LoadPreset replaces the graph with the named preset.
func (e *Editor) LoadPreset(name string) (Views, error) {
	snap, err := Preset(name)
	if err != nil {
		return e.reject("preset", err)
	}
	return e.Load(snap)
}

// Select marks node id as the one being edited.
func (e *Editor) Select(id string) error {
	if _, ok := e.graph.Node(id); !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	e.selected = id
	return nil
}

// ClearSelection drops the current selection.
func (e *Editor) ClearSelection() { e.selected = "" }

// Selected returns the selected node, if any.
func (e *Editor) Selected() (Node, bool) {
	if e.selected == "" {
		return Node{}, false
	}
	return e.graph.Node(e.selected)
}

func (e *Editor) commit(op string, attrs ...any) {
	e.recompute()
	e.logger.Debug("Flow mutation committed", append([]any{slog.String("op", op)}, attrs...)...)
}

func (e *Editor) reject(op string, err error) (Views, error) {
	e.logger.Info("Flow mutation rejected", slog.String("op", op), slog.String("error", err.Error()))
	return e.views, err
}

func (e *Editor) recompute() {
	snap := e.graph.Snapshot()
	js, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		// unreachable: Graph only holds the three attribute types
		e.logger.Error("Encode snapshot", slog.String("error", err.Error()))
	}
	e.views = Views{Snapshot: snap, JSON: string(js), Script: Generate(snap)}
}
