package crewflow

import (
	"fmt"
	"strconv"
)

// Graph is the authoritative node and edge set of one flow. It is not safe
// for concurrent use; callers serialize mutations.
//
// Every mutating method either applies fully or returns an error and leaves
// the graph as it was.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[string]int // node id -> position in nodes
	seq   map[NodeKind]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
		seq:   make(map[NodeKind]int),
	}
}

// AddNode appends a node of kind carrying attrs and returns it. A nil attrs
// means the empty record for kind. The id is derived from the kind and a
// per-kind counter, skipping ids already in use. Only an unknown kind or
// attributes of another kind are refused.
func (g *Graph) AddNode(kind NodeKind, attrs Attributes) (Node, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Node{}, err
	}
	if attrs == nil {
		attrs, _ = EmptyAttributes(kind)
	}
	if attrs.Kind() != kind {
		return Node{}, fmt.Errorf("%w: %s attributes for a %s", ErrKindMismatch, attrs.Kind(), kind)
	}
	n := Node{ID: g.nextID(kind), Kind: kind, Attributes: attrs.clone()}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n.clone(), nil
}

func (g *Graph) nextID(kind NodeKind) string {
	for {
		g.seq[kind]++
		id := kind.String() + "-" + strconv.Itoa(g.seq[kind])
		if _, taken := g.index[id]; !taken {
			return id
		}
	}
}

// UpdateNode replaces the attributes of node id. The node keeps its kind, so
// attrs of a different kind are rejected with ErrKindMismatch.
func (g *Graph) UpdateNode(id string, attrs Attributes) error {
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	if attrs == nil || attrs.Kind() != g.nodes[i].Kind {
		return fmt.Errorf("%w: node %q is a %s", ErrKindMismatch, id, g.nodes[i].Kind)
	}
	g.nodes[i].Attributes = attrs.clone()
	return nil
}

// RemoveNodes deletes every node in ids as one batch, drops the edges that
// touched them and bridges the gap with Rewire. If any id is unknown nothing
// is removed.
func (g *Graph) RemoveNodes(ids []string) error {
	removed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := g.index[id]; !ok {
			return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
		}
		removed[id] = struct{}{}
	}
	if len(removed) == 0 {
		return nil
	}

	g.edges = Rewire(g.edges, removed)

	kept := make([]Node, 0, len(g.nodes)-len(removed))
	for _, n := range g.nodes {
		if _, gone := removed[n.ID]; !gone {
			kept = append(kept, n)
		}
	}
	g.nodes = kept
	g.reindex()
	return nil
}

// AddEdge connects source to target. An empty id is replaced by
// EdgeID(source, target), suffixed if another edge already holds it. The edge
// is rejected if an endpoint is missing, the pair is already present, a
// supplied id is taken, or IsLegal refuses the kind pair.
func (g *Graph) AddEdge(id, source, target string) (Edge, error) {
	si, ok := g.index[source]
	if !ok {
		return Edge{}, fmt.Errorf("%w: source %q", ErrNodeNotFound, source)
	}
	ti, ok := g.index[target]
	if !ok {
		return Edge{}, fmt.Errorf("%w: target %q", ErrNodeNotFound, target)
	}
	taken := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		if e.Source == source && e.Target == target {
			return Edge{}, fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, source, target)
		}
		taken[e.ID] = true
	}
	if id == "" {
		id = uniqueEdgeID(EdgeID(source, target), taken)
	} else if taken[id] {
		return Edge{}, fmt.Errorf("%w: %q", ErrDuplicateEdgeID, id)
	}
	sk, tk := g.nodes[si].Kind, g.nodes[ti].Kind
	if !IsLegal(sk, tk) {
		return Edge{}, fmt.Errorf("%w: %s cannot connect to %s", ErrIllegalConnection, sk, tk)
	}

	e := Edge{ID: id, Source: source, Target: target}
	g.edges = append(g.edges, e)
	return e, nil
}

// RemoveEdge deletes the edge with the given id.
func (g *Graph) RemoveEdge(id string) error {
	for i, e := range g.edges {
		if e.ID == id {
			g.edges = append(g.edges[:i:i], g.edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
}

// Node returns a copy of node id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// Incomers returns the ids of nodes with an edge into id, in edge order.
func (g *Graph) Incomers(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e.Source)
		}
	}
	return out
}

// Outgoers returns the ids of nodes id has an edge to, in edge order.
func (g *Graph) Outgoers(id string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Snapshot returns a deep copy of the current nodes and edges.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Nodes: make([]Node, len(g.nodes)),
		Edges: make([]Edge, len(g.edges)),
	}
	for i, n := range g.nodes {
		s.Nodes[i] = n.clone()
	}
	copy(s.Edges, g.edges)
	return s
}

// Load replaces the graph contents with snap after checking it with
// Snapshot.Validate. On error the graph is unchanged.
func (g *Graph) Load(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	fresh := snap.Clone()
	g.nodes = fresh.Nodes
	g.edges = fresh.Edges
	g.reindex()
	return nil
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
}
