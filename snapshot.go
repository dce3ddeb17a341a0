package crewflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Snapshot is the complete node and edge set of a flow at one point in time.
// Its JSON form is the persisted and exported representation:
//
//	{"nodes": [{"id", "type", "data": {"type", ...}}], "edges": [{"id", "source", "target"}]}
//
// Fields the engine does not know (position, selected, animated...) are
// ignored on decode and never written back.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// DecodeSnapshot parses and validates a snapshot. Every failure wraps
// ErrMalformedSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		if errors.Is(err, ErrMalformedSnapshot) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// UnmarshalJSON requires a JSON object; absent node or edge lists are empty.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: snapshot must be a JSON object", ErrMalformedSnapshot)
	}
	var raw struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Nodes, s.Edges = raw.Nodes, raw.Edges
	return nil
}

// MarshalJSON always writes both lists, empty rather than null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	nodes, edges := s.Nodes, s.Edges
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return json.Marshal(struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}{nodes, edges})
}

// Validate checks node id uniqueness, attribute/kind agreement, that every
// edge has an id and resolves both endpoints, and that neither edge ids nor
// (source, target) pairs repeat. Kind pairs are not checked against IsLegal,
// since rewiring may legitimately have produced edges outside the whitelist.
func (s *Snapshot) Validate() error {
	ids := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d has no id", ErrMalformedSnapshot, i)
		}
		if ids[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrMalformedSnapshot, n.ID)
		}
		ids[n.ID] = true
		if _, err := ParseKind(string(n.Kind)); err != nil {
			return fmt.Errorf("%w: node %q: %v", ErrMalformedSnapshot, n.ID, err)
		}
		if n.Attributes == nil || n.Attributes.Kind() != n.Kind {
			return fmt.Errorf("%w: node %q: attributes do not match type %s", ErrMalformedSnapshot, n.ID, n.Kind)
		}
	}

	edgeIDs := make(map[string]bool, len(s.Edges))
	pairs := make(map[edgeKey]bool, len(s.Edges))
	for i, e := range s.Edges {
		switch {
		case e.ID == "":
			return fmt.Errorf("%w: edge %d has no id", ErrMalformedSnapshot, i)
		case e.Source == "" || e.Target == "":
			return fmt.Errorf("%w: edge %q is missing an endpoint", ErrMalformedSnapshot, e.ID)
		case !ids[e.Source]:
			return fmt.Errorf("%w: edge %q: unknown source %q", ErrMalformedSnapshot, e.ID, e.Source)
		case !ids[e.Target]:
			return fmt.Errorf("%w: edge %q: unknown target %q", ErrMalformedSnapshot, e.ID, e.Target)
		case edgeIDs[e.ID]:
			return fmt.Errorf("%w: duplicate edge id %q", ErrMalformedSnapshot, e.ID)
		case pairs[e.key()]:
			return fmt.Errorf("%w: duplicate edge %s -> %s", ErrMalformedSnapshot, e.Source, e.Target)
		}
		edgeIDs[e.ID] = true
		pairs[e.key()] = true
	}
	return nil
}

// Node looks a node up by id.
func (s *Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.clone()
	}
	copy(out.Edges, s.Edges)
	return out
}

type wireNode struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON writes the node in snapshot form.
func (n Node) MarshalJSON() ([]byte, error) {
	data, err := EncodeAttributes(n.Attributes)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.ID, err)
	}
	return json.Marshal(wireNode{ID: n.ID, Type: string(n.Kind), Data: data})
}

// UnmarshalJSON reads the node from snapshot form.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: node: %v", ErrMalformedSnapshot, err)
	}
	if w.ID == "" {
		return fmt.Errorf("%w: node without id", ErrMalformedSnapshot)
	}
	kind, err := ParseKind(w.Type)
	if err != nil {
		return fmt.Errorf("%w: node %q: %v", ErrMalformedSnapshot, w.ID, err)
	}
	attrs, err := DecodeAttributes(kind, w.Data)
	if err != nil {
		return fmt.Errorf("node %q: %w", w.ID, err)
	}
	*n = Node{ID: w.ID, Kind: kind, Attributes: attrs}
	return nil
}

// EncodeAttributes writes the "data" object of a node: the kind under
// "type" followed by the kind's own fields.
func EncodeAttributes(a Attributes) (json.RawMessage, error) {
	switch v := a.(type) {
	case OrchestratorAttrs:
		return json.Marshal(struct {
			Type NodeKind `json:"type"`
			OrchestratorAttrs
		}{v.Kind(), v})
	case WorkerAttrs:
		if v.Tools == nil {
			v.Tools = ToolList{}
		}
		return json.Marshal(struct {
			Type NodeKind `json:"type"`
			WorkerAttrs
		}{v.Kind(), v})
	case WorkItemAttrs:
		return json.Marshal(struct {
			Type NodeKind `json:"type"`
			WorkItemAttrs
		}{v.Kind(), v})
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, a)
}

// DecodeAttributes reads a "data" object for a node of the given kind.
// Missing fields are empty strings; unknown fields are ignored. A "type"
// inside data that disagrees with kind is malformed.
func DecodeAttributes(kind NodeKind, data json.RawMessage) (Attributes, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: data must be a JSON object", ErrMalformedSnapshot)
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: data.type: %v", ErrMalformedSnapshot, err)
	}
	if probe.Type != "" && probe.Type != string(kind) {
		return nil, fmt.Errorf("%w: data.type %q disagrees with node type %q", ErrMalformedSnapshot, probe.Type, kind)
	}

	var (
		attrs Attributes
		err   error
	)
	switch kind {
	case KindOrchestrator:
		var v OrchestratorAttrs
		err = json.Unmarshal(data, &v)
		attrs = v
	case KindWorker:
		var v WorkerAttrs
		err = json.Unmarshal(data, &v)
		if v.Tools == nil {
			v.Tools = ToolList{}
		}
		attrs = v
	case KindWorkItem:
		var v WorkItemAttrs
		err = json.Unmarshal(data, &v)
		attrs = v
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", ErrMalformedSnapshot, kind, err)
	}
	return attrs, nil
}
