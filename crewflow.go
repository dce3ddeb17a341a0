// Package crewflow is the editing engine behind a visual crew builder: a
// typed graph of crews, agents and tasks, the rules for connecting them, the
// rewiring performed when nodes are deleted, and the script generated from
// the current graph.
package crewflow

import "fmt"

// NodeKind is the closed set of node types a flow may contain.
type NodeKind string

const (
	// KindOrchestrator coordinates workers and work items (a crew).
	KindOrchestrator NodeKind = "crew"
	// KindWorker is an actor with a role, goal, backstory and tools (an agent).
	KindWorker NodeKind = "agent"
	// KindWorkItem is a unit of work with an expected output (a task).
	KindWorkItem NodeKind = "task"
)

// Kinds lists every NodeKind in hierarchy order.
var Kinds = []NodeKind{KindOrchestrator, KindWorker, KindWorkItem}

// ParseKind maps a wire type string onto a NodeKind.
func ParseKind(s string) (NodeKind, error) {
	switch k := NodeKind(s); k {
	case KindOrchestrator, KindWorker, KindWorkItem:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k NodeKind) String() string { return string(k) }

// Attributes is the kind-specific record carried by a node. The set of
// implementations is closed: OrchestratorAttrs, WorkerAttrs, WorkItemAttrs.
type Attributes interface {
	Kind() NodeKind
	clone() Attributes
}

// OrchestratorAttrs are the fields of a crew node.
type OrchestratorAttrs struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WorkerAttrs are the fields of an agent node. Tools keeps insertion order
// because the generated script lists them in that order.
type WorkerAttrs struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Goal      string   `json:"goal"`
	Backstory string   `json:"backstory"`
	Tools     ToolList `json:"tools"`
}

// WorkItemAttrs are the fields of a task node.
type WorkItemAttrs struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ExpectedOutput string `json:"expectedOutput"`
}

func (OrchestratorAttrs) Kind() NodeKind { return KindOrchestrator }
func (WorkerAttrs) Kind() NodeKind       { return KindWorker }
func (WorkItemAttrs) Kind() NodeKind     { return KindWorkItem }

func (a OrchestratorAttrs) clone() Attributes { return a }
func (a WorkItemAttrs) clone() Attributes     { return a }
func (a WorkerAttrs) clone() Attributes {
	if a.Tools != nil {
		a.Tools = append(ToolList{}, a.Tools...)
	}
	return a
}

// EmptyAttributes returns the zero attribute record for kind.
func EmptyAttributes(kind NodeKind) (Attributes, error) {
	switch kind {
	case KindOrchestrator:
		return OrchestratorAttrs{}, nil
	case KindWorker:
		return WorkerAttrs{Tools: ToolList{}}, nil
	case KindWorkItem:
		return WorkItemAttrs{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Node is a vertex of the flow. ID and Kind never change after creation.
type Node struct {
	ID         string
	Kind       NodeKind
	Attributes Attributes
}

func (n Node) clone() Node {
	if n.Attributes != nil {
		n.Attributes = n.Attributes.clone()
	}
	return n
}

// Edge is a directed connection from Source to Target.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeID is the identifier given to edges the engine creates itself.
func EdgeID(source, target string) string {
	return source + "->" + target
}

type edgeKey struct{ source, target string }

func (e Edge) key() edgeKey { return edgeKey{e.Source, e.Target} }
