package crewflow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidationRejected = errors.New("crewflow: validation rejected")
	ErrNotFound           = errors.New("crewflow: not found")
	ErrMalformedSnapshot  = errors.New("crewflow: malformed snapshot")

	ErrIllegalConnection = fmt.Errorf("%w: illegal connection", ErrValidationRejected)
	ErrDuplicateEdge     = fmt.Errorf("%w: edge already exists", ErrValidationRejected)
	ErrDuplicateEdgeID   = fmt.Errorf("%w: edge id already in use", ErrValidationRejected)
	ErrKindMismatch      = fmt.Errorf("%w: attributes do not match node kind", ErrValidationRejected)
	ErrUnknownKind       = fmt.Errorf("%w: unknown node kind", ErrValidationRejected)
	ErrUnknownPreset     = fmt.Errorf("%w: unknown preset", ErrValidationRejected)

	ErrNodeNotFound = fmt.Errorf("%w: node", ErrNotFound)
	ErrEdgeNotFound = fmt.Errorf("%w: edge", ErrNotFound)
	ErrFlowNotFound = fmt.Errorf("%w: flow", ErrNotFound)
)

// FlowSummary describes a saved flow without loading it.
type FlowSummary struct {
	ID        string    `json:"id"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the contract for persisting and restoring flow snapshots.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// SaveFlow replaces whatever is stored under flowID with snap.
	SaveFlow(ctx context.Context, flowID string, snap *Snapshot) error
	// GetFlow returns ErrFlowNotFound if nothing is stored under flowID.
	GetFlow(ctx context.Context, flowID string) (*Snapshot, error)
	// DeleteFlow is a no-op for unknown ids.
	DeleteFlow(ctx context.Context, flowID string) error
	ListFlows(ctx context.Context) ([]FlowSummary, error)
}
