// Package memory provides an in-process implementation of crewflow.Store.
// Flows live only as long as the Store value; it backs tests and the
// "memory" store driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/meikuraledutech/crewflow"
)

type entry struct {
	snap      *crewflow.Snapshot
	updatedAt time.Time
}

// Store keeps deep copies of saved snapshots behind a RWMutex.
type Store struct {
	mu    sync.RWMutex
	flows map[string]entry
	now   func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{flows: make(map[string]entry), now: time.Now}
}

// CreateSchema is a no-op.
func (s *Store) CreateSchema(ctx context.Context) error { return nil }

// DropSchema forgets every flow.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows = make(map[string]entry)
	return nil
}

func (s *Store) SaveFlow(ctx context.Context, flowID string, snap *crewflow.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[flowID] = entry{snap: snap.Clone(), updatedAt: s.now()}
	return nil
}

func (s *Store) GetFlow(ctx context.Context, flowID string) (*crewflow.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.flows[flowID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", crewflow.ErrFlowNotFound, flowID)
	}
	return e.snap.Clone(), nil
}

func (s *Store) DeleteFlow(ctx context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, flowID)
	return nil
}

// ListFlows returns every flow, most recently saved first.
func (s *Store) ListFlows(ctx context.Context) ([]crewflow.FlowSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flows := make([]crewflow.FlowSummary, 0, len(s.flows))
	for id, e := range s.flows {
		flows = append(flows, crewflow.FlowSummary{
			ID:        id,
			Nodes:     len(e.snap.Nodes),
			Edges:     len(e.snap.Edges),
			UpdatedAt: e.updatedAt,
		})
	}
	sort.Slice(flows, func(i, j int) bool {
		if !flows[i].UpdatedAt.Equal(flows[j].UpdatedAt) {
			return flows[i].UpdatedAt.After(flows[j].UpdatedAt)
		}
		return flows[i].ID < flows[j].ID
	})
	return flows, nil
}
