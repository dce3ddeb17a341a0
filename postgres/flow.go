package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/crewflow"
)

// SaveFlow stores a full snapshot under flowID in one transaction, replacing
// whatever was there. The snapshot is validated first.
func (s *PGStore) SaveFlow(ctx context.Context, flowID string, snap *crewflow.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("crewflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO flows (id) VALUES ($1) ON CONFLICT (id) DO UPDATE SET updated_at = NOW()`, flowID,
	); err != nil {
		return fmt.Errorf("crewflow: upsert flow: %w", err)
	}

	// Replace semantics: edges first, they reference nodes.
	if _, err := tx.Exec(ctx, `DELETE FROM flow_edges WHERE flow_id = $1`, flowID); err != nil {
		return fmt.Errorf("crewflow: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flow_nodes WHERE flow_id = $1`, flowID); err != nil {
		return fmt.Errorf("crewflow: delete nodes: %w", err)
	}

	if err := insertNodes(ctx, tx, flowID, snap.Nodes); err != nil {
		return err
	}
	if err := insertEdges(ctx, tx, flowID, snap.Edges); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("crewflow: commit: %w", err)
	}
	return nil
}

// GetFlow retrieves the snapshot stored under flowID.
// Returns crewflow.ErrFlowNotFound if there is none.
func (s *PGStore) GetFlow(ctx context.Context, flowID string) (*crewflow.Snapshot, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT TRUE FROM flows WHERE id = $1`, flowID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", crewflow.ErrFlowNotFound, flowID)
		}
		return nil, fmt.Errorf("crewflow: get flow: %w", err)
	}

	nodes, err := s.listNodes(ctx, flowID)
	if err != nil {
		return nil, err
	}
	edges, err := s.listEdges(ctx, flowID)
	if err != nil {
		return nil, err
	}

	snap := &crewflow.Snapshot{Nodes: nodes, Edges: edges}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// DeleteFlow removes a flow with its nodes and edges.
// No error if the flowID doesn't exist.
func (s *PGStore) DeleteFlow(ctx context.Context, flowID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM flows WHERE id = $1`, flowID); err != nil {
		return fmt.Errorf("crewflow: delete flow: %w", err)
	}
	return nil
}

// ListFlows returns every stored flow, most recently saved first.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListFlows(ctx context.Context) ([]crewflow.FlowSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.updated_at,
		       (SELECT COUNT(*) FROM flow_nodes n WHERE n.flow_id = f.id),
		       (SELECT COUNT(*) FROM flow_edges e WHERE e.flow_id = f.id)
		FROM flows f
		ORDER BY f.updated_at DESC, f.id`)
	if err != nil {
		return nil, fmt.Errorf("crewflow: list flows: %w", err)
	}
	defer rows.Close()

	flows := []crewflow.FlowSummary{}
	for rows.Next() {
		var f crewflow.FlowSummary
		if err := rows.Scan(&f.ID, &f.UpdatedAt, &f.Nodes, &f.Edges); err != nil {
			return nil, fmt.Errorf("crewflow: scan flow: %w", err)
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crewflow: rows flows: %w", err)
	}
	return flows, nil
}
