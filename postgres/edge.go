package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/crewflow"
)

// insertEdges writes edges in snapshot order; seq preserves that order.
func insertEdges(ctx context.Context, tx pgx.Tx, flowID string, edges []crewflow.Edge) error {
	for i, e := range edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO flow_edges (flow_id, id, seq, source, target) VALUES ($1, $2, $3, $4, $5)`,
			flowID, e.ID, i, e.Source, e.Target,
		); err != nil {
			return fmt.Errorf("crewflow: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns the edges of a flow in saved order.
func (s *PGStore) listEdges(ctx context.Context, flowID string) ([]crewflow.Edge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, source, target FROM flow_edges WHERE flow_id = $1 ORDER BY seq`, flowID)
	if err != nil {
		return nil, fmt.Errorf("crewflow: list edges: %w", err)
	}
	defer rows.Close()

	edges := []crewflow.Edge{}
	for rows.Next() {
		var e crewflow.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("crewflow: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crewflow: rows edges: %w", err)
	}
	return edges, nil
}
