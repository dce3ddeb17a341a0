package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/crewflow"
)

// insertNodes writes nodes in snapshot order; seq preserves that order.
func insertNodes(ctx context.Context, tx pgx.Tx, flowID string, nodes []crewflow.Node) error {
	for i, n := range nodes {
		data, err := crewflow.EncodeAttributes(n.Attributes)
		if err != nil {
			return fmt.Errorf("crewflow: encode node %s: %w", n.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO flow_nodes (flow_id, id, seq, kind, data) VALUES ($1, $2, $3, $4, $5)`,
			flowID, n.ID, i, string(n.Kind), data,
		); err != nil {
			return fmt.Errorf("crewflow: insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

// listNodes returns the nodes of a flow in saved order.
func (s *PGStore) listNodes(ctx context.Context, flowID string) ([]crewflow.Node, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, kind, data FROM flow_nodes WHERE flow_id = $1 ORDER BY seq`, flowID)
	if err != nil {
		return nil, fmt.Errorf("crewflow: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []crewflow.Node{}
	for rows.Next() {
		var (
			id, kind string
			data     []byte
		)
		if err := rows.Scan(&id, &kind, &data); err != nil {
			return nil, fmt.Errorf("crewflow: scan node: %w", err)
		}
		k, err := crewflow.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", crewflow.ErrMalformedSnapshot, id, err)
		}
		attrs, err := crewflow.DecodeAttributes(k, data)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
		nodes = append(nodes, crewflow.Node{ID: id, Kind: k, Attributes: attrs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crewflow: rows nodes: %w", err)
	}
	return nodes, nil
}
