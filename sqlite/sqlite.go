// Package sqlite implements crewflow.Store on a local SQLite file, the
// single-user counterpart of the postgres adapter.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meikuraledutech/crewflow"
)

//go:embed schema.sql
var schemaSQL string

// Store persists flows in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path and applies the pragmas
// the store relies on. Call CreateSchema before first use.
//
// The connection pool is limited to one connection: SQLite has a single
// writer, and foreign_keys is a per-connection pragma.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("crewflow: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("crewflow: connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("crewflow: execute %q: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the flow tables if they don't exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// DropSchema drops the flow tables.
func (s *Store) DropSchema(ctx context.Context) error {
	for _, table := range []string{"flow_edges", "flow_nodes", "flows"} {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("crewflow: drop %s: %w", table, err)
		}
	}
	return nil
}

// SaveFlow stores a full snapshot under flowID in one transaction, replacing
// whatever was there.
func (s *Store) SaveFlow(ctx context.Context, flowID string, snap *crewflow.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("crewflow: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO flows (id, updated_at) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at`,
		flowID, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("crewflow: upsert flow: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flow_edges WHERE flow_id = ?`, flowID); err != nil {
		return fmt.Errorf("crewflow: delete edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flow_nodes WHERE flow_id = ?`, flowID); err != nil {
		return fmt.Errorf("crewflow: delete nodes: %w", err)
	}

	for i, n := range snap.Nodes {
		data, err := crewflow.EncodeAttributes(n.Attributes)
		if err != nil {
			return fmt.Errorf("crewflow: encode node %s: %w", n.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flow_nodes (flow_id, id, seq, kind, data) VALUES (?, ?, ?, ?, ?)`,
			flowID, n.ID, i, string(n.Kind), string(data),
		); err != nil {
			return fmt.Errorf("crewflow: insert node %s: %w", n.ID, err)
		}
	}
	for i, e := range snap.Edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flow_edges (flow_id, id, seq, source, target) VALUES (?, ?, ?, ?, ?)`,
			flowID, e.ID, i, e.Source, e.Target,
		); err != nil {
			return fmt.Errorf("crewflow: insert edge %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("crewflow: commit: %w", err)
	}
	return nil
}

// GetFlow retrieves the snapshot stored under flowID.
func (s *Store) GetFlow(ctx context.Context, flowID string) (*crewflow.Snapshot, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM flows WHERE id = ?`, flowID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", crewflow.ErrFlowNotFound, flowID)
	}
	if err != nil {
		return nil, fmt.Errorf("crewflow: get flow: %w", err)
	}

	snap := &crewflow.Snapshot{Nodes: []crewflow.Node{}, Edges: []crewflow.Edge{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, data FROM flow_nodes WHERE flow_id = ? ORDER BY seq`, flowID)
	if err != nil {
		return nil, fmt.Errorf("crewflow: query nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var nodeID, kind, data string
		if err := rows.Scan(&nodeID, &kind, &data); err != nil {
			return nil, fmt.Errorf("crewflow: scan node: %w", err)
		}
		k, err := crewflow.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", crewflow.ErrMalformedSnapshot, nodeID, err)
		}
		attrs, err := crewflow.DecodeAttributes(k, []byte(data))
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nodeID, err)
		}
		snap.Nodes = append(snap.Nodes, crewflow.Node{ID: nodeID, Kind: k, Attributes: attrs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crewflow: rows nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx,
		`SELECT id, source, target FROM flow_edges WHERE flow_id = ? ORDER BY seq`, flowID)
	if err != nil {
		return nil, fmt.Errorf("crewflow: query edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var e crewflow.Edge
		if err := edgeRows.Scan(&e.ID, &e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("crewflow: scan edge: %w", err)
		}
		snap.Edges = append(snap.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("crewflow: rows edges: %w", err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// DeleteFlow removes a flow; unknown ids are not an error.
func (s *Store) DeleteFlow(ctx context.Context, flowID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM flows WHERE id = ?`, flowID); err != nil {
		return fmt.Errorf("crewflow: delete flow: %w", err)
	}
	return nil
}

// ListFlows returns every stored flow, most recently saved first.
func (s *Store) ListFlows(ctx context.Context) ([]crewflow.FlowSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
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
