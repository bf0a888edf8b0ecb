package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Node is a knowledge graph vertex.
type Node struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Edge is a directed, labeled relation between two nodes.
type Edge struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Relation  string    `json:"relation"`
	CreatedAt time.Time `json:"created_at"`
}

// AddNode inserts a graph node. Duplicate names and exceeding the node
// cap are errors.
func (s *Store) AddNode(ctx context.Context, name, nodeType string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("node name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM graph_nodes`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count nodes: %w", err)
	}
	if max := s.cfg.MaxGraphNodes; max > 0 && count >= max {
		return fmt.Errorf("knowledge graph node cap reached (%d)", max)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO graph_nodes (name, node_type, created_at) VALUES (?, ?, ?)`,
		name, nodeType, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("node %q already exists", name)
		}
		return fmt.Errorf("failed to insert node: %w", err)
	}
	return nil
}

// AddEdge inserts a directed edge. Both endpoints must already exist as
// nodes; exceeding the edge cap is an error.
func (s *Store) AddEdge(ctx context.Context, from, to, relation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{from, to} {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM graph_nodes WHERE name = ?`, name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check node: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("edge endpoint %q does not exist", name)
		}
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM graph_edges`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count edges: %w", err)
	}
	if max := s.cfg.MaxGraphEdges; max > 0 && count >= max {
		return fmt.Errorf("knowledge graph edge cap reached (%d)", max)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO graph_edges (id, from_node, to_node, relation, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), from, to, relation, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert edge: %w", err)
	}
	return nil
}

// Neighbors returns the edges leaving a node.
func (s *Store) Neighbors(ctx context.Context, name string) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_node, to_node, relation, created_at FROM graph_edges WHERE from_node = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.From, &e.To, &e.Relation, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Nodes returns all graph nodes.
func (s *Store) Nodes(ctx context.Context) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name, node_type, created_at FROM graph_nodes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.Name, &n.Type, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
