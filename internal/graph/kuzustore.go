//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/dusk-indust/untangle/internal/conflict"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the leaf directory itself.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Conflict(
		id STRING,
		path STRING,
		seq INT64,
		start_line INT64,
		start_char INT64,
		end_line INT64,
		end_char INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS RELATED(FROM Conflict TO Conflict, weight DOUBLE, seq INT64)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// SaveGraph deletes the previous snapshot and writes every node and edge of
// g, recording insertion order in seq columns.
func (s *KuzuStore) SaveGraph(ctx context.Context, g *Graph) error {
	if err := s.exec("MATCH (c:Conflict) DETACH DELETE c", nil); err != nil {
		return fmt.Errorf("kuzu: clear snapshot: %w", err)
	}
	for i, n := range g.Nodes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.exec(
			`CREATE (c:Conflict {
				id: $id,
				path: $path,
				seq: $seq,
				start_line: $sl,
				start_char: $sc,
				end_line: $el,
				end_char: $ec
			})`,
			map[string]any{
				"id":   n.ID,
				"path": n.Path,
				"seq":  int64(i),
				"sl":   int64(n.Range.Start.Line),
				"sc":   int64(n.Range.Start.Character),
				"el":   int64(n.Range.End.Line),
				"ec":   int64(n.Range.End.Character),
			},
		)
		if err != nil {
			return err
		}
	}
	for i, e := range g.Edges() {
		err := s.exec(
			`MATCH (a:Conflict {id: $src}), (b:Conflict {id: $dst})
			CREATE (a)-[:RELATED {weight: $w, seq: $seq}]->(b)`,
			map[string]any{
				"src": e.SourceID,
				"dst": e.TargetID,
				"w":   e.Weight,
				"seq": int64(i),
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ---------- Read operations ----------

// LoadGraph reads the stored snapshot back in insertion order.
func (s *KuzuStore) LoadGraph(_ context.Context) (*Graph, error) {
	rows, err := s.query(
		`MATCH (c:Conflict)
		RETURN c.id, c.path, c.start_line, c.start_char, c.end_line, c.end_char
		ORDER BY c.seq`, nil)
	if err != nil {
		return nil, err
	}
	nodes := make([]ConflictNode, 0, len(rows))
	for _, r := range rows {
		nodes = append(nodes, ConflictNode{
			ID:   toString(r[0]),
			Path: toString(r[1]),
			Range: conflict.Range{
				Start: conflict.Position{Line: toInt(r[2]), Character: toInt(r[3])},
				End:   conflict.Position{Line: toInt(r[4]), Character: toInt(r[5])},
			},
		})
	}

	rows, err = s.query(
		`MATCH (a:Conflict)-[r:RELATED]->(b:Conflict)
		RETURN a.id, b.id, r.weight
		ORDER BY r.seq`, nil)
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, Edge{SourceID: toString(r[0]), TargetID: toString(r[1]), Weight: toFloat64(r[2])})
	}
	return assemble(nodes, edges), nil
}

// Neighbors returns the stored neighbors of id in either direction.
func (s *KuzuStore) Neighbors(_ context.Context, id string) ([]Neighbor, error) {
	rows, err := s.query(
		`MATCH (a:Conflict {id: $id})-[r:RELATED]-(b:Conflict)
		RETURN b.id, r.weight, r.seq
		ORDER BY r.seq`,
		map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	out := make([]Neighbor, 0, len(rows))
	for _, r := range rows {
		out = append(out, Neighbor{ID: toString(r[0]), Weight: toFloat64(r[1])})
	}
	return out, nil
}

// Stats summarizes the stored snapshot.
func (s *KuzuStore) Stats(ctx context.Context) (*GraphStats, error) {
	g, err := s.LoadGraph(ctx)
	if err != nil {
		return nil, err
	}
	stats := g.Stats()
	return &stats, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: query: %w", err)
		}
		res.Close()
		return nil
	}

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
