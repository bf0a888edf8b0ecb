// Package memory provides the persistent mission memory: a sqlite-backed
// entry store with importance-based eviction, a small knowledge graph, and
// embedding-ranked recall with keyword fallback.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"hydra/internal/config"
	"hydra/internal/embedding"
	"hydra/internal/logging"
)

// Entry is one stored memory.
type Entry struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags,omitempty"`
	Importance float64   `json:"importance"`
	CreatedAt  time.Time `json:"created_at"`

	embedding []float32
}

// Store manages the memory database. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	dbPath string
	cfg    config.MemoryConfig
	engine embedding.Engine
	mu     sync.RWMutex
}

// NewStore creates or opens the memory store under <workspace>/.hydra.
// engine may be nil; recall then uses keyword scoring only.
func NewStore(workspace string, cfg config.MemoryConfig, engine embedding.Engine) (*Store, error) {
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(workspace, ".hydra", "memory.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
		cfg:    cfg,
		engine: engine,
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		tags_json TEXT,
		importance REAL NOT NULL,
		embedding_json TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_category ON memories(category);
	CREATE INDEX IF NOT EXISTS idx_memories_importance ON memories(importance);

	CREATE TABLE IF NOT EXISTS graph_nodes (
		name TEXT PRIMARY KEY,
		node_type TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS graph_edges (
		id TEXT PRIMARY KEY,
		from_node TEXT NOT NULL REFERENCES graph_nodes(name),
		to_node TEXT NOT NULL REFERENCES graph_nodes(name),
		relation TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Remember stores a memory entry. Content over the configured length cap
// is rejected. When the entry cap is reached the lowest-importance entry
// is evicted first.
func (s *Store) Remember(ctx context.Context, content, category string, tags []string, importance float64) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("memory content is empty")
	}
	if max := s.cfg.MaxContentChars; max > 0 && len(content) > max {
		return fmt.Errorf("memory content exceeds %d chars", max)
	}
	if importance < 0 {
		importance = 0
	}
	if importance > 1 {
		importance = 1
	}

	var embJSON []byte
	if s.engine != nil {
		if vec, err := s.engine.Embed(ctx, content); err != nil {
			// Recall degrades to keyword scoring for this entry.
			logging.MemoryError("[Memory] Remember: embed failed, storing without vector: %v", err)
		} else {
			embJSON, _ = json.Marshal(vec)
		}
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.evictIfFullLocked(ctx); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memories (id, content, category, tags_json, importance, embedding_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), content, category, string(tagsJSON), importance, string(embJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	logging.MemoryDebug("[Memory] Remember: stored category=%s importance=%.2f len=%d", category, importance, len(content))
	return nil
}

func (s *Store) evictIfFullLocked(ctx context.Context) error {
	max := s.cfg.MaxEntries
	if max <= 0 {
		return nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count memories: %w", err)
	}
	if count < max {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM memories WHERE id IN (
			SELECT id FROM memories ORDER BY importance ASC, created_at ASC LIMIT ?
		)`, count-max+1)
	if err != nil {
		return fmt.Errorf("failed to evict memories: %w", err)
	}
	logging.Memory("[Memory] Evicted %d low-importance entries (cap %d)", count-max+1, max)
	return nil
}

// Search returns up to limit entries matching the query, best first.
// Ranking uses embedding similarity when vectors are available, keyword
// scoring otherwise. category filters when non-empty.
func (s *Store) Search(ctx context.Context, query string, limit int, category string) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	entries, err := s.loadEntriesLocked(ctx, category)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if s.engine != nil {
		if queryVec, err := s.engine.Embed(ctx, query); err == nil {
			if ranked, ok := rankByEmbedding(queryVec, entries, limit); ok {
				return ranked, nil
			}
		} else {
			logging.MemoryError("[Memory] Search: query embed failed, using keyword scoring: %v", err)
		}
	}
	return rankByKeywords(query, entries, limit), nil
}

func (s *Store) loadEntriesLocked(ctx context.Context, category string) ([]Entry, error) {
	q := `SELECT id, content, category, tags_json, importance, embedding_json, created_at FROM memories`
	args := []any{}
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tagsJSON, embJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.Content, &e.Category, &tagsJSON, &e.Importance, &embJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			json.Unmarshal([]byte(tagsJSON.String), &e.Tags)
		}
		if embJSON.Valid && embJSON.String != "" {
			json.Unmarshal([]byte(embJSON.String), &e.embedding)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// rankByEmbedding orders entries by cosine similarity to the query vector.
// Returns ok=false when no entry carries a vector.
func rankByEmbedding(queryVec []float32, entries []Entry, limit int) ([]Entry, bool) {
	var withVec []Entry
	var corpus [][]float32
	for _, e := range entries {
		if len(e.embedding) > 0 {
			withVec = append(withVec, e)
			corpus = append(corpus, e.embedding)
		}
	}
	if len(withVec) == 0 {
		return nil, false
	}

	results := embedding.FindTopK(queryVec, corpus, limit)
	ranked := make([]Entry, 0, len(results))
	for _, r := range results {
		ranked = append(ranked, withVec[r.Index])
	}
	return ranked, true
}

// rankByKeywords scores entries by query-word overlap weighted by
// importance.
func rankByKeywords(query string, entries []Entry, limit int) []Entry {
	words := strings.Fields(strings.ToLower(query))

	type scored struct {
		entry Entry
		score float64
	}
	var matches []scored
	for _, e := range entries {
		lower := strings.ToLower(e.Content)
		hits := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		for _, tag := range e.Tags {
			for _, w := range words {
				if strings.Contains(strings.ToLower(tag), w) {
					hits++
				}
			}
		}
		if hits == 0 {
			continue
		}
		matches = append(matches, scored{entry: e, score: float64(hits) * (1 + e.Importance)})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Entry, len(matches))
	for i, m := range matches {
		out[i] = m.entry
	}
	return out
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&count)
	return count, err
}
