// Package registry keeps per-repository build summaries so separate
// checkouts can share a cross-repo view of graph health. Backed by a JSON
// file by default, or Postgres when a DSN is configured.
package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/jsonutil"
)

// Summary is one repository's latest build outcome.
type Summary struct {
	Repo        string    `json:"repo"` // absolute project root
	Nodes       int       `json:"nodes"`
	Links       int       `json:"links"`
	Unresolved  int       `json:"unresolved"`
	LastRebuild time.Time `json:"lastRebuild"`
}

// Store persists summaries to a JSON file or, when constructed with a DSN,
// to Postgres with an LRU read cache in front.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byRepo   map[string]Summary

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Summary]
}

// New opens a file-backed store at path.
func New(path string) *Store {
	return &Store{
		path:   path,
		byRepo: make(map[string]Summary),
	}
}

// NewPostgres opens a Postgres-backed store.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Summary](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// Open picks the backend from the configured DSN, falling back to the file
// store when Postgres is unavailable.
func Open(path, dsn string) *Store {
	if strings.TrimSpace(dsn) == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

// Get returns the summary for a repo root.
func (s *Store) Get(repo string) (Summary, bool) {
	if s == nil {
		return Summary{}, false
	}
	if s.db != nil {
		return s.getDB(repo)
	}
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.byRepo[repo]
	return sum, ok
}

// Put records a summary, replacing any previous one for the same repo.
func (s *Store) Put(sum Summary) error {
	if s == nil {
		return fmt.Errorf("registry: store is nil")
	}
	if s.db != nil {
		return s.putDB(sum)
	}
	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRepo[sum.Repo] = sum
	return s.saveLocked()
}

// List returns every summary sorted by repo.
func (s *Store) List() ([]Summary, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		return s.listDB()
	}
	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.byRepo))
	for _, sum := range s.byRepo {
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Repo < out[j].Repo })
	return out, nil
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- file backend ---

func (s *Store) ensureLoaded() {
	s.loadOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		data, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var sums []Summary
		if err := jsonutil.Unmarshal(data, &sums); err != nil {
			return
		}
		for _, sum := range sums {
			s.byRepo[sum.Repo] = sum
		}
	})
}

func (s *Store) saveLocked() error {
	sums := make([]Summary, 0, len(s.byRepo))
	for _, sum := range s.byRepo {
		sums = append(sums, sum)
	}
	sort.Slice(sums, func(i, j int) bool { return sums[i].Repo < sums[j].Repo })
	data, err := jsonutil.MarshalNoEscapeIndent(sums, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0o644)
}

// --- postgres backend ---

func (s *Store) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
			CREATE TABLE IF NOT EXISTS docmeta_summaries (
				repo         TEXT PRIMARY KEY,
				nodes        INTEGER NOT NULL,
				links        INTEGER NOT NULL,
				unresolved   INTEGER NOT NULL,
				last_rebuild TIMESTAMPTZ NOT NULL
			)`)
	})
	return s.schemaErr
}

func (s *Store) getDB(repo string) (Summary, bool) {
	if sum, ok := s.cache.Get(repo); ok {
		return sum, true
	}
	if err := s.ensureSchema(); err != nil {
		return Summary{}, false
	}
	var sum Summary
	err := s.db.QueryRow(
		`SELECT repo, nodes, links, unresolved, last_rebuild FROM docmeta_summaries WHERE repo = $1`,
		repo,
	).Scan(&sum.Repo, &sum.Nodes, &sum.Links, &sum.Unresolved, &sum.LastRebuild)
	if err != nil {
		return Summary{}, false
	}
	s.cache.Add(repo, sum)
	return sum, true
}

func (s *Store) putDB(sum Summary) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO docmeta_summaries (repo, nodes, links, unresolved, last_rebuild)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (repo) DO UPDATE SET
			nodes = EXCLUDED.nodes,
			links = EXCLUDED.links,
			unresolved = EXCLUDED.unresolved,
			last_rebuild = EXCLUDED.last_rebuild`,
		sum.Repo, sum.Nodes, sum.Links, sum.Unresolved, sum.LastRebuild,
	)
	if err != nil {
		return err
	}
	s.cache.Add(sum.Repo, sum)
	return nil
}

func (s *Store) listDB() ([]Summary, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT repo, nodes, links, unresolved, last_rebuild FROM docmeta_summaries ORDER BY repo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Repo, &sum.Nodes, &sum.Links, &sum.Unresolved, &sum.LastRebuild); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
