// Package signature implements the persisted threat signature store:
// known-bad digests with metadata plus the textual pattern rule set the
// classifier consults. Mutations are single-writer and persisted
// synchronously; scan workers read through immutable snapshots.
package signature

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Krish948/IronWall/internal/rules"
	"github.com/Krish948/IronWall/internal/types"
)

const schemaVersion = "1.0"

// Entry holds the metadata stored for one known-bad digest.
type Entry struct {
	Name        string         `json:"name"`
	Family      string         `json:"family"`
	Severity    types.Severity `json:"severity"`
	Description string         `json:"description,omitempty"`
	AddedAt     time.Time      `json:"added_at"`
}

// Label renders the entry the way scan results display it.
func (e Entry) Label() string {
	return fmt.Sprintf("%s: %s", e.Family, e.Name)
}

// Match is one pattern rule hit inside a scanned text.
type Match struct {
	RuleID   string
	RuleName string
	Category string
	Family   string
	Severity types.Severity
	Matched  string
}

// storeFile is the persisted JSON schema: a digest map, a flat list of
// user-added signature strings, and versioning metadata.
type storeFile struct {
	Version     string           `json:"version"`
	LastUpdated time.Time        `json:"last_updated"`
	Hashes      map[string]Entry `json:"hashes"`
	Patterns    []string         `json:"patterns"`
}

// Store is the signature database backed by a JSON file on disk.
type Store struct {
	mu       sync.RWMutex
	path     string
	hashes   map[string]Entry
	patterns []string
	rules    []*rules.CompiledRule
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithRules replaces the builtin rule set, mainly for tests.
func WithRules(compiled []*rules.CompiledRule) Option {
	return func(s *Store) { s.rules = compiled }
}

// Open creates a Store backed by path and loads it. A missing file
// seeds the default threat corpus; a corrupt file logs a warning and
// falls back to defaults. Open never fails because of store content;
// only a broken builtin rule corpus is a hard error.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		hashes: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.rules == nil {
		compiled, err := rules.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("compiling builtin rules: %w", err)
		}
		s.rules = compiled
	}
	s.load()
	return s, nil
}

// load reads the persisted file, failing soft to the seeded defaults.
func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("signature store unreadable, using defaults", "path", s.path, "err", err)
		}
		s.seedDefaultsLocked()
		return
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.log.Warn("signature store corrupt, using defaults",
			"path", s.path, "err", fmt.Errorf("%w: %v", types.ErrCorruptStore, err))
		s.seedDefaultsLocked()
		return
	}

	if f.Hashes != nil {
		s.hashes = f.Hashes
	}
	s.patterns = f.Patterns
	s.seedDefaultsLocked() // fills gaps without clobbering edits
}

// save persists the store. Callers hold the write lock.
func (s *Store) save() error {
	if info, err := os.Lstat(s.path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("signature store is a symlink (rejected): %s", s.path)
		}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	f := storeFile{
		Version:     schemaVersion,
		LastUpdated: time.Now().UTC(),
		Hashes:      s.hashes,
		Patterns:    s.patterns,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// CheckHash looks up a digest. Constant-time map lookup.
func (s *Store) CheckHash(digest string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.hashes[digest]
	return e, ok
}

// CheckPatterns evaluates the categorized rule set plus the flat
// signature list against text, returning every category match.
func (s *Store) CheckPatterns(text string) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return evalPatterns(s.rules, s.patterns, text)
}

// Add inserts or replaces a digest entry and persists immediately.
func (s *Store) Add(digest string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}
	s.hashes[digest] = e
	return s.save()
}

// Remove deletes a digest entry and persists immediately.
// Removing an unknown digest returns types.ErrNotFound.
func (s *Store) Remove(digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[digest]; !ok {
		return fmt.Errorf("signature %s: %w", digest, types.ErrNotFound)
	}
	delete(s.hashes, digest)
	return s.save()
}

// AddPattern appends a flat signature string and persists immediately.
// Duplicates are ignored.
func (s *Store) AddPattern(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patterns {
		if p == pattern {
			return nil
		}
	}
	s.patterns = append(s.patterns, pattern)
	return s.save()
}

// RemovePattern removes a flat signature string and persists immediately.
func (s *Store) RemovePattern(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.patterns {
		if p == pattern {
			s.patterns = append(s.patterns[:i], s.patterns[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("pattern %q: %w", pattern, types.ErrNotFound)
}

// Entries returns a copy of all digest entries keyed by digest.
func (s *Store) Entries() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry, len(s.hashes))
	for k, v := range s.hashes {
		out[k] = v
	}
	return out
}

// Stats summarizes the store for display.
type Stats struct {
	Hashes   int            `json:"hashes"`
	Patterns int            `json:"patterns"`
	Rules    int            `json:"rules"`
	Families map[string]int `json:"families"`
}

// Stats returns counts by family for the loaded store.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Hashes:   len(s.hashes),
		Patterns: len(s.patterns),
		Rules:    len(s.rules),
		Families: make(map[string]int),
	}
	for _, e := range s.hashes {
		st.Families[e.Family]++
	}
	return st
}

// Snapshot is an immutable read-only view handed to scan workers.
// It shares no mutable state with the Store: the digest map is copied
// and the compiled rules are never mutated after load.
type Snapshot struct {
	hashes   map[string]Entry
	patterns []string
	rules    []*rules.CompiledRule
}

// Snapshot captures the current store contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hashes := make(map[string]Entry, len(s.hashes))
	for k, v := range s.hashes {
		hashes[k] = v
	}
	patterns := make([]string, len(s.patterns))
	copy(patterns, s.patterns)
	return Snapshot{hashes: hashes, patterns: patterns, rules: s.rules}
}

// CheckHash looks up a digest in the snapshot.
func (sn Snapshot) CheckHash(digest string) (Entry, bool) {
	e, ok := sn.hashes[digest]
	return e, ok
}

// CheckPatterns evaluates the rule set against text.
func (sn Snapshot) CheckPatterns(text string) []Match {
	return evalPatterns(sn.rules, sn.patterns, text)
}
