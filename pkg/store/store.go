// Package store provides thread-safe storage for named formulas, with an
// optional JSON snapshot file for durability across restarts.
package store

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/calcpad/pkg/expr"
)

// Formula represents a stored named formula.
type Formula struct {
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	Variables  []string  `json:"variables"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// Store is a thread-safe formula store. When a snapshot path is set, every
// mutation rewrites the snapshot file.
type Store struct {
	mu       sync.RWMutex
	formulas map[string]*Formula
	path     string // snapshot file; empty means in-memory only
}

// New creates a new empty in-memory store.
func New() *Store {
	return &Store{formulas: make(map[string]*Formula)}
}

// Open creates a store backed by a JSON snapshot file, loading any existing
// snapshot. A missing file is not an error; it is created on first mutation.
func Open(path string) (*Store, error) {
	s := New()
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading formula snapshot: %w", err)
	}

	var formulas []*Formula
	if err := json.Unmarshal(data, &formulas); err != nil {
		return nil, fmt.Errorf("decoding formula snapshot %s: %w", path, err)
	}
	for _, f := range formulas {
		s.formulas[f.Name] = f
	}
	return s, nil
}

// Create validates and stores a new formula. The expression must parse; its
// free variables are extracted and snapshotted on the record.
func (s *Store) Create(name, expression string) (*Formula, error) {
	if name == "" {
		return nil, fmt.Errorf("formula name must not be empty")
	}
	if _, err := expr.Parse(expression); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.formulas[name]; exists {
		return nil, fmt.Errorf("formula '%s' already exists", name)
	}

	now := time.Now()
	f := &Formula{
		Name:       name,
		Expression: expression,
		Variables:  expr.ExtractVariables(expression),
		CreateTime: now,
		UpdateTime: now,
	}
	s.formulas[name] = f
	return f, s.persistLocked()
}

// Get retrieves a formula by name.
func (s *Store) Get(name string) (*Formula, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.formulas[name]
	if !ok {
		return nil, fmt.Errorf("formula '%s' not found", name)
	}
	return f, nil
}

// List returns all formulas sorted by name.
func (s *Store) List() []*Formula {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Formula, 0, len(s.formulas))
	for _, f := range s.formulas {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Update replaces a formula's expression, revalidating and re-extracting its
// variable list.
func (s *Store) Update(name, expression string) (*Formula, error) {
	if _, err := expr.Parse(expression); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.formulas[name]
	if !ok {
		return nil, fmt.Errorf("formula '%s' not found", name)
	}

	f.Expression = expression
	f.Variables = expr.ExtractVariables(expression)
	f.UpdateTime = time.Now()
	return f, s.persistLocked()
}

// Delete removes a formula.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.formulas[name]; !ok {
		return fmt.Errorf("formula '%s' not found", name)
	}
	delete(s.formulas, name)
	return s.persistLocked()
}

// Evaluate evaluates a stored formula with the given variable bindings.
func (s *Store) Evaluate(name string, vars map[string]float64) (float64, error) {
	f, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate(f.Expression, vars)
}

// persistLocked rewrites the snapshot file. Callers hold the write lock.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	formulas := make([]*Formula, 0, len(s.formulas))
	for _, f := range s.formulas {
		formulas = append(formulas, f)
	}
	sort.Slice(formulas, func(i, j int) bool { return formulas[i].Name < formulas[j].Name })

	data, err := json.MarshalIndent(formulas, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding formula snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing formula snapshot: %w", err)
	}
	return nil
}

// Seed loads formulas from a YAML file mapping formula names to expression
// strings. Existing names are overwritten. Expressions that fail to parse
// are rejected with the name attached.
func (s *Store) Seed(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}

	var seed map[string]string
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("decoding seed file %s: %w", path, err)
	}

	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, name := range names {
		expression := seed[name]
		if _, err := expr.Parse(expression); err != nil {
			return 0, fmt.Errorf("seed formula '%s': %w", name, err)
		}
		f, ok := s.formulas[name]
		if !ok {
			f = &Formula{Name: name, CreateTime: now}
			s.formulas[name] = f
		}
		f.Expression = expression
		f.Variables = expr.ExtractVariables(expression)
		f.UpdateTime = now
	}
	return len(names), s.persistLocked()
}
