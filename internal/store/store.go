// Package store abstracts the named-scenario persistence that the UI layer
// owns. The calculation core never touches a store; only the serving layer
// does, which keeps the engine a pure function of its arguments.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/councilmodel/mtfp/internal/domain"
)

// ErrNotFound is returned when a named scenario does not exist.
var ErrNotFound = errors.New("scenario not found")

// ScenarioStore is a key-value store of named scenarios.
type ScenarioStore interface {
	Get(name string) (*domain.Scenario, error)
	Put(name string, scenario *domain.Scenario) error
	Delete(name string) error
	List() ([]string, error)
}

// MemoryStore is an in-process ScenarioStore. Scenarios are copied on the
// way in and out so callers cannot alias the stored value.
type MemoryStore struct {
	mu        sync.RWMutex
	scenarios map[string]domain.Scenario
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenarios: make(map[string]domain.Scenario)}
}

func (m *MemoryStore) Get(name string) (*domain.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scenario, ok := m.scenarios[name]
	if !ok {
		return nil, ErrNotFound
	}
	return scenario.DeepCopy(), nil
}

func (m *MemoryStore) Put(name string, scenario *domain.Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[name] = *scenario.DeepCopy()
	return nil
}

func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[name]; !ok {
		return ErrNotFound
	}
	delete(m.scenarios, name)
	return nil
}

func (m *MemoryStore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scenarios))
	for name := range m.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
