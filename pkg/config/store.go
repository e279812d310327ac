package config

import (
	"sync/atomic"

	"github.com/arthur-debert/carcue/pkg/rules"
)

// Store holds the active registry generation. Reconfiguration builds
// a fresh registry and swaps it in atomically; evaluations already
// holding the old generation keep using it unchanged.
type Store struct {
	current atomic.Pointer[rules.Registry]
}

// NewStore creates a store with an initial registry
func NewStore(reg *rules.Registry) *Store {
	s := &Store{}
	s.current.Store(reg)
	return s
}

// Current returns the active registry generation
func (s *Store) Current() *rules.Registry {
	return s.current.Load()
}

// Swap activates a new registry generation and returns the previous one
func (s *Store) Swap(reg *rules.Registry) *rules.Registry {
	return s.current.Swap(reg)
}
