// Package car defines the per-evaluation subject a rule tree is
// evaluated against, plus the optional skin attribute capability.
package car

import "sync"

// Car exposes what the rule engine needs to know about one car: its
// type tag and an opaque identifier usable for attribute lookups.
type Car interface {
	Type() string
	ID() string
}

// Info is a plain Car implementation.
type Info struct {
	CarType string
	CarID   string
}

// Type implements Car
func (i Info) Type() string { return i.CarType }

// ID implements Car
func (i Info) ID() string { return i.CarID }

// SkinProvider resolves a car identifier to its skin label. It is an
// optional capability: when the host environment does not supply one,
// skin conditions simply never match.
type SkinProvider interface {
	// Lookup returns the skin label for the car, or false when the
	// car has no known skin.
	Lookup(id string) (string, bool)
}

// SkinFunc adapts a function to the SkinProvider interface
type SkinFunc func(id string) (string, bool)

// Lookup implements SkinProvider
func (f SkinFunc) Lookup(id string) (string, bool) { return f(id) }

// SkinCache wraps a SkinProvider with an explicit cache. The cache is
// owned by whoever constructs it and passed into evaluation, never
// read from a package-level slot.
type SkinCache struct {
	mu       sync.RWMutex
	provider SkinProvider
	cache    map[string]skinEntry
}

type skinEntry struct {
	skin string
	ok   bool
}

// NewSkinCache creates a cache in front of the given provider
func NewSkinCache(provider SkinProvider) *SkinCache {
	return &SkinCache{
		provider: provider,
		cache:    make(map[string]skinEntry),
	}
}

// Lookup implements SkinProvider. Negative results are cached too:
// a car without a skin stays skinless until Invalidate or Reset.
func (c *SkinCache) Lookup(id string) (string, bool) {
	c.mu.RLock()
	entry, hit := c.cache[id]
	c.mu.RUnlock()
	if hit {
		return entry.skin, entry.ok
	}

	skin, ok := c.provider.Lookup(id)

	c.mu.Lock()
	c.cache[id] = skinEntry{skin: skin, ok: ok}
	c.mu.Unlock()

	return skin, ok
}

// Invalidate drops the cached entry for one car
func (c *SkinCache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
}

// Reset drops every cached entry
func (c *SkinCache) Reset() {
	c.mu.Lock()
	c.cache = make(map[string]skinEntry)
	c.mu.Unlock()
}
