package rules

import (
	"sort"
	"strings"

	"github.com/arthur-debert/carcue/pkg/errors"
	"github.com/arthur-debert/carcue/pkg/registry"
	"github.com/arthur-debert/carcue/pkg/sounds"
)

// Registry holds the named rule and sound tables one configuration
// generation resolves against, plus the closed set of car-type tags
// known to the host environment. Ref and Sound nodes store names, not
// pointers, so swapping the registry never leaves dangling state in a
// rule tree.
type Registry struct {
	rules    registry.Registry[Node]
	sounds   registry.Registry[sounds.Definition]
	carTypes map[string]string // canonical (lower) → configured tag
}

// NewRegistry creates an empty registry knowing the given car types
func NewRegistry(carTypes []string) *Registry {
	known := make(map[string]string, len(carTypes))
	for _, tag := range carTypes {
		known[strings.ToLower(tag)] = tag
	}
	return &Registry{
		rules:    registry.New[Node](),
		sounds:   registry.New[sounds.Definition](),
		carTypes: known,
	}
}

// AddRule registers a named rule subtree
func (r *Registry) AddRule(name string, node Node) error {
	return r.rules.Register(name, node)
}

// AddSound registers a named sound definition
func (r *Registry) AddSound(name string, def sounds.Definition) error {
	return r.sounds.Register(name, def)
}

// Rule resolves a rule name
func (r *Registry) Rule(name string) (Node, error) {
	node, err := r.rules.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleNotFound,
			"rule %q is not defined", name)
	}
	return node, nil
}

// SoundDef resolves a sound name
func (r *Registry) SoundDef(name string) (sounds.Definition, error) {
	def, err := r.sounds.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSoundNotFound,
			"sound %q is not defined", name)
	}
	return def, nil
}

// HasRule checks whether a rule name is defined
func (r *Registry) HasRule(name string) bool {
	return r.rules.Has(name)
}

// HasSound checks whether a sound name is defined
func (r *Registry) HasSound(name string) bool {
	return r.sounds.Has(name)
}

// RuleNames returns all defined rule names, sorted
func (r *Registry) RuleNames() []string {
	return r.rules.List()
}

// SoundNames returns all defined sound names, sorted
func (r *Registry) SoundNames() []string {
	return r.sounds.List()
}

// KnownCarType checks a car-type tag against the closed set,
// case-insensitively
func (r *Registry) KnownCarType(tag string) bool {
	_, ok := r.carTypes[strings.ToLower(tag)]
	return ok
}

// CarTypes returns the configured car-type tags, sorted
func (r *Registry) CarTypes() []string {
	tags := make([]string, 0, len(r.carTypes))
	for _, tag := range r.carTypes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Freeze makes both tables read-only. Called by the loader once
// validation has passed; from then on the registry only serves reads.
func (r *Registry) Freeze() {
	r.rules.Freeze()
	r.sounds.Freeze()
}
