package sounds

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition is the apply contract a sound entry fulfils. How a
// definition mutates the set is its own business; the rule engine only
// resolves names to definitions and invokes Apply.
type Definition interface {
	Apply(set *Set)
}

// Cue is one resolved audio cue inside a slot.
type Cue struct {
	Clip  string  `yaml:"clip"`
	Gain  float64 `yaml:"gain"`
	Pitch float64 `yaml:"pitch"`
}

// Set accumulates the sounds selected for one car. A Set is created
// per evaluation and is not safe for concurrent use; concurrent
// evaluations each get their own.
type Set struct {
	slots map[string][]Cue
}

// NewSet creates an empty accumulator
func NewSet() *Set {
	return &Set{
		slots: make(map[string][]Cue),
	}
}

// Add appends a cue to the named slot
func (s *Set) Add(slot string, cue Cue) {
	s.slots[slot] = append(s.slots[slot], cue)
}

// Slots returns all slot names that received at least one cue, sorted
func (s *Set) Slots() []string {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cues returns the cues accumulated for a slot, in insertion order
func (s *Set) Cues(slot string) []Cue {
	return s.slots[slot]
}

// Len returns the total number of accumulated cues across all slots
func (s *Set) Len() int {
	n := 0
	for _, cues := range s.slots {
		n += len(cues)
	}
	return n
}

// MarshalYAML renders the set as a slot → cues mapping for reports
func (s *Set) MarshalYAML() (interface{}, error) {
	out := make(map[string][]Cue, len(s.slots))
	for slot, cues := range s.slots {
		out[slot] = cues
	}
	return out, nil
}

// Report returns the YAML rendering of the set
func (s *Set) Report() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
