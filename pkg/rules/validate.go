package rules

import (
	"strings"

	"github.com/arthur-debert/carcue/pkg/errors"
	"github.com/arthur-debert/carcue/pkg/logging"
)

// Validate checks the whole registry after assembly: every Ref and
// Sound name must resolve, every If{CarType} value must be a known
// car-type tag, and the named-rule reference graph must be acyclic.
// It runs once, eagerly, before any evaluation; a failure aborts
// activation of this registry and leaves the previous one in effect.
func (r *Registry) Validate() error {
	logger := logging.GetLogger("rules.validate")

	for _, name := range r.RuleNames() {
		node, err := r.Rule(name)
		if err != nil {
			return err
		}
		if err := ValidateNode(node, r); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid,
				"rule %q is invalid", name)
		}
	}

	if err := r.detectCycles(); err != nil {
		return err
	}

	logger.Debug().
		Int("rules", len(r.RuleNames())).
		Int("sounds", len(r.SoundNames())).
		Msg("Registry validated")

	return nil
}

// ValidateNode checks one rule tree against the registry, recursing
// into every child.
func ValidateNode(node Node, r *Registry) error {
	switch n := node.(type) {
	case *AllOf:
		for i, child := range n.Children {
			if err := ValidateNode(child, r); err != nil {
				return errors.Wrapf(err, errors.ErrConfigValid, "rules[%d]", i)
			}
		}
		return nil

	case *OneOf:
		for i, child := range n.Children {
			if err := ValidateNode(child, r); err != nil {
				return errors.Wrapf(err, errors.ErrConfigValid, "rules[%d]", i)
			}
		}
		return nil

	case *If:
		// CarType values come from a closed set fixed at validation
		// time; skin names are open-ended and only resolve during
		// evaluation.
		if n.Property == PropertyCarType && !r.KnownCarType(n.Value) {
			return errors.Newf(errors.ErrConfigValid,
				"unknown car type %q (known: %s)",
				n.Value, strings.Join(r.CarTypes(), ", "))
		}
		return ValidateNode(n.Child, r)

	case *Ref:
		if !r.HasRule(n.Name) {
			return errors.Newf(errors.ErrConfigValid,
				"reference to undefined rule %q", n.Name)
		}
		return nil

	case *Sound:
		if !r.HasSound(n.Name) {
			return errors.Newf(errors.ErrConfigValid,
				"reference to undefined sound %q", n.Name)
		}
		return nil

	default:
		return errors.Newf(errors.ErrInternal,
			"unhandled rule node type %T", node)
	}
}

// detectCycles walks the Ref edges between named rules. A self or
// mutual reference would recurse without bound at evaluation time, so
// it is rejected here where every named rule is visible.
func (r *Registry) detectCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int)

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.Newf(errors.ErrConfigValid,
				"rule reference cycle: %s", strings.Join(append(path, name), " -> "))
		}

		state[name] = visiting
		node, err := r.Rule(name)
		if err != nil {
			return err
		}
		for _, ref := range collectRefs(node, nil) {
			if !r.HasRule(ref) {
				// Dangling refs are reported by ValidateNode.
				continue
			}
			if err := visit(ref, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range r.RuleNames() {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// collectRefs gathers the rule names a tree refers to
func collectRefs(node Node, acc []string) []string {
	switch n := node.(type) {
	case *AllOf:
		for _, child := range n.Children {
			acc = collectRefs(child, acc)
		}
	case *OneOf:
		for _, child := range n.Children {
			acc = collectRefs(child, acc)
		}
	case *If:
		acc = collectRefs(n.Child, acc)
	case *Ref:
		acc = append(acc, n.Name)
	case *Sound:
	}
	return acc
}
