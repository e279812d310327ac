package rules

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/carcue/pkg/car"
	"github.com/arthur-debert/carcue/pkg/errors"
	"github.com/arthur-debert/carcue/pkg/logging"
	"github.com/arthur-debert/carcue/pkg/sounds"
	"github.com/rs/zerolog"
)

// Engine evaluates validated rule trees against cars. It owns the
// process-scoped random source OneOf draws from; the source is
// mutex-guarded so concurrent evaluations may share one Engine. The
// registry must have passed Validate before evaluation — a dangling
// name hit during a walk is a contract violation, not user input.
type Engine struct {
	registry *Registry
	skins    car.SkinProvider // optional, nil when the host has none

	mu  sync.Mutex
	rng *rand.Rand

	logger zerolog.Logger
}

// NewEngine creates an engine seeded from crypto/rand. skins may be
// nil; SkinName conditions then never match.
func NewEngine(reg *Registry, skins car.SkinProvider) *Engine {
	seed, err := newSeed()
	if err != nil {
		// crypto/rand failing is effectively unheard of; fall back
		// to the clock rather than refuse to start.
		seed = time.Now().UnixNano()
		logger := logging.GetLogger("rules.engine")
		logger.Warn().Err(err).
			Msg("Falling back to time-based random seed")
	}
	return NewSeededEngine(reg, skins, seed)
}

// NewSeededEngine creates an engine with an explicit seed. Given the
// same seed, registry, and cars, evaluation outcomes are reproducible.
func NewSeededEngine(reg *Registry, skins car.SkinProvider, seed int64) *Engine {
	return &Engine{
		registry: reg,
		skins:    skins,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logging.GetLogger("rules.engine"),
	}
}

// Registry returns the registry this engine evaluates against
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Apply resolves the named root rule and applies it to the car,
// writing selections into set.
func (e *Engine) Apply(rootRule string, c car.Car, set *sounds.Set) error {
	node, err := e.registry.Rule(rootRule)
	if err != nil {
		return err
	}

	e.logger.Trace().
		Str("rule", rootRule).
		Str("carType", c.Type()).
		Str("carID", c.ID()).
		Msg("Applying rule tree")

	return e.apply(node, c, set)
}

func (e *Engine) apply(node Node, c car.Car, set *sounds.Set) error {
	switch n := node.(type) {
	case *AllOf:
		// Every child runs; one child's outcome never gates the next.
		for _, child := range n.Children {
			if err := e.apply(child, c, set); err != nil {
				return err
			}
		}
		return nil

	case *OneOf:
		r := e.draw()
		i := pickIndex(n.thresholds, r)
		if i < 0 {
			// Unreachable for well-formed thresholds; a no-op beats
			// crashing the audio path.
			e.logger.Warn().Float64("draw", r).Msg("Draw above every threshold")
			return nil
		}
		e.logger.Trace().Float64("draw", r).Int("child", i).Msg("OneOf selected")
		return e.apply(n.Children[i], c, set)

	case *If:
		if e.matches(n, c) {
			return e.apply(n.Child, c, set)
		}
		return nil

	case *Ref:
		target, err := e.registry.Rule(n.Name)
		if err != nil {
			// Validation guarantees this resolves; reaching here means
			// an unvalidated tree was evaluated.
			e.logger.Error().Err(err).Str("rule", n.Name).
				Msg("Dangling rule reference in evaluation, tree was not validated")
			return errors.Wrapf(err, errors.ErrInternal,
				"unvalidated rule tree: rule %q", n.Name)
		}
		return e.apply(target, c, set)

	case *Sound:
		def, err := e.registry.SoundDef(n.Name)
		if err != nil {
			e.logger.Error().Err(err).Str("sound", n.Name).
				Msg("Dangling sound reference in evaluation, tree was not validated")
			return errors.Wrapf(err, errors.ErrInternal,
				"unvalidated rule tree: sound %q", n.Name)
		}
		def.Apply(set)
		return nil

	default:
		return errors.Newf(errors.ErrInternal,
			"unhandled rule node type %T", node)
	}
}

// matches evaluates an If condition against the car
func (e *Engine) matches(n *If, c car.Car) bool {
	switch n.Property {
	case PropertyCarType:
		return strings.EqualFold(c.Type(), n.Value)
	case PropertySkinName:
		if e.skins == nil {
			return false
		}
		skin, ok := e.skins.Lookup(c.ID())
		return ok && strings.EqualFold(skin, n.Value)
	default:
		return false
	}
}

// draw returns one uniform value in [0,1) from the shared source
func (e *Engine) draw() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

// pickIndex selects the smallest index whose threshold is at or above
// the draw. The comparison is inclusive so a draw of exactly 1 selects
// the last child. Returns -1 when no threshold qualifies.
func pickIndex(thresholds []float64, r float64) int {
	for i, t := range thresholds {
		if r <= t {
			return i
		}
	}
	return -1
}
