package rules

import (
	"strings"

	"github.com/arthur-debert/carcue/pkg/errors"
)

// Node is one unit of the rule tree. The union is closed: the five
// variants below are the only implementations, and every walker
// (parse, validate, apply) dispatches over them exhaustively.
type Node interface {
	isNode()
}

// AllOf applies every child in order, unconditionally. An empty child
// list is legal and applies nothing.
type AllOf struct {
	Children []Node
}

// OneOf applies exactly one child, chosen by weighted random draw.
type OneOf struct {
	Children []Node
	Weights  []float64

	// thresholds[i] is the cumulative weight share up to and
	// including child i; the last entry is 1.
	thresholds []float64
}

// If applies its child only when the car matches the condition.
type If struct {
	Property Property
	Value    string
	Child    Node
}

// Ref applies the named rule from the registry's rule table.
type Ref struct {
	Name string
}

// Sound applies the named sound definition from the registry's sound
// table to the accumulator.
type Sound struct {
	Name string
}

func (*AllOf) isNode() {}
func (*OneOf) isNode() {}
func (*If) isNode()    {}
func (*Ref) isNode()   {}
func (*Sound) isNode() {}

// Property is the condition subject of an If node
type Property int

// Condition properties
const (
	PropertyCarType Property = iota
	PropertySkinName
)

// propertyNames is the canonical lookup table consulted by the parser;
// keys are lower-cased so matching is case-insensitive.
var propertyNames = map[string]Property{
	"cartype":  PropertyCarType,
	"skinname": PropertySkinName,
}

// String returns the canonical spelling of the property
func (p Property) String() string {
	switch p {
	case PropertyCarType:
		return "CarType"
	case PropertySkinName:
		return "SkinName"
	default:
		return "Unknown"
	}
}

// ParseProperty matches a property name case-insensitively
func ParseProperty(name string) (Property, error) {
	prop, ok := propertyNames[strings.ToLower(name)]
	if !ok {
		return 0, errors.Newf(errors.ErrConfigParse,
			"unknown condition property %q", name).
			WithDetail("property", name)
	}
	return prop, nil
}

// NewAllOf creates a sequential composition of the given children
func NewAllOf(children ...Node) *AllOf {
	return &AllOf{Children: children}
}

// NewOneOf creates a weighted random choice over children. A nil
// weights slice gives every child an implicit weight of 1. Zero
// children, a weight/child count mismatch, or a non-positive weight
// are construction errors.
func NewOneOf(children []Node, weights []float64) (*OneOf, error) {
	if len(children) == 0 {
		return nil, errors.New(errors.ErrConfigParse,
			"OneOf requires at least one rule")
	}

	if weights == nil {
		weights = make([]float64, len(children))
		for i := range weights {
			weights[i] = 1
		}
	}

	if len(weights) != len(children) {
		return nil, errors.Newf(errors.ErrConfigParse,
			"OneOf has %d rules but %d weights", len(children), len(weights))
	}

	total := 0.0
	for i, w := range weights {
		if w <= 0 {
			return nil, errors.Newf(errors.ErrConfigParse,
				"OneOf weight %d must be positive, got %v", i, w)
		}
		total += w
	}

	thresholds := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		thresholds[i] = sum / total
	}
	// Pin the final threshold so float drift can never leave a draw
	// above every threshold.
	thresholds[len(thresholds)-1] = 1

	return &OneOf{
		Children:   children,
		Weights:    weights,
		thresholds: thresholds,
	}, nil
}

// Thresholds returns a copy of the cumulative selection thresholds
func (o *OneOf) Thresholds() []float64 {
	out := make([]float64, len(o.thresholds))
	copy(out, o.thresholds)
	return out
}

// NewIf creates a conditional gate around child
func NewIf(property Property, value string, child Node) *If {
	return &If{Property: property, Value: value, Child: child}
}

// NewRef creates a named indirection into the rule table
func NewRef(name string) *Ref {
	return &Ref{Name: name}
}

// NewSound creates a named indirection into the sound table
func NewSound(name string) *Sound {
	return &Sound{Name: name}
}
