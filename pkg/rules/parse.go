package rules

import (
	"strings"

	"github.com/arthur-debert/carcue/pkg/errors"
)

// Parse turns one configuration token into a rule node. A bare string
// is shorthand for a Ref to the named rule; an object is dispatched on
// its mandatory "type" field, matched case-insensitively. Anything
// else fails with CONFIG_PARSE. Parsing is fail-fast: the first bad
// token aborts the enclosing document load.
func Parse(token interface{}) (Node, error) {
	switch tok := token.(type) {
	case string:
		if tok == "" {
			return nil, errors.New(errors.ErrConfigParse,
				"rule reference cannot be an empty string")
		}
		return NewRef(tok), nil
	case map[string]interface{}:
		return parseObject(tok)
	default:
		return nil, errors.Newf(errors.ErrConfigParse,
			"rule token must be a string or an object, got %T", token).
			WithDetail("token", token)
	}
}

func parseObject(obj map[string]interface{}) (Node, error) {
	rawType, ok := obj["type"].(string)
	if !ok {
		return nil, errors.New(errors.ErrConfigParse,
			"rule object is missing its 'type' field").
			WithDetail("token", obj)
	}

	switch strings.ToLower(rawType) {
	case "allof":
		return parseAllOf(obj)
	case "oneof":
		return parseOneOf(obj)
	case "if":
		return parseIf(obj)
	case "ref":
		name, err := nameField(obj, "Ref")
		if err != nil {
			return nil, err
		}
		return NewRef(name), nil
	case "sound":
		name, err := nameField(obj, "Sound")
		if err != nil {
			return nil, err
		}
		return NewSound(name), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse,
			"unknown rule type %q", rawType).
			WithDetail("type", rawType)
	}
}

// parseAllOf reads two optional lists: "rules" (sub-rule tokens) and
// "sounds" (bare sound names wrapped into Sound nodes). They are
// concatenated rules-first, preserving input order.
func parseAllOf(obj map[string]interface{}) (Node, error) {
	var children []Node

	if raw, ok := obj["rules"]; ok {
		tokens, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"AllOf 'rules' must be a list, got %T", raw)
		}
		for i, token := range tokens {
			child, err := Parse(token)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"AllOf rules[%d]", i)
			}
			children = append(children, child)
		}
	}

	if raw, ok := obj["sounds"]; ok {
		names, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"AllOf 'sounds' must be a list, got %T", raw)
		}
		for i, rawName := range names {
			name, ok := rawName.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigParse,
					"AllOf sounds[%d] must be a string, got %T", i, rawName)
			}
			children = append(children, NewSound(name))
		}
	}

	return NewAllOf(children...), nil
}

func parseOneOf(obj map[string]interface{}) (Node, error) {
	raw, ok := obj["rules"]
	if !ok {
		return nil, errors.New(errors.ErrConfigParse,
			"OneOf is missing its 'rules' list")
	}
	tokens, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrConfigParse,
			"OneOf 'rules' must be a list, got %T", raw)
	}

	children := make([]Node, 0, len(tokens))
	for i, token := range tokens {
		child, err := Parse(token)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"OneOf rules[%d]", i)
		}
		children = append(children, child)
	}

	var weights []float64
	if rawWeights, ok := obj["weights"]; ok {
		list, ok := rawWeights.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"OneOf 'weights' must be a list, got %T", rawWeights)
		}
		weights = make([]float64, 0, len(list))
		for i, rawWeight := range list {
			w, err := toFloat(rawWeight)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"OneOf weights[%d]", i)
			}
			weights = append(weights, w)
		}
	}

	return NewOneOf(children, weights)
}

func parseIf(obj map[string]interface{}) (Node, error) {
	rawProp, ok := obj["property"].(string)
	if !ok {
		return nil, errors.New(errors.ErrConfigParse,
			"If is missing its 'property' field")
	}
	prop, err := ParseProperty(rawProp)
	if err != nil {
		return nil, err
	}

	value, ok := obj["value"].(string)
	if !ok {
		return nil, errors.New(errors.ErrConfigParse,
			"If is missing its 'value' field")
	}

	rawRule, ok := obj["rule"]
	if !ok {
		return nil, errors.New(errors.ErrConfigParse,
			"If is missing its 'rule' field")
	}
	child, err := Parse(rawRule)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "If rule")
	}

	return NewIf(prop, value, child), nil
}

func nameField(obj map[string]interface{}, variant string) (string, error) {
	name, ok := obj["name"].(string)
	if !ok || name == "" {
		return "", errors.Newf(errors.ErrConfigParse,
			"%s is missing its 'name' field", variant)
	}
	return name, nil
}

// toFloat widens the numeric types the config decoders produce.
// JSON numbers arrive as float64; YAML integers arrive as int.
func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, errors.Newf(errors.ErrConfigParse,
			"expected a number, got %T", raw)
	}
}
