package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/carcue/pkg/errors"
	"github.com/arthur-debert/carcue/pkg/logging"
	"github.com/arthur-debert/carcue/pkg/rules"
	"github.com/arthur-debert/carcue/pkg/sounds"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadDocument loads a cue document (JSON or YAML, chosen by file
// extension), parses every rule and sound, validates the assembled
// registry, and freezes it. Any error aborts the load; the caller's
// previously active registry stays in effect.
func LoadDocument(path string, settings *Settings) (*rules.Registry, error) {
	logger := logging.GetLogger("config.loader")

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to load cue document %s", path)
	}

	reg, err := assemble(k.Raw(), settings)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("document", path).
		Int("rules", len(reg.RuleNames())).
		Int("sounds", len(reg.SoundNames())).
		Msg("Cue document loaded")

	return reg, nil
}

// LoadDocumentBytes is LoadDocument over in-memory content. format is
// "json" or "yaml".
func LoadDocumentBytes(data []byte, format string, settings *Settings) (*rules.Registry, error) {
	var parser koanf.Parser
	switch strings.ToLower(format) {
	case "json":
		parser = json.Parser()
	case "yaml", "yml":
		parser = yaml.Parser()
	default:
		return nil, errors.Newf(errors.ErrConfigLoad,
			"unsupported document format %q", format)
	}

	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load cue document")
	}

	return assemble(k.Raw(), settings)
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad,
			"unsupported cue document extension on %s (want .json, .yaml or .yml)", path)
	}
}

// assemble builds the registry from a decoded document: sound
// definitions first, then rules, then the eager validation pass so
// forward references between named rules resolve.
func assemble(raw map[string]interface{}, settings *Settings) (*rules.Registry, error) {
	reg := rules.NewRegistry(settings.CarTypes)

	if rawSounds, ok := raw["sounds"]; ok {
		table, ok := rawSounds.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"'sounds' must be a name → definition mapping, got %T", rawSounds)
		}
		for name, token := range table {
			def, err := sounds.ParseDefinition(name, token)
			if err != nil {
				return nil, err
			}
			if err := reg.AddSound(name, def); err != nil {
				return nil, err
			}
		}
	}

	if rawRules, ok := raw["rules"]; ok {
		table, ok := rawRules.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse,
				"'rules' must be a name → rule mapping, got %T", rawRules)
		}
		for name, token := range table {
			node, err := rules.Parse(token)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"rule %q", name)
			}
			if err := reg.AddRule(name, node); err != nil {
				return nil, err
			}
		}
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	reg.Freeze()
	return reg, nil
}
