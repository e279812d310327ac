package config

import (
	_ "embed"
	stderrors "errors"
	"os"

	"github.com/arthur-debert/carcue/pkg/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvConfigFile names an explicit settings file, overriding the
// carcue.toml lookup in the working directory
const EnvConfigFile = "CARCUE_CONFIG"

// Settings are the app-level knobs the engine needs from the host
type Settings struct {
	// RootRule is the rule evaluated per car by default
	RootRule string `koanf:"root_rule"`

	// CarTypes is the closed set of known car-type tags
	CarTypes []string `koanf:"car_types"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadSettings loads settings as layers: embedded defaults, then an
// optional carcue.toml (working directory or CARCUE_CONFIG).
func LoadSettings() (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Optional settings file
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = "carcue.toml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"failed to load settings from %s", path)
		}
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal settings")
	}

	if len(settings.CarTypes) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "settings define no car types")
	}
	if settings.RootRule == "" {
		return nil, errors.New(errors.ErrConfigValid, "settings define no root rule")
	}

	return &settings, nil
}
