// Package config loads carcue's configuration: app settings (the
// known car-type tags and the root rule name, TOML, layered over
// embedded defaults) and cue documents (the rule/sound definitions,
// JSON or YAML). Loading a document produces a validated, frozen
// rules.Registry; a load failure leaves any previously active
// registry untouched.
package config
