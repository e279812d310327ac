// Package rules implements the cue selection engine: a closed tagged
// union of rule nodes (AllOf, OneOf, If, Ref, Sound) parsed from
// JSON-shaped configuration tokens, validated for referential
// integrity against a registry of named rules and sounds, and
// evaluated per car into a sound set.
//
// Lifecycle: parse every rule and sound into a Registry, run
// Registry.Validate once over the assembled whole (forward references
// between named rules resolve then), then evaluate through an Engine.
// Registries are immutable after validation and safe to share across
// concurrent evaluations; reconfiguration builds a new registry and
// swaps it wholesale.
package rules
