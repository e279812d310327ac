// Package registry provides a generic, type-safe registry for
// named items. Rule and sound tables are built on top of it and
// frozen once configuration loading completes.
package registry
