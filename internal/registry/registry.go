// Package registry stores argument definitions in declaration order.
package registry

import (
	"strings"

	"github.com/temirov/argsmith/internal/types"
)

// ValidatorFunc checks a coerced argument value. A non-nil error is reported verbatim.
type ValidatorFunc func(value any) error

// Definition declares one flag.
type Definition struct {
	Name       string
	Type       types.SemanticType
	Default    any
	HasDefault bool
	Required   bool
	EnvVar     string
	ConfigKey  string
	Validator  ValidatorFunc
	Help       string
}

// WithDefault returns a copy of the definition carrying the declared default.
func (definition Definition) WithDefault(value any) Definition {
	definition.Default = value
	definition.HasDefault = true
	return definition
}

// LookupKey returns the configuration key used for the definition.
func (definition Definition) LookupKey() string {
	if definition.ConfigKey != "" {
		return strings.ToLower(definition.ConfigKey)
	}
	return strings.ToLower(definition.Name)
}

// DisplayName returns the flag as typed on the command line.
func (definition Definition) DisplayName() string {
	return types.FlagMarker + definition.Name
}

// Registry holds definitions keyed by canonical name.
// Redefining a name replaces the previous definition but keeps its position.
type Registry struct {
	order       []string
	definitions map[string]Definition
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{definitions: make(map[string]Definition)}
}

// CanonicalName strips the leading flag marker from name.
func CanonicalName(name string) string {
	return strings.TrimLeft(strings.TrimSpace(name), "-")
}

// Define inserts or replaces a definition. No validation happens here.
func (registry *Registry) Define(definition Definition) {
	definition.Name = CanonicalName(definition.Name)
	if _, exists := registry.definitions[definition.Name]; !exists {
		registry.order = append(registry.order, definition.Name)
	}
	registry.definitions[definition.Name] = definition
}

// Lookup returns the definition registered under name.
func (registry *Registry) Lookup(name string) (Definition, bool) {
	definition, exists := registry.definitions[CanonicalName(name)]
	return definition, exists
}

// All returns every definition in insertion order.
func (registry *Registry) All() []Definition {
	result := make([]Definition, 0, len(registry.order))
	for _, name := range registry.order {
		result = append(result, registry.definitions[name])
	}
	return result
}

// Names returns every canonical name in insertion order.
func (registry *Registry) Names() []string {
	return append([]string(nil), registry.order...)
}

// Len reports the number of distinct definitions.
func (registry *Registry) Len() int {
	return len(registry.order)
}

// EnvironmentPrefix derives an environment prefix from a program name.
func EnvironmentPrefix(programName string) string {
	return strings.ToUpper(strings.ReplaceAll(programName, "-", "_"))
}

// EnvironmentVariableName derives the variable consulted for a flag: PREFIX_NAME,
// uppercase with hyphens converted to underscores.
func EnvironmentVariableName(prefix string, name string) string {
	variable := strings.ToUpper(strings.ReplaceAll(CanonicalName(name), "-", "_"))
	if prefix == "" {
		return variable
	}
	return prefix + "_" + variable
}

// EnvironmentVariableFor returns the explicit env var of the definition or the derived one.
func EnvironmentVariableFor(prefix string, definition Definition) string {
	if definition.EnvVar != "" {
		return definition.EnvVar
	}
	return EnvironmentVariableName(prefix, definition.Name)
}
