// Package resolve computes the effective value of each argument from its
// declared default, the decoded configuration and the environment.
//
// Tiers are applied from lowest to highest priority, each present tier
// replacing the previous value:
//
//	declared default < config file < environment variable < command line
//
// The command line tier is applied separately through ApplyCommandLine
// because it arrives from the tokenizer rather than from a snapshot.
package resolve

import (
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/coerce"
	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/types"
)

const (
	logMessageTierApplied        = "argument tier applied"
	logMessageEnvironmentSkipped = "environment value skipped"
	logFieldArgument             = "argument"
	logFieldSource               = "source"
	logFieldVariable             = "variable"
)

// ResolvedArgument is the per-parse state of one argument.
// Present is false when no tier produced a value; Value then holds the zero value of Type.
type ResolvedArgument struct {
	Name    string
	Raw     any
	Value   any
	Type    types.SemanticType
	Source  types.Source
	Present bool
}

// Resolver merges the pre-command-line tiers.
type Resolver struct {
	environmentPrefix string
	normalizer        normalize.Normalizer
	logger            *zap.Logger
}

// NewResolver constructs a Resolver. A nil normalizer disables normalization and a nil logger discards logs.
func NewResolver(environmentPrefix string, normalizer normalize.Normalizer, logger *zap.Logger) *Resolver {
	if normalizer == nil {
		normalizer = normalize.Identity{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		environmentPrefix: environmentPrefix,
		normalizer:        normalizer,
		logger:            logger,
	}
}

// Resolve returns the effective default of definition before command line input is applied.
// It never fails: an environment value that cannot be converted is skipped and the lower tier stands.
func (resolver *Resolver) Resolve(definition registry.Definition, configMapping map[string]any, environmentMapping map[string]string) ResolvedArgument {
	effectiveType := coerce.EffectiveType(definition.Type, definition.Name)
	resolved := ResolvedArgument{
		Name:   definition.Name,
		Type:   effectiveType,
		Source: types.SourceDeclaredDefault,
		Value:  coerce.ZeroValue(effectiveType),
	}

	if definition.HasDefault && definition.Default != nil {
		resolved.Raw = definition.Default
		resolved.Value = definition.Default
		resolved.Present = true
	}

	if configValue, found := lookupConfigValue(configMapping, definition.LookupKey()); found {
		resolved.Raw = configValue
		resolved.Value = configValue
		resolved.Source = types.SourceConfigFile
		resolved.Present = true
		resolver.logTier(resolved)
	}

	variableName := registry.EnvironmentVariableFor(resolver.environmentPrefix, definition)
	if environmentValue, found := environmentMapping[variableName]; found {
		converted, conversionError := coerce.Coerce(environmentValue, effectiveType, resolver.normalizer)
		if conversionError != nil {
			resolver.logger.Debug(logMessageEnvironmentSkipped,
				zap.String(logFieldArgument, definition.Name),
				zap.String(logFieldVariable, variableName),
				zap.Error(conversionError),
			)
		} else {
			resolved.Raw = environmentValue
			resolved.Value = converted
			resolved.Source = types.SourceEnvironmentVariable
			resolved.Present = true
			resolver.logTier(resolved)
		}
	}

	return resolved
}

// ResolveAll resolves every definition, keyed by canonical name.
func (resolver *Resolver) ResolveAll(definitions []registry.Definition, configMapping map[string]any, environmentMapping map[string]string) map[string]ResolvedArgument {
	resolvedArguments := make(map[string]ResolvedArgument, len(definitions))
	for _, definition := range definitions {
		resolvedArguments[definition.Name] = resolver.Resolve(definition, configMapping, environmentMapping)
	}
	return resolvedArguments
}

// ApplyCommandLine overrides resolved with the raw token supplied on the command line.
func ApplyCommandLine(resolved ResolvedArgument, raw string) ResolvedArgument {
	resolved.Raw = raw
	resolved.Value = raw
	resolved.Source = types.SourceCommandLine
	resolved.Present = true
	return resolved
}

func (resolver *Resolver) logTier(resolved ResolvedArgument) {
	resolver.logger.Debug(logMessageTierApplied,
		zap.String(logFieldArgument, resolved.Name),
		zap.Stringer(logFieldSource, resolved.Source),
	)
}

// lookupConfigValue finds key in the mapping, accepting underscores in place of hyphens.
func lookupConfigValue(configMapping map[string]any, key string) (any, bool) {
	if len(configMapping) == 0 {
		return nil, false
	}
	candidates := []string{key}
	if underscored := strings.ReplaceAll(key, "-", "_"); underscored != key {
		candidates = append(candidates, underscored)
	}
	for _, candidate := range candidates {
		if value, found := configMapping[candidate]; found && value != nil {
			return value, true
		}
	}
	return nil, false
}
