// Package validate checks resolved arguments and aggregates every failure into a single Report.
package validate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/coerce"
	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/resolve"
	"github.com/temirov/argsmith/internal/types"
)

const (
	typeMismatchFormat     = "%s: Expected %s, got %s"
	missingRequiredFormat  = "%s: required argument not provided (use %s, set %s, or add config key %q)"
	validatorFailureFormat = "%s: %s"
	validatorPanicFormat   = "validator panicked: %v"

	logMessageInferredFallback = "inferred type not applicable, keeping text"
	logFieldArgument           = "argument"
	logFieldInferredType       = "inferred_type"
)

// Engine validates resolved arguments against their definitions.
type Engine struct {
	environmentPrefix string
	normalizer        normalize.Normalizer
	logger            *zap.Logger
}

// NewEngine constructs an Engine. The prefix is only used to word missing-argument messages.
func NewEngine(environmentPrefix string, normalizer normalize.Normalizer, logger *zap.Logger) *Engine {
	if normalizer == nil {
		normalizer = normalize.Identity{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		environmentPrefix: environmentPrefix,
		normalizer:        normalizer,
		logger:            logger,
	}
}

// Validate checks every definition, never stopping at the first failure. It returns
// the final coerced arguments in definition order together with the report.
func (engine *Engine) Validate(definitions []registry.Definition, resolvedArguments map[string]resolve.ResolvedArgument) ([]resolve.ResolvedArgument, Report) {
	var report Report
	finalArguments := make([]resolve.ResolvedArgument, 0, len(definitions))
	for _, definition := range definitions {
		resolvedArgument, found := resolvedArguments[definition.Name]
		if !found {
			effectiveType := coerce.EffectiveType(definition.Type, definition.Name)
			resolvedArgument = resolve.ResolvedArgument{
				Name:   definition.Name,
				Type:   effectiveType,
				Source: types.SourceDeclaredDefault,
				Value:  coerce.ZeroValue(effectiveType),
			}
		}
		finalArguments = append(finalArguments, engine.validateOne(definition, resolvedArgument, &report))
	}
	report.Arguments = finalArguments
	return finalArguments, report
}

func (engine *Engine) validateOne(definition registry.Definition, resolvedArgument resolve.ResolvedArgument, report *Report) resolve.ResolvedArgument {
	displayName := definition.DisplayName()
	effectiveType := coerce.EffectiveType(definition.Type, definition.Name)
	resolvedArgument.Type = effectiveType
	typeFailed := false

	if resolvedArgument.Present {
		value := resolvedArgument.Value
		if textValue, isText := value.(string); isText {
			value = engine.normalizer.Normalize(textValue)
		}
		if !coerce.Matches(value, effectiveType) {
			converted, conversionError := coerce.CoerceValue(value, effectiveType, engine.normalizer)
			switch {
			case conversionError == nil:
				value = converted
			case definition.Type == types.TypeUnspecified:
				fallback, fallbackError := coerce.CoerceValue(value, types.TypeString, engine.normalizer)
				if fallbackError != nil {
					typeFailed = true
					report.add(definition.Name, KindTypeMismatch, fmt.Sprintf(typeMismatchFormat, displayName, effectiveType, coerce.TypeName(value)))
					break
				}
				engine.logger.Debug(logMessageInferredFallback,
					zap.String(logFieldArgument, definition.Name),
					zap.Stringer(logFieldInferredType, effectiveType),
				)
				value = fallback
				resolvedArgument.Type = types.TypeString
			default:
				typeFailed = true
				report.add(definition.Name, KindTypeMismatch, fmt.Sprintf(typeMismatchFormat, displayName, effectiveType, coerce.TypeName(value)))
			}
		}
		resolvedArgument.Value = value
	}

	missing := definition.Required && !resolvedArgument.Present
	if missing {
		variableName := registry.EnvironmentVariableFor(engine.environmentPrefix, definition)
		report.add(definition.Name, KindMissingRequired, fmt.Sprintf(missingRequiredFormat, displayName, displayName, variableName, definition.LookupKey()))
	}

	if definition.Validator != nil && !typeFailed && !missing {
		if validatorError := invokeValidator(definition.Validator, resolvedArgument.Value); validatorError != nil {
			report.add(definition.Name, KindValidatorFailure, fmt.Sprintf(validatorFailureFormat, displayName, validatorError.Error()))
		}
	}

	return resolvedArgument
}

// invokeValidator runs a caller supplied validator, converting a panic into an error.
func invokeValidator(validator registry.ValidatorFunc, value any) (validatorError error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			validatorError = fmt.Errorf(validatorPanicFormat, recovered)
		}
	}()
	return validator(value)
}
