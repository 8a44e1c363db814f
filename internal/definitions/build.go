package definitions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/parser"
	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/types"
)

const (
	choiceErrorFormat     = "value %v is not one of %s"
	minimumErrorFormat    = "value %v is below the minimum %v"
	maximumErrorFormat    = "value %v is above the maximum %v"
	notNumericErrorFormat = "value %v is not numeric"
	patternErrorFormat    = "value %q does not match %s"
	choiceSeparator       = ", "
)

// Build declares every argument and subcommand of document on a new parser.
// The document is expected to have passed Validate. options apply after the
// document's own normalizer selection.
func Build(document *Document, options ...parser.Option) *parser.Parser {
	var parserOptions []parser.Option
	if normalizer, known := normalize.ForMode(document.Normalization); known {
		parserOptions = append(parserOptions, parser.WithNormalizer(normalizer))
	}
	parserOptions = append(parserOptions, options...)
	argumentParser := parser.New(document.Program, document.Description, parserOptions...)
	if document.EnvPrefix != "" {
		argumentParser.SetEnvPrefix(document.EnvPrefix)
	}
	for _, path := range document.ConfigFiles {
		argumentParser.AddConfigFile(path)
	}
	for _, path := range document.EnvFiles {
		argumentParser.AddEnvFile(path)
	}
	for _, argument := range document.Arguments {
		argumentParser.AddArgument(argument.Definition())
	}
	for _, subcommandDocument := range document.Subcommands {
		arguments := subcommandDocument.Arguments
		argumentParser.AddSubcommand(subcommandDocument.Name, subcommandDocument.Help, func(subcommand *parser.Subcommand) {
			for _, argument := range arguments {
				subcommand.AddArgument(argument.Definition())
			}
		})
	}
	return argumentParser
}

// Definition converts the document form into a registry definition.
func (argument ArgumentDocument) Definition() registry.Definition {
	semanticType, _ := types.ParseSemanticType(strings.ToLower(argument.Type))
	definition := registry.Definition{
		Name:      argument.Name,
		Type:      semanticType,
		Required:  argument.Required,
		EnvVar:    argument.EnvVar,
		ConfigKey: argument.ConfigKey,
		Help:      argument.Help,
		Validator: argument.validator(),
	}
	if argument.Default != nil {
		definition = definition.WithDefault(argument.Default)
	}
	return definition
}

// validator combines the declarative constraints; the first violated one is reported.
func (argument ArgumentDocument) validator() registry.ValidatorFunc {
	var checks []registry.ValidatorFunc
	if len(argument.Choices) > 0 {
		checks = append(checks, choicesValidator(argument.Choices))
	}
	if argument.Minimum != nil || argument.Maximum != nil {
		checks = append(checks, rangeValidator(argument.Minimum, argument.Maximum))
	}
	if argument.Pattern != "" {
		if expression, err := regexp.Compile(argument.Pattern); err == nil {
			checks = append(checks, patternValidator(expression))
		}
	}
	if len(checks) == 0 {
		return nil
	}
	return func(value any) error {
		for _, check := range checks {
			if err := check(value); err != nil {
				return err
			}
		}
		return nil
	}
}

func choicesValidator(choices []any) registry.ValidatorFunc {
	allowed := make([]string, 0, len(choices))
	for _, choice := range choices {
		allowed = append(allowed, fmt.Sprint(choice))
	}
	return func(value any) error {
		text := fmt.Sprint(value)
		for _, candidate := range allowed {
			if candidate == text {
				return nil
			}
		}
		return fmt.Errorf(choiceErrorFormat, value, strings.Join(allowed, choiceSeparator))
	}
}

func rangeValidator(minimum *float64, maximum *float64) registry.ValidatorFunc {
	return func(value any) error {
		var number float64
		switch typed := value.(type) {
		case int64:
			number = float64(typed)
		case float64:
			number = typed
		default:
			return fmt.Errorf(notNumericErrorFormat, value)
		}
		if minimum != nil && number < *minimum {
			return fmt.Errorf(minimumErrorFormat, value, *minimum)
		}
		if maximum != nil && number > *maximum {
			return fmt.Errorf(maximumErrorFormat, value, *maximum)
		}
		return nil
	}
}

func patternValidator(expression *regexp.Regexp) registry.ValidatorFunc {
	return func(value any) error {
		text := fmt.Sprint(value)
		if !expression.MatchString(text) {
			return fmt.Errorf(patternErrorFormat, text, expression.String())
		}
		return nil
	}
}
