package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/coerce"
	"github.com/temirov/argsmith/internal/config"
	"github.com/temirov/argsmith/internal/environment"
	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/resolve"
	"github.com/temirov/argsmith/internal/suggest"
	"github.com/temirov/argsmith/internal/tokenizer"
	"github.com/temirov/argsmith/internal/types"
	"github.com/temirov/argsmith/internal/validate"
)

const (
	unknownSubcommandFormat      = "unknown subcommand %q"
	unknownSubcommandHintFormat  = "%s (did you mean %s?)"
	subcommandSuggestionJoiner   = ", "
	unrecognizedArgumentsFormat  = "unrecognized arguments: %s"
	unrecognizedArgumentsJoiner  = " "
	logMessageParseStarted       = "parse started"
	logMessageSubcommandSelected = "subcommand selected"
	logMessageParseRejected      = "parse rejected"
	logFieldProgram              = "program"
	logFieldArguments            = "arguments"
	logFieldSubcommand           = "subcommand"
	logFieldProblems             = "problems"
)

// UnknownSubcommandError reports a first positional argument that names no subcommand.
type UnknownSubcommandError struct {
	Name        string
	Suggestions []string
}

func (unknownSubcommandError *UnknownSubcommandError) Error() string {
	message := fmt.Sprintf(unknownSubcommandFormat, unknownSubcommandError.Name)
	if len(unknownSubcommandError.Suggestions) == 0 {
		return message
	}
	return fmt.Sprintf(unknownSubcommandHintFormat, message, strings.Join(unknownSubcommandError.Suggestions, subcommandSuggestionJoiner))
}

// UnrecognizedArgumentsError reports positional arguments no declaration accepts.
type UnrecognizedArgumentsError struct {
	Arguments []string
}

func (unrecognizedArgumentsError *UnrecognizedArgumentsError) Error() string {
	return fmt.Sprintf(unrecognizedArgumentsFormat, strings.Join(unrecognizedArgumentsError.Arguments, unrecognizedArgumentsJoiner))
}

// Parse tokenizes arguments, resolves every declared argument through its precedence tiers
// and validates the outcome. When subcommands are declared the first positional selects one;
// without it only the global arguments are resolved. On failure no Result is returned;
// the error is one of *tokenizer.UnknownFlagError, *UnknownSubcommandError,
// *UnrecognizedArgumentsError, tokenizer.ErrHelpRequested or validate.Report.
func (parser *Parser) Parse(arguments []string) (*Result, error) {
	normalizer := parser.activeNormalizer()
	parser.logger.Debug(logMessageParseStarted,
		zap.String(logFieldProgram, parser.programName),
		zap.Int(logFieldArguments, len(arguments)),
	)

	cleanedArguments := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		cleanedArguments = append(cleanedArguments, normalizer.Normalize(argument))
	}

	globalDefinitions := parser.registry.All()
	interspersed := len(parser.subcommands) == 0
	tokens, tokenizeError := tokenizer.Tokenize(parser.programName, flagSpecs(globalDefinitions), cleanedArguments, interspersed)
	if tokenizeError != nil {
		return nil, parser.decorate(tokenizeError, parser.AllDefinitions())
	}

	activeDefinitions := globalDefinitions
	subcommandName := ""
	positionals := tokens.Positionals
	if len(parser.subcommands) > 0 && len(positionals) > 0 {
		subcommand, found := parser.lookupSubcommand(positionals[0])
		if !found {
			return nil, &UnknownSubcommandError{
				Name:        positionals[0],
				Suggestions: suggest.Closest(positionals[0], parser.subcommandNames()),
			}
		}
		subcommandName = subcommand.name
		parser.logger.Debug(logMessageSubcommandSelected, zap.String(logFieldSubcommand, subcommandName))

		activeDefinitions = mergeDefinitions(globalDefinitions, subcommand.registry.All())
		subcommandTokens, subcommandError := tokenizer.Tokenize(parser.programName+" "+subcommandName, flagSpecs(activeDefinitions), positionals[1:], true)
		if subcommandError != nil {
			return nil, parser.decorate(subcommandError, activeDefinitions)
		}
		for name, value := range subcommandTokens.Values {
			tokens.Values[name] = value
		}
		positionals = subcommandTokens.Positionals
	}
	if len(positionals) > 0 {
		return nil, &UnrecognizedArgumentsError{Arguments: positionals}
	}

	configMapping := config.LoadMappings(parser.configFiles, parser.logger)
	environmentMapping := environment.Snapshot(environment.Request{
		Prefix:        parser.envPrefix,
		ExplicitNames: explicitEnvironmentNames(activeDefinitions),
		DotenvPaths:   parser.envFiles,
		Environ:       parser.environ,
	}, parser.logger)

	resolver := resolve.NewResolver(parser.envPrefix, normalizer, parser.logger)
	resolvedArguments := resolver.ResolveAll(activeDefinitions, configMapping, environmentMapping)
	for name, raw := range tokens.Values {
		if resolvedArgument, declared := resolvedArguments[name]; declared {
			resolvedArguments[name] = resolve.ApplyCommandLine(resolvedArgument, raw)
		}
	}

	engine := validate.NewEngine(parser.envPrefix, normalizer, parser.logger)
	finalArguments, report := engine.Validate(activeDefinitions, resolvedArguments)
	if reportErr := report.Err(); reportErr != nil {
		parser.logger.Debug(logMessageParseRejected, zap.Strings(logFieldProblems, report.Messages()))
		return nil, reportErr
	}

	return newResult(subcommandName, finalArguments), nil
}

// decorate attaches suggestions to unknown flag errors.
func (parser *Parser) decorate(tokenizeError error, definitions []registry.Definition) error {
	unknownFlagError, isUnknownFlag := tokenizeError.(*tokenizer.UnknownFlagError)
	if !isUnknownFlag {
		return tokenizeError
	}
	unknownFlagError.Suggestions = suggest.Suggest(unknownFlagError.Flag, definitionNames(definitions))
	return unknownFlagError
}

func mergeDefinitions(globalDefinitions []registry.Definition, subcommandDefinitions []registry.Definition) []registry.Definition {
	combined := registry.New()
	for _, definition := range globalDefinitions {
		combined.Define(definition)
	}
	for _, definition := range subcommandDefinitions {
		combined.Define(definition)
	}
	return combined.All()
}

func flagSpecs(definitions []registry.Definition) []tokenizer.FlagSpec {
	specs := make([]tokenizer.FlagSpec, 0, len(definitions))
	for _, definition := range definitions {
		effectiveType := coerce.EffectiveType(definition.Type, definition.Name)
		specs = append(specs, tokenizer.FlagSpec{
			Name:     definition.Name,
			TypeName: effectiveType.String(),
			Boolean:  effectiveType == types.TypeBoolean,
			Usage:    definition.Help,
		})
	}
	return specs
}

func definitionNames(definitions []registry.Definition) []string {
	names := make([]string, 0, len(definitions))
	for _, definition := range definitions {
		names = append(names, definition.Name)
	}
	return names
}

func explicitEnvironmentNames(definitions []registry.Definition) []string {
	var names []string
	for _, definition := range definitions {
		if definition.EnvVar != "" {
			names = append(names, definition.EnvVar)
		}
	}
	return names
}
