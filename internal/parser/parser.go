// Package parser is the entry point of argsmith: it declares arguments, tokenizes argv and
// runs resolution and validation.
package parser

import (
	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/coerce"
	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/types"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(parser *Parser) {
		if logger != nil {
			parser.logger = logger
		}
	}
}

// WithNormalizer replaces the text normalizer applied to arguments and string values.
func WithNormalizer(normalizer normalize.Normalizer) Option {
	return func(parser *Parser) {
		if normalizer != nil {
			parser.normalizer = normalizer
		}
	}
}

// WithUnicodeSafety toggles normalization. Disabled parsers keep input text untouched.
func WithUnicodeSafety(enabled bool) Option {
	return func(parser *Parser) {
		parser.unicodeSafety = enabled
	}
}

// WithEnvironment replaces the process environment source, in os.Environ form.
func WithEnvironment(environ func() []string) Option {
	return func(parser *Parser) {
		parser.environ = environ
	}
}

// Parser declares the arguments of a program and parses command lines against them.
// Definitions must be complete before the first call to Parse.
type Parser struct {
	programName   string
	description   string
	registry      *registry.Registry
	subcommands   []*Subcommand
	configFiles   []string
	envFiles      []string
	envPrefix     string
	normalizer    normalize.Normalizer
	unicodeSafety bool
	environ       func() []string
	logger        *zap.Logger
}

// New constructs a Parser. The environment prefix defaults to the upper-cased program name.
func New(programName string, description string, options ...Option) *Parser {
	parser := &Parser{
		programName:   programName,
		description:   description,
		registry:      registry.New(),
		envPrefix:     registry.EnvironmentPrefix(programName),
		normalizer:    normalize.NewDefault(),
		unicodeSafety: true,
		logger:        zap.NewNop(),
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

// AddArgument declares a global argument. A missing type is taken from the declared default
// and otherwise inferred from the name at resolution time; missing help text is generated.
func (parser *Parser) AddArgument(definition registry.Definition) {
	parser.registry.Define(prepareDefinition(definition))
}

// AddSubcommand declares a subcommand. configure receives the subcommand to declare its arguments.
// Declaring an existing name again configures the existing subcommand.
func (parser *Parser) AddSubcommand(name string, help string, configure func(*Subcommand)) *Subcommand {
	subcommand, exists := parser.lookupSubcommand(name)
	if !exists {
		subcommand = &Subcommand{name: name, registry: registry.New()}
		parser.subcommands = append(parser.subcommands, subcommand)
	}
	if help != "" {
		subcommand.help = help
	}
	if configure != nil {
		configure(subcommand)
	}
	return subcommand
}

// AddConfigFile appends a configuration file. Later files override earlier ones.
func (parser *Parser) AddConfigFile(path string) {
	parser.configFiles = append(parser.configFiles, path)
}

// AddEnvFile appends a dotenv file read into the environment snapshot.
func (parser *Parser) AddEnvFile(path string) {
	parser.envFiles = append(parser.envFiles, path)
}

// SetEnvPrefix replaces the prefix used to derive environment variable names.
func (parser *Parser) SetEnvPrefix(prefix string) {
	parser.envPrefix = prefix
}

// ProgramName returns the program name given to New.
func (parser *Parser) ProgramName() string {
	return parser.programName
}

// EnvPrefix returns the prefix used to derive environment variable names.
func (parser *Parser) EnvPrefix() string {
	return parser.envPrefix
}

// Definitions returns the global definitions in declaration order.
func (parser *Parser) Definitions() []registry.Definition {
	return parser.registry.All()
}

// AllDefinitions returns global definitions followed by those of every subcommand.
// A subcommand argument sharing a global name replaces it in place.
func (parser *Parser) AllDefinitions() []registry.Definition {
	combined := registry.New()
	for _, definition := range parser.registry.All() {
		combined.Define(definition)
	}
	for _, subcommand := range parser.subcommands {
		for _, definition := range subcommand.registry.All() {
			combined.Define(definition)
		}
	}
	return combined.All()
}

// Subcommands returns the declared subcommands in declaration order.
func (parser *Parser) Subcommands() []*Subcommand {
	return append([]*Subcommand(nil), parser.subcommands...)
}

func (parser *Parser) lookupSubcommand(name string) (*Subcommand, bool) {
	for _, subcommand := range parser.subcommands {
		if subcommand.name == name {
			return subcommand, true
		}
	}
	return nil, false
}

func (parser *Parser) subcommandNames() []string {
	names := make([]string, 0, len(parser.subcommands))
	for _, subcommand := range parser.subcommands {
		names = append(names, subcommand.name)
	}
	return names
}

func (parser *Parser) activeNormalizer() normalize.Normalizer {
	if !parser.unicodeSafety {
		return normalize.Identity{}
	}
	return parser.normalizer
}

// Subcommand owns the arguments accepted after its name on the command line.
type Subcommand struct {
	name     string
	help     string
	registry *registry.Registry
}

// AddArgument declares an argument of the subcommand.
func (subcommand *Subcommand) AddArgument(definition registry.Definition) {
	subcommand.registry.Define(prepareDefinition(definition))
}

// Name returns the subcommand name.
func (subcommand *Subcommand) Name() string {
	return subcommand.name
}

// Help returns the subcommand help line.
func (subcommand *Subcommand) Help() string {
	return subcommand.help
}

// Definitions returns the subcommand definitions in declaration order.
func (subcommand *Subcommand) Definitions() []registry.Definition {
	return subcommand.registry.All()
}

func prepareDefinition(definition registry.Definition) registry.Definition {
	definition.Name = registry.CanonicalName(definition.Name)
	if definition.Type == types.TypeUnspecified && definition.HasDefault {
		if valueType, known := coerce.InferFromValue(definition.Default); known {
			definition.Type = valueType
		}
	}
	if definition.Help == "" {
		definition.Help = registry.GenerateHelpText(definition, coerce.EffectiveType(definition.Type, definition.Name))
	}
	return definition
}
