// Package cli provides the argsmith command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/config"
	"github.com/temirov/argsmith/internal/definitions"
	"github.com/temirov/argsmith/internal/parser"
	"github.com/temirov/argsmith/internal/services/clipboard"
	"github.com/temirov/argsmith/internal/types"
	"github.com/temirov/argsmith/internal/utils"
)

const (
	definitionsFlagName   = "definitions"
	definitionsShorthand  = "d"
	configFlagName        = "config"
	envPrefixFlagName     = "env-prefix"
	envFileFlagName       = "env-file"
	formatFlagName        = "format"
	copyFlagName          = "copy"
	unicodeSafetyFlagName = "unicode-safety"
	outputFlagName        = "output"
	forceFlagName         = "force"
	debugFlagName         = "debug"
	settingsFlagName      = "settings"
	versionFlagName       = "version"

	resolveAlias = "r"

	versionTemplate      = "argsmith version: %s\n"
	rootUse              = "argsmith"
	rootShortDescription = "argsmith command line interface"
	rootLongDescription  = `argsmith resolves command line arguments declared in a definitions document.
Each argument takes its value from the command line, an environment variable, a configuration file
or its declared default, in that order, and is then type checked and validated.
Use --version to print the application version.`

	resolveUse              = "resolve -- [arguments...]"
	resolveShortDescription = "resolve and validate arguments (" + resolveAlias + ")"
	resolveLongDescription  = `Resolve the arguments after "--" against a definitions document.
Every problem is reported at once. Use --format to select raw, json, yaml or xml output.`
	resolveUsageExample = `  # Resolve a command line in JSON
  argsmith resolve -d deploy.yaml --format json -- --region eu rollback --release v12

  # Add a configuration file and a dotenv file
  argsmith resolve -d deploy.yaml --config deploy.hcl --env-file .env -- rollback`

	describeUse              = "describe"
	describeShortDescription = "print the usage text of a definitions document"
	initUse                  = "init"
	initShortDescription     = "write a configuration template for a definitions document"
	initLongDescription      = `Write a YAML configuration file listing every configuration key of the
definitions document together with its effective default.`
	suggestUse              = "suggest <flag>"
	suggestShortDescription = "list declared flags similar to a mistyped one"

	definitionsFlagDescription   = "definitions document (YAML)"
	configFlagDescription        = "configuration file consulted for defaults (repeatable)"
	envPrefixFlagDescription     = "environment variable prefix"
	envFileFlagDescription       = "dotenv file read into the environment (repeatable)"
	formatFlagDescription        = "output format: raw, json, yaml or xml"
	copyFlagDescription          = "copy the output to the clipboard"
	unicodeSafetyFlagDescription = "normalize arguments and values to plain ASCII"
	outputFlagDescription        = "path of the configuration file to write"
	forceFlagDescription         = "overwrite an existing configuration file"
	debugFlagDescription         = "enable debug logging"
	settingsFlagDescription      = "argsmith settings file (defaults to ./" + utils.LocalConfigFileName + ")"
	versionFlagDescription       = "display application version"

	invalidFormatMessage       = "invalid format value '%s'"
	configurationWrittenFormat = "Configuration written to %s\n"
	noSuggestionsFormat        = "No declared flag resembles %s\n"
	clipboardWarningFormat     = "Warning: %v\n"
	loadSettingsErrorFormat    = "load settings: %w"
)

// ErrResolutionFailed is returned after a validation report has been printed.
var ErrResolutionFailed = errors.New("argument resolution failed")

// Dependencies are the collaborators the commands use. Zero values select the real implementations.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	Environ          func() []string
	WorkingDirectory string
}

type application struct {
	dependencies Dependencies
	debug        bool
	settingsPath string
}

// Execute runs the argsmith application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeLiteralFlagArguments(os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.Environ == nil {
		dependencies.Environ = os.Environ
	}
	app := &application{dependencies: dependencies}
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !app.debug {
				return nil
			}
			debugLogger, err := utils.NewApplicationLogger(true)
			if err != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
			}
			app.dependencies.Logger = debugLogger
			return nil
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	registerLiteralFlag(rootCommand.PersistentFlags(), &app.debug, debugFlagName, false, debugFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.settingsPath, settingsFlagName, "", settingsFlagDescription)
	rootCommand.AddCommand(
		app.createResolveCommand(),
		app.createDescribeCommand(),
		app.createInitCommand(),
		app.createSuggestCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatYAML, types.FormatXML:
		return true
	default:
		return false
	}
}

func addDefinitionsFlag(command *cobra.Command, target *string) {
	command.Flags().StringVarP(target, definitionsFlagName, definitionsShorthand, "", definitionsFlagDescription)
	_ = command.MarkFlagRequired(definitionsFlagName)
}

func (app *application) loadSettings() (config.ApplicationConfiguration, error) {
	settings, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.dependencies.WorkingDirectory,
		ExplicitFilePath: app.settingsPath,
	})
	if err != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(loadSettingsErrorFormat, err)
	}
	return settings, nil
}

// loadParser reads a definitions document and builds its parser.
func (app *application) loadParser(definitionsPath string, options ...parser.Option) (*parser.Parser, error) {
	document, err := definitions.ReadFile(definitionsPath)
	if err != nil {
		return nil, err
	}
	options = append([]parser.Option{
		parser.WithLogger(app.dependencies.Logger),
		parser.WithEnvironment(app.dependencies.Environ),
	}, options...)
	return definitions.Build(document, options...), nil
}

func writeText(writer io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(writer, text)
	return err
}
