package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/config"
	"github.com/temirov/argsmith/internal/output"
	"github.com/temirov/argsmith/internal/parser"
	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/suggest"
	"github.com/temirov/argsmith/internal/tokenizer"
	"github.com/temirov/argsmith/internal/types"
	"github.com/temirov/argsmith/internal/validate"
)

const logMessageClipboardFailed = "clipboard copy failed"

// resolveOptions stores the flags of the resolve command.
type resolveOptions struct {
	definitionsPath string
	configFiles     []string
	envFiles        []string
	envPrefix       string
	format          string
	copyEnabled     bool
	unicodeSafety   bool
}

// applySettings fills options the user did not set on the command line from the settings files.
func (options *resolveOptions) applySettings(command *cobra.Command, settings config.ResolveConfiguration) {
	flags := command.Flags()
	if !flags.Changed(formatFlagName) && settings.Format != "" {
		options.format = settings.Format
	}
	if !flags.Changed(copyFlagName) && settings.Clipboard != nil {
		options.copyEnabled = *settings.Clipboard
	}
	if !flags.Changed(unicodeSafetyFlagName) && settings.Unicode != nil {
		options.unicodeSafety = *settings.Unicode
	}
	if !flags.Changed(envPrefixFlagName) && settings.EnvPrefix != "" {
		options.envPrefix = settings.EnvPrefix
	}
	options.configFiles = append(append([]string{}, settings.ConfigFiles...), options.configFiles...)
	options.envFiles = append(append([]string{}, settings.EnvFiles...), options.envFiles...)
}

// createResolveCommand returns the resolve subcommand.
func (app *application) createResolveCommand() *cobra.Command {
	var options resolveOptions

	resolveCommand := &cobra.Command{
		Use:     resolveUse,
		Aliases: []string{resolveAlias},
		Short:   resolveShortDescription,
		Long:    resolveLongDescription,
		Example: resolveUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, err := app.loadSettings()
			if err != nil {
				return err
			}
			options.applySettings(command, settings.Resolve)
			options.format = strings.ToLower(options.format)
			if !isSupportedFormat(options.format) {
				return fmt.Errorf(invalidFormatMessage, options.format)
			}
			return app.runResolve(command, options, arguments)
		},
	}

	addDefinitionsFlag(resolveCommand, &options.definitionsPath)
	resolveCommand.Flags().StringArrayVar(&options.configFiles, configFlagName, nil, configFlagDescription)
	resolveCommand.Flags().StringArrayVar(&options.envFiles, envFileFlagName, nil, envFileFlagDescription)
	resolveCommand.Flags().StringVar(&options.envPrefix, envPrefixFlagName, "", envPrefixFlagDescription)
	resolveCommand.Flags().StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerLiteralFlag(resolveCommand.Flags(), &options.copyEnabled, copyFlagName, false, copyFlagDescription)
	registerLiteralFlag(resolveCommand.Flags(), &options.unicodeSafety, unicodeSafetyFlagName, true, unicodeSafetyFlagDescription)
	return resolveCommand
}

func (app *application) runResolve(command *cobra.Command, options resolveOptions, arguments []string) error {
	argumentParser, err := app.loadParser(options.definitionsPath, parser.WithUnicodeSafety(options.unicodeSafety))
	if err != nil {
		return err
	}
	if options.envPrefix != "" {
		argumentParser.SetEnvPrefix(options.envPrefix)
	}
	for _, path := range options.configFiles {
		argumentParser.AddConfigFile(path)
	}
	for _, path := range options.envFiles {
		argumentParser.AddEnvFile(path)
	}

	result, parseErr := argumentParser.Parse(arguments)
	if parseErr != nil {
		var report validate.Report
		switch {
		case errors.Is(parseErr, tokenizer.ErrHelpRequested):
			return writeText(command.OutOrStdout(), argumentParser.Usage())
		case errors.As(parseErr, &report):
			rendered, renderErr := output.RenderReport(options.format, report)
			if renderErr != nil {
				return renderErr
			}
			if writeErr := writeText(command.ErrOrStderr(), rendered); writeErr != nil {
				return writeErr
			}
			return ErrResolutionFailed
		default:
			return parseErr
		}
	}

	rendered, err := output.RenderResolution(options.format, argumentParser.ProgramName(), result)
	if err != nil {
		return err
	}
	if err := writeText(command.OutOrStdout(), rendered); err != nil {
		return err
	}
	if options.copyEnabled {
		if copyErr := app.dependencies.Copier.Copy(rendered); copyErr != nil {
			app.dependencies.Logger.Warn(logMessageClipboardFailed, zap.Error(copyErr))
			_, _ = fmt.Fprintf(command.ErrOrStderr(), clipboardWarningFormat, copyErr)
		}
	}
	return nil
}

// createDescribeCommand returns the describe subcommand.
func (app *application) createDescribeCommand() *cobra.Command {
	var definitionsPath string

	describeCommand := &cobra.Command{
		Use:   describeUse,
		Short: describeShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			argumentParser, err := app.loadParser(definitionsPath)
			if err != nil {
				return err
			}
			sections := []string{argumentParser.Usage()}
			for _, subcommand := range argumentParser.Subcommands() {
				sections = append(sections, subcommand.Usage(argumentParser.ProgramName()))
			}
			return writeText(command.OutOrStdout(), strings.Join(sections, "\n"))
		},
	}
	addDefinitionsFlag(describeCommand, &definitionsPath)
	return describeCommand
}

// createInitCommand returns the init subcommand.
func (app *application) createInitCommand() *cobra.Command {
	var definitionsPath string
	var outputPath string
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			argumentParser, err := app.loadParser(definitionsPath)
			if err != nil {
				return err
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				OutputPath:       outputPath,
				Force:            force,
				WorkingDirectory: app.dependencies.WorkingDirectory,
			}, argumentParser.AllDefinitions())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return err
		},
	}
	addDefinitionsFlag(initCommand, &definitionsPath)
	initCommand.Flags().StringVar(&outputPath, outputFlagName, config.DefaultTemplateFileName, outputFlagDescription)
	registerLiteralFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// createSuggestCommand returns the suggest subcommand.
func (app *application) createSuggestCommand() *cobra.Command {
	var definitionsPath string

	suggestCommand := &cobra.Command{
		Use:   suggestUse,
		Short: suggestShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			argumentParser, err := app.loadParser(definitionsPath)
			if err != nil {
				return err
			}
			suggestions := suggest.Suggest(arguments[0], definitionNames(argumentParser.AllDefinitions()))
			if len(suggestions) == 0 {
				_, err = fmt.Fprintf(command.OutOrStdout(), noSuggestionsFormat, arguments[0])
				return err
			}
			return writeText(command.OutOrStdout(), strings.Join(suggestions, "\n"))
		},
	}
	addDefinitionsFlag(suggestCommand, &definitionsPath)
	return suggestCommand
}

func definitionNames(definitions []registry.Definition) []string {
	names := make([]string, 0, len(definitions))
	for _, definition := range definitions {
		names = append(names, definition.Name)
	}
	return names
}
