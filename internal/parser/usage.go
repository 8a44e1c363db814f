package parser

import (
	"fmt"
	"strings"

	"github.com/temirov/argsmith/internal/tokenizer"
)

const (
	usageLineFormat       = "Usage: %s [options]"
	usageCommandSuffix    = " <command> [command options]"
	usageOptionsHeader    = "Options:"
	usageCommandsHeader   = "Commands:"
	usageCommandRowFormat = "  %-*s  %s\n"
)

// Usage renders the help text of the program: description, global options and subcommands.
func (parser *Parser) Usage() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(usageLineFormat, parser.programName))
	if len(parser.subcommands) > 0 {
		builder.WriteString(usageCommandSuffix)
	}
	builder.WriteString("\n")
	if parser.description != "" {
		builder.WriteString("\n")
		builder.WriteString(parser.description)
		builder.WriteString("\n")
	}

	globalDefinitions := parser.registry.All()
	if len(globalDefinitions) > 0 {
		builder.WriteString("\n")
		builder.WriteString(usageOptionsHeader)
		builder.WriteString("\n")
		builder.WriteString(tokenizer.FlagUsages(parser.programName, flagSpecs(globalDefinitions)))
	}

	if len(parser.subcommands) > 0 {
		builder.WriteString("\n")
		builder.WriteString(usageCommandsHeader)
		builder.WriteString("\n")
		width := 0
		for _, subcommand := range parser.subcommands {
			width = max(width, len(subcommand.name))
		}
		for _, subcommand := range parser.subcommands {
			builder.WriteString(fmt.Sprintf(usageCommandRowFormat, width, subcommand.name, subcommand.help))
		}
	}
	return builder.String()
}

// Usage renders the help text of one subcommand.
func (subcommand *Subcommand) Usage(programName string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(usageLineFormat, programName+" "+subcommand.name))
	builder.WriteString("\n")
	if subcommand.help != "" {
		builder.WriteString("\n")
		builder.WriteString(subcommand.help)
		builder.WriteString("\n")
	}
	definitions := subcommand.registry.All()
	if len(definitions) > 0 {
		builder.WriteString("\n")
		builder.WriteString(usageOptionsHeader)
		builder.WriteString("\n")
		builder.WriteString(tokenizer.FlagUsages(subcommand.name, flagSpecs(definitions)))
	}
	return builder.String()
}
