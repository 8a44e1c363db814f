// Package output renders resolution results and validation reports as raw text, JSON, YAML or XML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/temirov/argsmith/internal/parser"
	"github.com/temirov/argsmith/internal/types"
	"github.com/temirov/argsmith/internal/validate"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	argumentsHeader   = "----- RESOLVED ARGUMENTS -----"
	problemsHeader    = "----- VALIDATION ERRORS -----"
	programLabel      = "Program: "
	subcommandLabel   = "Subcommand: "
	argumentRowFormat = "%-*s = %v (%s from %s)\n"
	absentValueMarker = "(unset)"
	problemRowFormat  = "  - %s\n"

	xmlResolutionElement = "resolution"
	xmlReportElement     = "report"

	unsupportedFormatError = "unsupported output format %q"
	encodeErrorFormat      = "encode %s output: %w"
)

// ArgumentOutput is the rendered form of one resolved argument.
type ArgumentOutput struct {
	Name    string `json:"name" yaml:"name" xml:"name,attr"`
	Value   any    `json:"value" yaml:"value" xml:"value"`
	Type    string `json:"type" yaml:"type" xml:"type,attr"`
	Source  string `json:"source" yaml:"source" xml:"source,attr"`
	Present bool   `json:"present" yaml:"present" xml:"present,attr"`
}

// ResolutionOutput is the rendered form of a successful parse.
type ResolutionOutput struct {
	XMLName    xml.Name         `json:"-" yaml:"-"`
	Program    string           `json:"program" yaml:"program" xml:"program,attr"`
	Subcommand string           `json:"subcommand,omitempty" yaml:"subcommand,omitempty" xml:"subcommand,attr,omitempty"`
	Arguments  []ArgumentOutput `json:"arguments" yaml:"arguments" xml:"arguments>argument"`
}

// ProblemOutput is the rendered form of one validation report entry.
type ProblemOutput struct {
	Argument string `json:"argument" yaml:"argument" xml:"argument,attr"`
	Kind     string `json:"kind" yaml:"kind" xml:"kind,attr"`
	Message  string `json:"message" yaml:"message" xml:",chardata"`
}

// ReportOutput is the rendered form of a failed validation.
type ReportOutput struct {
	XMLName  xml.Name        `json:"-" yaml:"-"`
	Problems []ProblemOutput `json:"errors" yaml:"errors" xml:"error"`
}

// NewResolutionOutput converts a parse result into its rendered form.
func NewResolutionOutput(programName string, result *parser.Result) ResolutionOutput {
	arguments := make([]ArgumentOutput, 0, len(result.Arguments))
	for _, resolvedArgument := range result.Arguments {
		arguments = append(arguments, ArgumentOutput{
			Name:    resolvedArgument.Name,
			Value:   resolvedArgument.Value,
			Type:    resolvedArgument.Type.String(),
			Source:  resolvedArgument.Source.String(),
			Present: resolvedArgument.Present,
		})
	}
	return ResolutionOutput{
		XMLName:    xml.Name{Local: xmlResolutionElement},
		Program:    programName,
		Subcommand: result.Subcommand,
		Arguments:  arguments,
	}
}

// NewReportOutput converts a validation report into its rendered form.
func NewReportOutput(report validate.Report) ReportOutput {
	problems := make([]ProblemOutput, 0, len(report.Entries))
	for _, entry := range report.Entries {
		problems = append(problems, ProblemOutput{
			Argument: entry.ArgumentName,
			Kind:     entry.Kind.String(),
			Message:  entry.Message,
		})
	}
	return ReportOutput{XMLName: xml.Name{Local: xmlReportElement}, Problems: problems}
}

// RenderResolution renders a successful parse in format.
func RenderResolution(format string, programName string, result *parser.Result) (string, error) {
	document := NewResolutionOutput(programName, result)
	if format == types.FormatRaw {
		return renderResolutionRaw(document), nil
	}
	return encode(format, document)
}

// RenderReport renders a validation report in format.
func RenderReport(format string, report validate.Report) (string, error) {
	document := NewReportOutput(report)
	if format == types.FormatRaw {
		return renderReportRaw(document), nil
	}
	return encode(format, document)
}

func renderResolutionRaw(document ResolutionOutput) string {
	var buffer bytes.Buffer
	buffer.WriteString(programLabel + document.Program + "\n")
	if document.Subcommand != "" {
		buffer.WriteString(subcommandLabel + document.Subcommand + "\n")
	}
	buffer.WriteString(argumentsHeader + "\n")
	width := 0
	for _, argument := range document.Arguments {
		width = max(width, len(argument.Name))
	}
	for _, argument := range document.Arguments {
		var value any = argument.Value
		if !argument.Present {
			value = absentValueMarker
		}
		buffer.WriteString(fmt.Sprintf(argumentRowFormat, width, argument.Name, value, argument.Type, argument.Source))
	}
	return buffer.String()
}

func renderReportRaw(document ReportOutput) string {
	var buffer bytes.Buffer
	buffer.WriteString(problemsHeader + "\n")
	for _, problem := range document.Problems {
		buffer.WriteString(fmt.Sprintf(problemRowFormat, problem.Message))
	}
	return buffer.String()
}

func encode(format string, document any) (string, error) {
	switch format {
	case types.FormatJSON:
		encoded, err := json.MarshalIndent(document, indentPrefix, indentSpacer)
		if err != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, err)
		}
		return string(encoded) + "\n", nil
	case types.FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(yamlIndent)
		if err := encoder.Encode(document); err != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, err)
		}
		if err := encoder.Close(); err != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, err)
		}
		return buffer.String(), nil
	case types.FormatXML:
		encoded, err := xml.MarshalIndent(document, indentPrefix, indentSpacer)
		if err != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, err)
		}
		return xml.Header + string(encoded) + "\n", nil
	default:
		return "", fmt.Errorf(unsupportedFormatError, format)
	}
}
