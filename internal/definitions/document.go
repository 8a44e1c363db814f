// Package definitions reads declarative argument definitions from YAML documents
// and turns them into a configured parser.
//
// A document looks like:
//
//	program: deploy
//	description: Deploy a service
//	env_prefix: DEPLOY
//	normalization: compose
//	config_files: [deploy.yaml]
//	arguments:
//	  - name: max-count
//	    default: 3
//	    minimum: 1
//	  - name: region
//	    required: true
//	    choices: [eu, us]
//	subcommands:
//	  - name: rollback
//	    help: Roll back the last release
//	    arguments:
//	      - name: release
//	        pattern: "^v[0-9]+$"
package definitions

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/argsmith/internal/config"
	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/types"
)

const (
	readDocumentErrorFormat  = "reading %s: %w"
	parseDocumentErrorFormat = "parsing definitions: %w"
	pathErrorFormat          = "%s: %w"
)

// Document is the on-disk form of a program's argument definitions.
type Document struct {
	Program     string   `yaml:"program"`
	Description string   `yaml:"description"`
	EnvPrefix   string   `yaml:"env_prefix"`
	ConfigFiles []string `yaml:"config_files"`
	EnvFiles    []string `yaml:"env_files"`

	// Normalization selects the text normalizer: ascii (default), compose or none.
	Normalization string               `yaml:"normalization"`
	Arguments     []ArgumentDocument   `yaml:"arguments"`
	Subcommands   []SubcommandDocument `yaml:"subcommands"`
}

// ArgumentDocument declares one argument. Choices, Minimum, Maximum and Pattern
// become the argument's validator.
type ArgumentDocument struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Default   any      `yaml:"default"`
	Required  bool     `yaml:"required"`
	EnvVar    string   `yaml:"env_var"`
	ConfigKey string   `yaml:"config_key"`
	Help      string   `yaml:"help"`
	Choices   []any    `yaml:"choices"`
	Minimum   *float64 `yaml:"minimum"`
	Maximum   *float64 `yaml:"maximum"`
	Pattern   string   `yaml:"pattern"`
}

// SubcommandDocument declares a subcommand and its arguments.
type SubcommandDocument struct {
	Name      string             `yaml:"name"`
	Help      string             `yaml:"help"`
	Arguments []ArgumentDocument `yaml:"arguments"`
}

// ErrInvalidDocument wraps the issues reported by Validate.
var ErrInvalidDocument = errors.New("invalid definitions document")

// Parse decodes a YAML definitions document.
func Parse(data []byte) (*Document, error) {
	var document Document
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf(parseDocumentErrorFormat, err)
	}
	return &document, nil
}

// ReadFile reads and validates a definitions document from disk.
//
// #nosec G304
func ReadFile(path string) (*Document, error) {
	expandedPath := config.ExpandHome(path)
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf(readDocumentErrorFormat, path, err)
	}
	document, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf(pathErrorFormat, path, err)
	}
	if issues := Validate(document); len(issues) > 0 {
		return nil, fmt.Errorf("%s: %w:\n  - %s", path, ErrInvalidDocument, strings.Join(issues, "\n  - "))
	}
	return document, nil
}

// Validate checks a document for structural issues and returns human-readable descriptions.
// An empty list means the document is usable.
func Validate(document *Document) []string {
	var issues []string
	if strings.TrimSpace(document.Program) == "" {
		issues = append(issues, "program is required")
	}
	if _, known := normalize.ForMode(document.Normalization); !known {
		issues = append(issues, fmt.Sprintf("unknown normalization %q (expected %s, %s or %s)", document.Normalization, normalize.ModeASCII, normalize.ModeCompose, normalize.ModeNone))
	}
	issues = append(issues, validateArguments(document.Arguments, "arguments")...)

	subcommandNames := make(map[string]int, len(document.Subcommands))
	for index, subcommand := range document.Subcommands {
		prefix := fmt.Sprintf("subcommands[%d]", index)
		if subcommand.Name == "" {
			issues = append(issues, fmt.Sprintf("%s: name is required", prefix))
		} else if firstIndex, exists := subcommandNames[subcommand.Name]; exists {
			issues = append(issues, fmt.Sprintf("%s %q: duplicate subcommand name (first used at subcommands[%d])", prefix, subcommand.Name, firstIndex))
		} else {
			subcommandNames[subcommand.Name] = index
		}
		issues = append(issues, validateArguments(subcommand.Arguments, prefix+".arguments")...)
	}
	return issues
}

func validateArguments(arguments []ArgumentDocument, section string) []string {
	var issues []string
	for index, argument := range arguments {
		prefix := fmt.Sprintf("%s[%d]", section, index)
		if strings.Trim(argument.Name, "- ") == "" {
			issues = append(issues, fmt.Sprintf("%s: name is required", prefix))
			continue
		}
		prefix = fmt.Sprintf("%s %q", prefix, argument.Name)
		if _, known := types.ParseSemanticType(strings.ToLower(argument.Type)); !known {
			issues = append(issues, fmt.Sprintf("%s: unknown type %q", prefix, argument.Type))
		}
		if argument.Pattern != "" {
			if _, err := regexp.Compile(argument.Pattern); err != nil {
				issues = append(issues, fmt.Sprintf("%s: invalid pattern: %v", prefix, err))
			}
		}
		if argument.Minimum != nil && argument.Maximum != nil && *argument.Minimum > *argument.Maximum {
			issues = append(issues, fmt.Sprintf("%s: minimum %v exceeds maximum %v", prefix, *argument.Minimum, *argument.Maximum))
		}
	}
	return issues
}
