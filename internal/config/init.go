package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/argsmith/internal/coerce"
	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/registry"
)

const (
	// DefaultTemplateFileName is written when no output path is given.
	DefaultTemplateFileName = "config.yaml"

	templateIndent                  = 2
	yamlMappingTag                  = "!!map"
	configurationExistsErrorFormat  = "configuration file already exists at %s"
	inspectConfigurationErrorFormat = "inspect configuration path %s: %w"
	writeConfigurationErrorFormat   = "write configuration to %s: %w"
	createDirectoryErrorFormat      = "create configuration directory %s: %w"
	conflictingKeyErrorFormat       = "configuration key %q conflicts with a nested section"
	encodeValueErrorFormat          = "encode default for %q: %w"
	encodeTemplateErrorFormat       = "encode configuration template: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	OutputPath       string
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes a configuration template listing every config key of definitions
// with its effective default. The file name is sanitized; the directory is kept as given.
// It returns the path written.
func InitializeConfiguration(options InitOptions, definitions []registry.Definition) (string, error) {
	destinationPath := options.OutputPath
	if destinationPath == "" {
		destinationPath = DefaultTemplateFileName
	}
	destinationPath = ExpandHome(destinationPath)
	destinationPath = filepath.Join(filepath.Dir(destinationPath), normalize.NewDefault().SanitizeFilename(filepath.Base(destinationPath)))
	if !filepath.IsAbs(destinationPath) {
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(workingDirectoryErrorFormat, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, destinationPath)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(configurationExistsErrorFormat, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(inspectConfigurationErrorFormat, destinationPath, err)
	}

	content, renderErr := RenderTemplate(definitions)
	if renderErr != nil {
		return "", renderErr
	}

	destinationDirectory := filepath.Dir(destinationPath)
	if err := os.MkdirAll(destinationDirectory, 0o755); err != nil {
		return "", fmt.Errorf(createDirectoryErrorFormat, destinationDirectory, err)
	}
	if err := os.WriteFile(destinationPath, content, 0o600); err != nil {
		return "", fmt.Errorf(writeConfigurationErrorFormat, destinationPath, err)
	}
	return destinationPath, nil
}

// RenderTemplate encodes the config keys of definitions as YAML in declaration order.
// Dotted keys become nested sections and help text is attached as a comment.
func RenderTemplate(definitions []registry.Definition) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: yamlMappingTag}
	for _, definition := range definitions {
		key := definition.LookupKey()
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(effectiveDefault(definition)); err != nil {
			return nil, fmt.Errorf(encodeValueErrorFormat, key, err)
		}
		if err := insertTemplateValue(root, strings.Split(key, keySeparator), valueNode, definition.Help); err != nil {
			return nil, err
		}
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(templateIndent)
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf(encodeTemplateErrorFormat, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf(encodeTemplateErrorFormat, err)
	}
	return buffer.Bytes(), nil
}

func effectiveDefault(definition registry.Definition) any {
	effectiveType := coerce.EffectiveType(definition.Type, definition.Name)
	if !definition.HasDefault || definition.Default == nil {
		return coerce.ZeroValue(effectiveType)
	}
	converted, err := coerce.CoerceValue(definition.Default, effectiveType, nil)
	if err != nil {
		return definition.Default
	}
	return converted
}

func insertTemplateValue(mapping *yaml.Node, segments []string, valueNode *yaml.Node, comment string) error {
	segment := segments[0]
	existingIndex := -1
	for index := 0; index+1 < len(mapping.Content); index += 2 {
		if mapping.Content[index].Value == segment {
			existingIndex = index
			break
		}
	}

	if len(segments) == 1 {
		if existingIndex >= 0 {
			if mapping.Content[existingIndex+1].Kind == yaml.MappingNode {
				return fmt.Errorf(conflictingKeyErrorFormat, segment)
			}
			mapping.Content[existingIndex+1] = valueNode
			mapping.Content[existingIndex].HeadComment = comment
			return nil
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: segment, HeadComment: comment}
		mapping.Content = append(mapping.Content, keyNode, valueNode)
		return nil
	}

	if existingIndex >= 0 {
		child := mapping.Content[existingIndex+1]
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf(conflictingKeyErrorFormat, segment)
		}
		return insertTemplateValue(child, segments[1:], valueNode, comment)
	}
	child := &yaml.Node{Kind: yaml.MappingNode, Tag: yamlMappingTag}
	mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: segment}, child)
	return insertTemplateValue(child, segments[1:], valueNode, comment)
}
