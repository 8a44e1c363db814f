package registry

import (
	"fmt"
	"strings"

	"github.com/temirov/argsmith/internal/types"
)

const (
	booleanHelpFormat = "Enable or disable %s"
	integerHelpFormat = "Set %s (integer)"
	floatHelpFormat   = "Set %s (decimal)"
	stringHelpFormat  = "Specify %s"
	defaultSuffix     = " (default: %v)"
)

// GenerateHelpText builds a help line for a definition that did not declare one.
func GenerateHelpText(definition Definition, semanticType types.SemanticType) string {
	words := strings.ToLower(strings.ReplaceAll(CanonicalName(definition.Name), "-", " "))
	switch semanticType {
	case types.TypeBoolean:
		return fmt.Sprintf(booleanHelpFormat, words)
	case types.TypeInteger:
		return fmt.Sprintf(integerHelpFormat, words)
	case types.TypeFloat:
		return fmt.Sprintf(floatHelpFormat, words)
	default:
		helpText := fmt.Sprintf(stringHelpFormat, words)
		if definition.HasDefault && definition.Default != nil && fmt.Sprint(definition.Default) != "" {
			helpText += fmt.Sprintf(defaultSuffix, definition.Default)
		}
		return helpText
	}
}
