package coerce

import (
	"strings"

	"github.com/temirov/argsmith/internal/types"
)

type inferenceRule struct {
	keywords     []string
	semanticType types.SemanticType
}

// inferenceRules is evaluated top to bottom; the first rule with a keyword
// contained in the lower-cased name decides the type.
var inferenceRules = []inferenceRule{
	{keywords: []string{"count", "number", "size", "port", "timeout"}, semanticType: types.TypeInteger},
	{keywords: []string{"rate", "factor", "ratio"}, semanticType: types.TypeFloat},
	{keywords: []string{"enable", "disable", "verbose", "quiet", "debug"}, semanticType: types.TypeBoolean},
	{keywords: []string{"file", "path", "dir", "output", "input"}, semanticType: types.TypeString},
}

// InferType derives a semantic type from a flag name alone.
func InferType(name string) types.SemanticType {
	loweredName := strings.ToLower(name)
	for _, rule := range inferenceRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(loweredName, keyword) {
				return rule.semanticType
			}
		}
	}
	return types.TypeString
}

// EffectiveType returns declared when it is set, otherwise the type inferred from name.
func EffectiveType(declared types.SemanticType, name string) types.SemanticType {
	if declared != types.TypeUnspecified {
		return declared
	}
	return InferType(name)
}

// InferFromValue reports the semantic type of a Go value, used when a definition
// declares a default but no type.
func InferFromValue(value any) (types.SemanticType, bool) {
	switch value.(type) {
	case bool:
		return types.TypeBoolean, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return types.TypeInteger, true
	case float32, float64:
		return types.TypeFloat, true
	case string:
		return types.TypeString, true
	default:
		return types.TypeUnspecified, false
	}
}
