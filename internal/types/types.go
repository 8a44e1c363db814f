// Package types defines every cross‑package data structure used by the argsmith engine and CLI.
package types

// SemanticType identifies the target type of an argument value.
type SemanticType int

const (
	// TypeUnspecified asks the coercion engine to infer the type from the argument name.
	TypeUnspecified SemanticType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeString
)

const (
	typeNameUnspecified = "unspecified"
	typeNameInteger     = "integer"
	typeNameFloat       = "float"
	typeNameBoolean     = "boolean"
	typeNameString      = "string"
)

// String returns the user facing name of the semantic type.
func (semanticType SemanticType) String() string {
	switch semanticType {
	case TypeInteger:
		return typeNameInteger
	case TypeFloat:
		return typeNameFloat
	case TypeBoolean:
		return typeNameBoolean
	case TypeString:
		return typeNameString
	default:
		return typeNameUnspecified
	}
}

// ParseSemanticType converts a textual type name into a SemanticType.
// Short aliases used by definition documents ("int", "bool", "str") are accepted.
func ParseSemanticType(name string) (SemanticType, bool) {
	switch name {
	case "", typeNameUnspecified:
		return TypeUnspecified, true
	case typeNameInteger, "int":
		return TypeInteger, true
	case typeNameFloat, "decimal", "number":
		return TypeFloat, true
	case typeNameBoolean, "bool":
		return TypeBoolean, true
	case typeNameString, "str":
		return TypeString, true
	default:
		return TypeUnspecified, false
	}
}

// Source identifies which precedence tier produced an argument value.
type Source int

const (
	SourceDeclaredDefault Source = iota
	SourceConfigFile
	SourceEnvironmentVariable
	SourceCommandLine
)

// String returns the user facing name of the source tier.
func (source Source) String() string {
	switch source {
	case SourceConfigFile:
		return "config"
	case SourceEnvironmentVariable:
		return "environment"
	case SourceCommandLine:
		return "command-line"
	default:
		return "default"
	}
}

const (
	// FlagMarker prefixes long flag names on the command line.
	FlagMarker = "--"

	CommandResolve  = "resolve"
	CommandDescribe = "describe"
	CommandInit     = "init"
	CommandSuggest  = "suggest"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)
