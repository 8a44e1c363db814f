// Package coerce converts raw argument values into their semantic types.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/temirov/argsmith/internal/normalize"
	"github.com/temirov/argsmith/internal/types"
)

const (
	coercionErrorFormat = "cannot convert %s value %q to %s"
	runtimeTypeNone     = "none"
	runtimeTypeList     = "list"
	runtimeTypeMapping  = "mapping"
)

var truthyTokens = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"on":   {},
}

// CoercionError reports a value that could not be converted to its target type.
type CoercionError struct {
	Target types.SemanticType
	Actual string
	Raw    any
}

func (coercionError *CoercionError) Error() string {
	return fmt.Sprintf(coercionErrorFormat, coercionError.Actual, fmt.Sprint(coercionError.Raw), coercionError.Target)
}

// ParseBoolean reports whether token is one of true, 1, yes or on (case-insensitive).
// Every other token, including the empty string, is false.
func ParseBoolean(token string) bool {
	_, truthy := truthyTokens[strings.ToLower(strings.TrimSpace(token))]
	return truthy
}

// Coerce normalizes raw and converts it strictly to semanticType.
func Coerce(raw string, semanticType types.SemanticType, normalizer normalize.Normalizer) (any, error) {
	if normalizer == nil {
		normalizer = normalize.Identity{}
	}
	cleaned := normalizer.Normalize(raw)
	switch semanticType {
	case types.TypeInteger:
		parsed, parseError := strconv.ParseInt(strings.TrimSpace(cleaned), 10, 64)
		if parseError != nil {
			return nil, &CoercionError{Target: semanticType, Actual: TypeName(raw), Raw: raw}
		}
		return parsed, nil
	case types.TypeFloat:
		parsed, parseError := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
		if parseError != nil {
			return nil, &CoercionError{Target: semanticType, Actual: TypeName(raw), Raw: raw}
		}
		return parsed, nil
	case types.TypeBoolean:
		return ParseBoolean(cleaned), nil
	default:
		return cleaned, nil
	}
}

// CoerceValue converts an already decoded value (from a config file or a declared
// default) to semanticType. Strings go through Coerce.
func CoerceValue(value any, semanticType types.SemanticType, normalizer normalize.Normalizer) (any, error) {
	if textValue, isText := value.(string); isText {
		return Coerce(textValue, semanticType, normalizer)
	}
	if booleanValue, isBoolean := value.(bool); isBoolean {
		return convertBoolean(booleanValue, semanticType), nil
	}
	if integerValue, isInteger := asInteger(value); isInteger {
		return convertInteger(integerValue, semanticType), nil
	}
	if floatValue, isFloat := asFloat(value); isFloat {
		converted, ok := convertFloat(floatValue, semanticType)
		if !ok {
			return nil, &CoercionError{Target: semanticType, Actual: TypeName(value), Raw: value}
		}
		return converted, nil
	}
	return nil, &CoercionError{Target: semanticType, Actual: TypeName(value), Raw: value}
}

func convertBoolean(value bool, semanticType types.SemanticType) any {
	switch semanticType {
	case types.TypeInteger:
		if value {
			return int64(1)
		}
		return int64(0)
	case types.TypeFloat:
		if value {
			return 1.0
		}
		return 0.0
	case types.TypeBoolean:
		return value
	default:
		return strconv.FormatBool(value)
	}
}

func convertInteger(value int64, semanticType types.SemanticType) any {
	switch semanticType {
	case types.TypeInteger:
		return value
	case types.TypeFloat:
		return float64(value)
	case types.TypeBoolean:
		return value != 0
	default:
		return strconv.FormatInt(value, 10)
	}
}

func convertFloat(value float64, semanticType types.SemanticType) (any, bool) {
	switch semanticType {
	case types.TypeInteger:
		if value != math.Trunc(value) || math.IsInf(value, 0) || value >= math.MaxInt64 || value < math.MinInt64 {
			return nil, false
		}
		return int64(value), true
	case types.TypeFloat:
		return value, true
	case types.TypeBoolean:
		return value != 0, true
	default:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	}
}

func asInteger(value any) (int64, bool) {
	switch typed := value.(type) {
	case int:
		return int64(typed), true
	case int8:
		return int64(typed), true
	case int16:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case uint:
		return int64(typed), true
	case uint8:
		return int64(typed), true
	case uint16:
		return int64(typed), true
	case uint32:
		return int64(typed), true
	case uint64:
		if typed > math.MaxInt64 {
			return 0, false
		}
		return int64(typed), true
	default:
		return 0, false
	}
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

// Matches reports whether value already has the canonical Go representation of semanticType.
func Matches(value any, semanticType types.SemanticType) bool {
	switch semanticType {
	case types.TypeInteger:
		_, matches := value.(int64)
		return matches
	case types.TypeFloat:
		_, matches := value.(float64)
		return matches
	case types.TypeBoolean:
		_, matches := value.(bool)
		return matches
	case types.TypeString:
		_, matches := value.(string)
		return matches
	default:
		return false
	}
}

// ZeroValue returns the value used when no tier produced one.
func ZeroValue(semanticType types.SemanticType) any {
	switch semanticType {
	case types.TypeInteger:
		return int64(0)
	case types.TypeFloat:
		return 0.0
	case types.TypeBoolean:
		return false
	default:
		return ""
	}
}

// TypeName names the runtime type of value for error messages.
func TypeName(value any) string {
	if value == nil {
		return runtimeTypeNone
	}
	if _, isBoolean := value.(bool); isBoolean {
		return types.TypeBoolean.String()
	}
	if _, isInteger := asInteger(value); isInteger {
		return types.TypeInteger.String()
	}
	if _, isFloat := asFloat(value); isFloat {
		return types.TypeFloat.String()
	}
	switch value.(type) {
	case string:
		return types.TypeString.String()
	case []any, []string:
		return runtimeTypeList
	case map[string]any:
		return runtimeTypeMapping
	default:
		return fmt.Sprintf("%T", value)
	}
}
