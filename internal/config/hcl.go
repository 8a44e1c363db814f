package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const unsupportedCtyTypeFormat = "unsupported value type %s for %q"

// decodeHCL reads top-level attributes of an HCL file. Object values are flattened into dotted keys.
func decodeHCL(path string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diagnostics := parser.ParseHCLFile(path)
	if diagnostics.HasErrors() {
		return nil, &DecodeError{Path: path, Err: diagnostics}
	}
	attributes, diagnostics := file.Body.JustAttributes()
	if diagnostics.HasErrors() {
		return nil, &DecodeError{Path: path, Err: diagnostics}
	}

	mapping := make(map[string]any, len(attributes))
	for name, attribute := range attributes {
		value, valueDiagnostics := attribute.Expr.Value(nil)
		if valueDiagnostics.HasErrors() {
			return nil, &DecodeError{Path: path, Err: valueDiagnostics}
		}
		native, conversionError := ctyToNative(name, value)
		if conversionError != nil {
			return nil, &DecodeError{Path: path, Err: conversionError}
		}
		flattenInto(mapping, strings.ToLower(name), native)
	}
	return mapping, nil
}

// ctyToNative converts a cty value into string, int64, float64, bool, []any or map[string]any.
func ctyToNative(name string, value cty.Value) (any, error) {
	if value.IsNull() || !value.IsKnown() {
		return nil, nil
	}
	valueType := value.Type()
	switch {
	case valueType == cty.String:
		return value.AsString(), nil
	case valueType == cty.Number:
		var integer int64
		if integerError := gocty.FromCtyValue(value, &integer); integerError == nil {
			return integer, nil
		}
		var float float64
		if floatError := gocty.FromCtyValue(value, &float); floatError != nil {
			return nil, floatError
		}
		return float, nil
	case valueType == cty.Bool:
		return value.True(), nil
	case valueType.IsListType() || valueType.IsTupleType() || valueType.IsSetType():
		elements := make([]any, 0, value.LengthInt())
		iterator := value.ElementIterator()
		for iterator.Next() {
			_, element := iterator.Element()
			native, elementError := ctyToNative(name, element)
			if elementError != nil {
				return nil, elementError
			}
			elements = append(elements, native)
		}
		return elements, nil
	case valueType.IsObjectType() || valueType.IsMapType():
		nested := make(map[string]any)
		iterator := value.ElementIterator()
		for iterator.Next() {
			key, element := iterator.Element()
			native, elementError := ctyToNative(name+keySeparator+key.AsString(), element)
			if elementError != nil {
				return nil, elementError
			}
			nested[key.AsString()] = native
		}
		return nested, nil
	default:
		return nil, fmt.Errorf(unsupportedCtyTypeFormat, valueType.FriendlyName(), name)
	}
}
