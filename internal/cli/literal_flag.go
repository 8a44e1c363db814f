package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	literalFlagTypeName            = "bool"
	invalidLiteralFlagValueMessage = "invalid value '%s' for --%s"
	argumentTerminator             = "--"
)

var (
	trueFlagLiterals = map[string]struct{}{
		"":     {},
		"true": {},
		"t":    {},
		"1":    {},
		"yes":  {},
		"y":    {},
		"on":   {},
	}
	falseFlagLiterals = map[string]struct{}{
		"false": {},
		"f":     {},
		"0":     {},
		"no":    {},
		"n":     {},
		"off":   {},
	}
	// literalFlagNames lists argsmith's own boolean flags that accept a separate literal ("--copy no").
	literalFlagNames = []string{copyFlagName, forceFlagName, unicodeSafetyFlagName, debugFlagName}
)

func interpretFlagLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if _, matches := trueFlagLiterals[normalized]; matches {
		return true, true
	}
	if _, matches := falseFlagLiterals[normalized]; matches {
		return false, true
	}
	return false, false
}

// literalFlagValue is a boolean flag that rejects anything but a known literal.
type literalFlagValue struct {
	name   string
	target *bool
}

func (value *literalFlagValue) Set(input string) error {
	booleanValue, ok := interpretFlagLiteral(input)
	if !ok {
		return fmt.Errorf(invalidLiteralFlagValueMessage, input, value.name)
	}
	*value.target = booleanValue
	return nil
}

func (value *literalFlagValue) String() string {
	if value.target != nil && *value.target {
		return "true"
	}
	return "false"
}

func (value *literalFlagValue) Type() string {
	return literalFlagTypeName
}

// registerLiteralFlag declares a boolean flag that may be given bare, with "=literal" or
// followed by a separate literal.
func registerLiteralFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&literalFlagValue{name: name, target: target}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.NoOptDefVal = "true"
		lookup.DefValue = fmt.Sprint(defaultValue)
	}
}

// normalizeLiteralFlagArguments rewrites "--flag literal" into "--flag=literal" for argsmith's own
// boolean flags. Tokens after "--" belong to the resolved program and are kept verbatim.
func normalizeLiteralFlagArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		name, isLiteralFlag := literalFlagName(current)
		if isLiteralFlag && index+1 < len(arguments) {
			if booleanValue, ok := interpretFlagLiteral(arguments[index+1]); ok && arguments[index+1] != "" {
				normalized = append(normalized, fmt.Sprintf("--%s=%t", name, booleanValue))
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func literalFlagName(argument string) (string, bool) {
	if !strings.HasPrefix(argument, "--") || strings.Contains(argument, "=") {
		return "", false
	}
	name := strings.TrimPrefix(argument, "--")
	for _, candidate := range literalFlagNames {
		if candidate == name {
			return name, true
		}
	}
	return "", false
}
