package tokenizer

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const booleanFlagTypeName = "bool"

// booleanFlagLiterals lists the tokens accepted as the separate value of a boolean flag
// ("--verbose yes"). Whether a literal means true is decided later by coercion.
var booleanFlagLiterals = map[string]struct{}{
	"true":  {},
	"t":     {},
	"1":     {},
	"yes":   {},
	"y":     {},
	"on":    {},
	"false": {},
	"f":     {},
	"0":     {},
	"no":    {},
	"n":     {},
	"off":   {},
}

// rawFlagValue records the last raw string given for a flag without converting it.
type rawFlagValue struct {
	raw      string
	typeName string
}

func (value *rawFlagValue) Set(input string) error {
	value.raw = input
	return nil
}

func (value *rawFlagValue) String() string {
	return value.raw
}

func (value *rawFlagValue) Type() string {
	return value.typeName
}

func registerRawFlag(flagSet *pflag.FlagSet, spec FlagSpec) {
	if flagSet == nil || spec.Name == "" {
		return
	}
	typeName := spec.TypeName
	if spec.Boolean {
		typeName = booleanFlagTypeName
	}
	flagSet.Var(&rawFlagValue{typeName: typeName}, spec.Name, spec.Usage)
	if spec.Boolean {
		if lookup := flagSet.Lookup(spec.Name); lookup != nil {
			lookup.NoOptDefVal = booleanPresenceValue
		}
	}
}

// normalizeBooleanFlagArguments rewrites "--flag literal" into "--flag=literal" for boolean
// flags so the literal is not mistaken for a positional argument.
func normalizeBooleanFlagArguments(booleanNames map[string]struct{}, arguments []string) []string {
	if len(booleanNames) == 0 || len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, "--") && !strings.Contains(currentArgument, "=") {
			flagName := strings.TrimPrefix(currentArgument, "--")
			if _, exists := booleanNames[flagName]; exists && index+1 < len(arguments) {
				nextArgument := arguments[index+1]
				if !strings.HasPrefix(nextArgument, "-") {
					literal := strings.ToLower(strings.TrimSpace(nextArgument))
					if _, valid := booleanFlagLiterals[literal]; valid {
						normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, nextArgument))
						index += 2
						continue
					}
				}
			}
		}
		normalized = append(normalized, currentArgument)
		index++
	}
	return normalized
}
