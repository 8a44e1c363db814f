// Package tokenizer turns argv into a flat mapping of flag name to raw value using pflag.
package tokenizer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

const (
	unknownFlagMessageMarker      = "unknown flag: "
	unknownShorthandMessageMarker = "unknown shorthand flag: "
	unknownFlagErrorFormat        = "unknown flag %s"
	suggestionsErrorFormat        = "%s (did you mean %s?)"
	suggestionSeparator           = ", "
	booleanPresenceValue          = "true"
)

// ErrHelpRequested is returned when --help or -h is present and no flag named help is declared.
var ErrHelpRequested = errors.New("help requested")

// UnknownFlagError reports a flag the tokenizer does not recognize.
type UnknownFlagError struct {
	Flag        string
	Suggestions []string
	Err         error
}

func (unknownFlagError *UnknownFlagError) Error() string {
	message := fmt.Sprintf(unknownFlagErrorFormat, unknownFlagError.Flag)
	if len(unknownFlagError.Suggestions) == 0 {
		return message
	}
	return fmt.Sprintf(suggestionsErrorFormat, message, strings.Join(unknownFlagError.Suggestions, suggestionSeparator))
}

func (unknownFlagError *UnknownFlagError) Unwrap() error {
	return unknownFlagError.Err
}

// FlagSpec describes one flag the tokenizer should recognize.
type FlagSpec struct {
	Name     string
	TypeName string
	Boolean  bool
	Usage    string
}

// Tokens is the outcome of tokenizing one argument list.
// Values holds only flags that were present; booleans given without a value map to "true".
type Tokens struct {
	Values      map[string]string
	Positionals []string
}

// Tokenize parses arguments against specs. When interspersed is false parsing stops at the
// first positional argument, which lets the caller dispatch to a subcommand.
func Tokenize(setName string, specs []FlagSpec, arguments []string, interspersed bool) (Tokens, error) {
	flagSet, booleanNames := buildFlagSet(setName, specs)
	flagSet.SetInterspersed(interspersed)

	parseError := flagSet.Parse(normalizeBooleanFlagArguments(booleanNames, arguments))
	if parseError != nil {
		if errors.Is(parseError, pflag.ErrHelp) {
			return Tokens{}, ErrHelpRequested
		}
		if unknownFlag, isUnknown := unknownFlagName(parseError); isUnknown {
			return Tokens{}, &UnknownFlagError{Flag: unknownFlag, Err: parseError}
		}
		return Tokens{}, fmt.Errorf("parse %s arguments: %w", setName, parseError)
	}

	tokens := Tokens{
		Values:      make(map[string]string),
		Positionals: flagSet.Args(),
	}
	flagSet.Visit(func(flag *pflag.Flag) {
		tokens.Values[flag.Name] = flag.Value.String()
	})
	return tokens, nil
}

// FlagUsages renders the usage block for specs.
func FlagUsages(setName string, specs []FlagSpec) string {
	flagSet, _ := buildFlagSet(setName, specs)
	return flagSet.FlagUsages()
}

func buildFlagSet(setName string, specs []FlagSpec) (*pflag.FlagSet, map[string]struct{}) {
	flagSet := pflag.NewFlagSet(setName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}
	booleanNames := make(map[string]struct{})
	for _, spec := range specs {
		registerRawFlag(flagSet, spec)
		if spec.Boolean {
			booleanNames[spec.Name] = struct{}{}
		}
	}
	return flagSet, booleanNames
}

// unknownFlagName extracts the offending flag from pflag's error text.
func unknownFlagName(parseError error) (string, bool) {
	message := parseError.Error()
	if _, flagText, found := strings.Cut(message, unknownFlagMessageMarker); found {
		return strings.TrimSpace(flagText), true
	}
	if _, shorthandText, found := strings.Cut(message, unknownShorthandMessageMarker); found {
		shorthand := strings.Trim(strings.Fields(shorthandText + " ")[0], "'")
		return "-" + shorthand, true
	}
	return "", false
}
