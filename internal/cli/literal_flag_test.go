package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterLiteralFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{
			name:      "defaults_to_false",
			arguments: []string{},
			expected:  false,
		},
		{
			name:      "sets_true_without_value",
			arguments: []string{"--copy"},
			expected:  true,
		},
		{
			name:      "sets_false_with_equals",
			arguments: []string{"--copy=false"},
			expected:  false,
		},
		{
			name:      "sets_false_with_separate_literal",
			arguments: []string{"--copy", "no"},
			expected:  false,
		},
		{
			name:        "rejects_invalid_text",
			arguments:   []string{"--copy=maybe"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue bool
			flagSet := pflag.NewFlagSet("copy-flag", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			registerLiteralFlag(flagSet, &flagValue, copyFlagName, false, copyFlagDescription)
			parseErr := flagSet.Parse(normalizeLiteralFlagArguments(testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeLiteralFlagArgumentsStopsAtTerminator(t *testing.T) {
	t.Parallel()

	arguments := []string{"resolve", "--copy", "yes", "--force", "--", "--copy", "no"}
	expected := []string{"resolve", "--copy=true", "--force", "--", "--copy", "no"}
	if normalized := normalizeLiteralFlagArguments(arguments); !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("normalizeLiteralFlagArguments = %v, want %v", normalized, expected)
	}
}
