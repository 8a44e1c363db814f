package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/argsmith/internal/registry"
	"github.com/temirov/argsmith/internal/tokenizer"
	"github.com/temirov/argsmith/internal/types"
	"github.com/temirov/argsmith/internal/validate"
)

const testProgramName = "app"

func staticEnviron(entries ...string) func() []string {
	return func() []string {
		return entries
	}
}

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func parseDefinitions(definitions []registry.Definition, arguments []string, options ...Option) (*Result, error) {
	parser := New(testProgramName, "", options...)
	for _, definition := range definitions {
		parser.AddArgument(definition)
	}
	return parser.Parse(arguments)
}

func sourceOf(t *testing.T, result *Result, name string) types.Source {
	t.Helper()
	for _, resolvedArgument := range result.Arguments {
		if resolvedArgument.Name == name {
			return resolvedArgument.Source
		}
	}
	t.Fatalf("%s was not resolved", name)
	return types.SourceDeclaredDefault
}

func TestParsePrecedenceTiers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		configContent  string
		environment    []string
		arguments      []string
		expectedValue  string
		expectedSource types.Source
	}{
		{
			name:           "command_line_beats_every_tier",
			configContent:  "output-path: config.txt\n",
			environment:    []string{"APP_OUTPUT_PATH=environment.txt"},
			arguments:      []string{"--output-path", "command.txt"},
			expectedValue:  "command.txt",
			expectedSource: types.SourceCommandLine,
		},
		{
			name:           "environment_beats_config",
			configContent:  "output-path: config.txt\n",
			environment:    []string{"APP_OUTPUT_PATH=environment.txt"},
			expectedValue:  "environment.txt",
			expectedSource: types.SourceEnvironmentVariable,
		},
		{
			name:           "config_beats_declared_default",
			configContent:  "output-path: config.txt\n",
			expectedValue:  "config.txt",
			expectedSource: types.SourceConfigFile,
		},
		{
			name:           "declared_default_alone",
			expectedValue:  "default.txt",
			expectedSource: types.SourceDeclaredDefault,
		},
		{
			name:           "malformed_config_contributes_nothing",
			configContent:  "output-path: [unterminated\n",
			expectedValue:  "default.txt",
			expectedSource: types.SourceDeclaredDefault,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			parser := New(testProgramName, "", WithEnvironment(staticEnviron(testCase.environment...)))
			parser.AddArgument(registry.Definition{Name: "--output-path"}.WithDefault("default.txt"))
			if testCase.configContent != "" {
				configPath := filepath.Join(t.TempDir(), "settings.yaml")
				writeTestFile(t, configPath, testCase.configContent)
				parser.AddConfigFile(configPath)
			}

			result, err := parser.Parse(testCase.arguments)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if value := result.Values["output-path"]; value != testCase.expectedValue {
				t.Fatalf("output-path = %#v, want %q", value, testCase.expectedValue)
			}
			if source := sourceOf(t, result, "output-path"); source != testCase.expectedSource {
				t.Fatalf("source = %s, want %s", source, testCase.expectedSource)
			}
		})
	}
}

func TestParseZeroValueAndMissingRequired(t *testing.T) {
	t.Parallel()

	parser := New(testProgramName, "", WithEnvironment(staticEnviron()))
	parser.AddArgument(registry.Definition{Name: "max-count"})
	parser.AddArgument(registry.Definition{Name: "enable-cache"})
	parser.AddArgument(registry.Definition{Name: "growth-rate"})
	parser.AddArgument(registry.Definition{Name: "label"})

	result, err := parser.Parse(nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	expectedValues := map[string]any{
		"max-count":    int64(0),
		"enable-cache": false,
		"growth-rate":  float64(0),
		"label":        "",
	}
	if !reflect.DeepEqual(result.Values, expectedValues) {
		t.Fatalf("Values = %#v, want %#v", result.Values, expectedValues)
	}

	parser.AddArgument(registry.Definition{Name: "token", Required: true})
	_, err = parser.Parse(nil)
	var report validate.Report
	if !errors.As(err, &report) {
		t.Fatalf("expected validate.Report, got %v", err)
	}
	if len(report.Entries) != 1 || report.Entries[0].Kind != validate.KindMissingRequired {
		t.Fatalf("unexpected report %+v", report.Entries)
	}
	if !strings.Contains(report.Entries[0].Message, "APP_TOKEN") {
		t.Fatalf("missing-argument message does not name the variable: %s", report.Entries[0].Message)
	}
}

func TestParseAggregatesEveryProblem(t *testing.T) {
	t.Parallel()

	requiredDefinition := registry.Definition{Name: "name", Required: true}
	typedDefinition := registry.Definition{Name: "max-count", Type: types.TypeInteger}

	for _, order := range [][]registry.Definition{
		{requiredDefinition, typedDefinition},
		{typedDefinition, requiredDefinition},
	} {
		_, err := parseDefinitions(order, []string{"--max-count", "abc"}, WithEnvironment(staticEnviron()))
		var report validate.Report
		if !errors.As(err, &report) {
			t.Fatalf("expected validate.Report, got %v", err)
		}
		if len(report.Entries) != 2 {
			t.Fatalf("expected two entries, got %v", report.Messages())
		}
		if report.Entries[0].ArgumentName == report.Entries[1].ArgumentName {
			t.Fatalf("expected one entry per definition, got %v", report.Messages())
		}
	}
}

func TestParseCoercesByInferredType(t *testing.T) {
	t.Parallel()

	definitions := []registry.Definition{
		{Name: "max-count"},
		{Name: "enable-cache"},
		{Name: "growth-rate"},
		{Name: "output-path"},
	}
	result, err := parseDefinitions(definitions, []string{
		"--max-count", "42",
		"--enable-cache",
		"--growth-rate=0.5",
		"--output-path", "42",
	}, WithEnvironment(staticEnviron()))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Values["max-count"] != int64(42) {
		t.Fatalf("max-count = %#v", result.Values["max-count"])
	}
	if result.Values["enable-cache"] != true {
		t.Fatalf("enable-cache = %#v", result.Values["enable-cache"])
	}
	if result.Values["growth-rate"] != 0.5 {
		t.Fatalf("growth-rate = %#v", result.Values["growth-rate"])
	}
	if result.Values["output-path"] != "42" {
		t.Fatalf("output-path = %#v", result.Values["output-path"])
	}

	_, err = parseDefinitions(definitions, []string{"--max-count", "5", "6"}, WithEnvironment(staticEnviron()))
	var unrecognizedArgumentsError *UnrecognizedArgumentsError
	if !errors.As(err, &unrecognizedArgumentsError) || !reflect.DeepEqual(unrecognizedArgumentsError.Arguments, []string{"6"}) {
		t.Fatalf("expected stray positional to be rejected, got %v", err)
	}
	if err.Error() != "unrecognized arguments: 6" {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestParseBooleanLiterals(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		arguments   []string
		environment []string
		expected    bool
	}{
		{name: "presence", arguments: []string{"--enable-cache"}, expected: true},
		{name: "separate_false_literal", arguments: []string{"--enable-cache", "no"}, expected: false},
		{name: "attached_literal", arguments: []string{"--enable-cache=On"}, expected: true},
		{name: "environment_truthy", environment: []string{"APP_ENABLE_CACHE=YES"}, expected: true},
		{name: "environment_other_text", environment: []string{"APP_ENABLE_CACHE=nope"}, expected: false},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			result, err := parseDefinitions([]registry.Definition{{Name: "enable-cache"}}, testCase.arguments, WithEnvironment(staticEnviron(testCase.environment...)))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if result.Values["enable-cache"] != testCase.expected {
				t.Fatalf("enable-cache = %#v, want %t", result.Values["enable-cache"], testCase.expected)
			}
		})
	}
}

func TestParseUnknownFlagCarriesSuggestions(t *testing.T) {
	t.Parallel()

	definitions := []registry.Definition{{Name: "input"}, {Name: "output"}, {Name: "verbose"}}
	_, err := parseDefinitions(definitions, []string{"--inut", "file.txt"}, WithEnvironment(staticEnviron()))
	var unknownFlagError *tokenizer.UnknownFlagError
	if !errors.As(err, &unknownFlagError) {
		t.Fatalf("expected *tokenizer.UnknownFlagError, got %v", err)
	}
	if !reflect.DeepEqual(unknownFlagError.Suggestions, []string{"--input"}) {
		t.Fatalf("Suggestions = %v", unknownFlagError.Suggestions)
	}
	if !strings.Contains(unknownFlagError.Error(), "did you mean --input") {
		t.Fatalf("error text lacks suggestion: %s", unknownFlagError.Error())
	}
}

func TestParseHelpRequested(t *testing.T) {
	t.Parallel()

	_, err := parseDefinitions([]registry.Definition{{Name: "input"}}, []string{"--help"}, WithEnvironment(staticEnviron()))
	if !errors.Is(err, tokenizer.ErrHelpRequested) {
		t.Fatalf("expected ErrHelpRequested, got %v", err)
	}
}

func TestParseSubcommands(t *testing.T) {
	t.Parallel()

	newParser := func() *Parser {
		parser := New(testProgramName, "", WithEnvironment(staticEnviron("APP_PORT=7000")))
		parser.AddArgument(registry.Definition{Name: "verbose"})
		parser.AddSubcommand("serve", "Run the server", func(subcommand *Subcommand) {
			subcommand.AddArgument(registry.Definition{Name: "port"}.WithDefault(8080))
		})
		parser.AddSubcommand("build", "Build artifacts", func(subcommand *Subcommand) {
			subcommand.AddArgument(registry.Definition{Name: "output-dir"})
		})
		return parser
	}

	result, err := newParser().Parse([]string{"--verbose", "serve"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Subcommand != "serve" || result.Values["verbose"] != true {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Values["port"] != int64(7000) || sourceOf(t, result, "port") != types.SourceEnvironmentVariable {
		t.Fatalf("port = %#v from %s", result.Values["port"], sourceOf(t, result, "port"))
	}
	if _, declared := result.Values["output-dir"]; declared {
		t.Fatalf("arguments of other subcommands must not be resolved")
	}

	result, err = newParser().Parse([]string{"serve", "--port", "9000", "--verbose"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Values["port"] != int64(9000) || result.Values["verbose"] != true {
		t.Fatalf("global flags after the subcommand were not applied: %+v", result.Values)
	}

	result, err = newParser().Parse([]string{"--verbose"})
	if err != nil {
		t.Fatalf("global-only invocation failed: %v", err)
	}
	if result.Subcommand != "" || result.Values["verbose"] != true {
		t.Fatalf("unexpected global-only result %+v", result)
	}
	if _, declared := result.Values["port"]; declared {
		t.Fatalf("subcommand arguments must not be resolved without a subcommand")
	}

	result, err = newParser().Parse(nil)
	if err != nil || result.Subcommand != "" {
		t.Fatalf("empty invocation: result %+v, err %v", result, err)
	}

	_, err = newParser().Parse([]string{"serv"})
	var unknownSubcommandError *UnknownSubcommandError
	if !errors.As(err, &unknownSubcommandError) {
		t.Fatalf("expected *UnknownSubcommandError, got %v", err)
	}
	if !reflect.DeepEqual(unknownSubcommandError.Suggestions, []string{"serve"}) {
		t.Fatalf("Suggestions = %v", unknownSubcommandError.Suggestions)
	}

	_, err = newParser().Parse([]string{"serve", "extra"})
	var unrecognizedArgumentsError *UnrecognizedArgumentsError
	if !errors.As(err, &unrecognizedArgumentsError) || !reflect.DeepEqual(unrecognizedArgumentsError.Arguments, []string{"extra"}) {
		t.Fatalf("expected positional after the subcommand to be rejected, got %v", err)
	}

	_, err = newParser().Parse([]string{"build", "--port", "1"})
	var unknownFlagError *tokenizer.UnknownFlagError
	if !errors.As(err, &unknownFlagError) {
		t.Fatalf("expected flags of other subcommands to be unknown, got %v", err)
	}

	_, err = newParser().Parse([]string{"--port", "3", "serve"})
	if !errors.As(err, &unknownFlagError) {
		t.Fatalf("expected subcommand flag before the subcommand to be unknown, got %v", err)
	}
	if !reflect.DeepEqual(unknownFlagError.Suggestions, []string{"--port"}) {
		t.Fatalf("Suggestions = %v", unknownFlagError.Suggestions)
	}
}

func TestParseTypeFromDeclaredDefault(t *testing.T) {
	t.Parallel()

	parser := New(testProgramName, "", WithEnvironment(staticEnviron()))
	parser.AddArgument(registry.Definition{Name: "retries"}.WithDefault(3))
	definition, _ := parser.registry.Lookup("retries")
	if definition.Type != types.TypeInteger {
		t.Fatalf("Type = %s, want integer", definition.Type)
	}
	if definition.Help != "Set retries (integer)" {
		t.Fatalf("Help = %q", definition.Help)
	}

	_, err := parser.Parse([]string{"--retries", "many"})
	var report validate.Report
	if !errors.As(err, &report) || report.Entries[0].Kind != validate.KindTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if report.Entries[0].Message != "--retries: Expected integer, got string" {
		t.Fatalf("Message = %q", report.Entries[0].Message)
	}
}

func TestParseUnicodeSafety(t *testing.T) {
	t.Parallel()

	definitions := []registry.Definition{{Name: "output-path"}}
	arguments := []string{"--output-path", "r\u00e9sum\u00e9.txt"}

	result, err := parseDefinitions(definitions, arguments, WithEnvironment(staticEnviron()))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Values["output-path"] != "resume.txt" {
		t.Fatalf("normalized output-path = %#v", result.Values["output-path"])
	}

	result, err = parseDefinitions(definitions, arguments, WithEnvironment(staticEnviron()), WithUnicodeSafety(false))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Values["output-path"] != "r\u00e9sum\u00e9.txt" {
		t.Fatalf("untouched output-path = %#v", result.Values["output-path"])
	}
}

func TestParseInvokesValidatorOnceWithCoercedValue(t *testing.T) {
	t.Parallel()

	var received []any
	definition := registry.Definition{
		Name: "port",
		Validator: func(value any) error {
			received = append(received, value)
			if value.(int64) > 65535 {
				return errors.New("port out of range")
			}
			return nil
		},
	}

	_, err := parseDefinitions([]registry.Definition{definition}, []string{"--port", "70000"}, WithEnvironment(staticEnviron()))
	if err == nil || !strings.Contains(err.Error(), "--port: port out of range") {
		t.Fatalf("expected validator failure, got %v", err)
	}
	if !reflect.DeepEqual(received, []any{int64(70000)}) {
		t.Fatalf("validator received %#v", received)
	}
}

func TestParseExplicitEnvironmentVariableAndDotenv(t *testing.T) {
	t.Parallel()

	dotenvPath := filepath.Join(t.TempDir(), ".env")
	writeTestFile(t, dotenvPath, "APP_LABEL=from-dotenv\nAPI_TOKEN=dotenv-token\n")

	parser := New(testProgramName, "", WithEnvironment(staticEnviron("API_TOKEN=process-token")))
	parser.AddArgument(registry.Definition{Name: "token", EnvVar: "API_TOKEN", Required: true})
	parser.AddArgument(registry.Definition{Name: "label"})
	parser.AddEnvFile(dotenvPath)

	result, err := parser.Parse(nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Values["token"] != "process-token" {
		t.Fatalf("token = %#v", result.Values["token"])
	}
	if result.Values["label"] != "from-dotenv" {
		t.Fatalf("label = %#v", result.Values["label"])
	}
}

func TestParseCustomPrefixAndNestedConfigKey(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "settings.json")
	writeTestFile(t, configPath, `{"server": {"timeout": 30}}`)

	parser := New(testProgramName, "", WithEnvironment(staticEnviron("APP_TIMEOUT=1", "SVC_RETRY_COUNT=4")))
	parser.SetEnvPrefix("SVC")
	parser.AddConfigFile(configPath)
	parser.AddArgument(registry.Definition{Name: "timeout", ConfigKey: "server.timeout"})
	parser.AddArgument(registry.Definition{Name: "retry-count"})

	result, err := parser.Parse(nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if result.Values["timeout"] != int64(30) || sourceOf(t, result, "timeout") != types.SourceConfigFile {
		t.Fatalf("timeout = %#v from %s", result.Values["timeout"], sourceOf(t, result, "timeout"))
	}
	if result.Values["retry-count"] != int64(4) {
		t.Fatalf("retry-count = %#v", result.Values["retry-count"])
	}
}

func TestUsageListsOptionsAndCommands(t *testing.T) {
	t.Parallel()

	parser := New(testProgramName, "Example program")
	parser.AddArgument(registry.Definition{Name: "output-path"})
	parser.AddSubcommand("serve", "Run the server", nil)

	usage := parser.Usage()
	for _, expected := range []string{"Usage: app [options] <command>", "Example program", "--output-path", "Specify output path", "serve", "Run the server"} {
		if !strings.Contains(usage, expected) {
			t.Fatalf("usage lacks %q:\n%s", expected, usage)
		}
	}
}
