package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestDecodeFileFormats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		fileName      string
		content       string
		expectedKey   string
		expectedValue any
	}{
		{
			name:          "yaml_nested_section",
			fileName:      "settings.yaml",
			content:       "Server:\n  Port: 8080\n",
			expectedKey:   "server.port",
			expectedValue: 8080,
		},
		{
			name:          "json_numbers_decode_as_float",
			fileName:      "settings.json",
			content:       `{"max-count": 5}`,
			expectedKey:   "max-count",
			expectedValue: float64(5),
		},
		{
			name:          "jsonc_comments_stripped",
			fileName:      "settings.jsonc",
			content:       "{\n  // output target\n  \"output\": \"out.txt\", /* trailing */\n}\n",
			expectedKey:   "output",
			expectedValue: "out.txt",
		},
		{
			name:          "toml_integer",
			fileName:      "settings.toml",
			content:       "timeout = 30\n",
			expectedKey:   "timeout",
			expectedValue: int64(30),
		},
		{
			name:          "hcl_integer_attribute",
			fileName:      "settings.hcl",
			content:       "port = 9090\n",
			expectedKey:   "port",
			expectedValue: int64(9090),
		},
		{
			name:          "hcl_fractional_attribute",
			fileName:      "settings.hcl",
			content:       "rate = 0.25\n",
			expectedKey:   "rate",
			expectedValue: 0.25,
		},
		{
			name:          "hcl_object_flattened",
			fileName:      "settings.hcl",
			content:       "server = {\n  Host = \"example.com\"\n  debug = true\n}\n",
			expectedKey:   "server.host",
			expectedValue: "example.com",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), testCase.fileName)
			writeTestFile(t, path, testCase.content)

			mapping, err := DecodeFile(path)
			if err != nil {
				t.Fatalf("DecodeFile error: %v", err)
			}
			if mapping[testCase.expectedKey] != testCase.expectedValue {
				t.Fatalf("%s = %#v (%T), want %#v", testCase.expectedKey, mapping[testCase.expectedKey], mapping[testCase.expectedKey], testCase.expectedValue)
			}
		})
	}
}

func TestDecodeFileErrors(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	malformedPath := filepath.Join(directory, "broken.json")
	writeTestFile(t, malformedPath, "{not json")

	testCases := []struct {
		name       string
		path       string
		expectMiss bool
	}{
		{name: "missing_file", path: filepath.Join(directory, "absent.yaml"), expectMiss: true},
		{name: "malformed_file", path: malformedPath},
		{name: "directory", path: directory},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeFile(testCase.path)
			var decodeError *DecodeError
			if !errors.As(err, &decodeError) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if errors.Is(err, fs.ErrNotExist) != testCase.expectMiss {
				t.Fatalf("not-exist classification = %t, want %t", errors.Is(err, fs.ErrNotExist), testCase.expectMiss)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)

	if expanded := ExpandHome("~/app.yaml"); expanded != filepath.Join(homeDirectory, "app.yaml") {
		t.Fatalf("ExpandHome = %s", expanded)
	}
	if expanded := ExpandHome("relative/~/app.yaml"); expanded != "relative/~/app.yaml" {
		t.Fatalf("ExpandHome altered a path without a home prefix: %s", expanded)
	}
}
