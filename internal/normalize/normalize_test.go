package normalize

import "testing"

func TestUnicodeEliminatorNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		aggressive bool
		input      string
		expected   string
	}{
		{name: "plain_ascii_unchanged", aggressive: true, input: "report.txt", expected: "report.txt"},
		{name: "emoji_removed", aggressive: true, input: "🚀 launch", expected: "launch"},
		{name: "number_embedded_in_decoration", aggressive: true, input: " ✨42✨ ", expected: "42"},
		{name: "accents_folded", aggressive: true, input: "café naïve", expected: "cafe naive"},
		{name: "ligature_decomposed", aggressive: true, input: "ﬁle", expected: "file"},
		{name: "whitespace_collapsed", aggressive: true, input: "a \t  b\n c", expected: "a b c"},
		{name: "non_latin_dropped_when_aggressive", aggressive: true, input: "abc日本", expected: "abc"},
		{name: "non_latin_kept_when_gentle", aggressive: false, input: "abc日本", expected: "abc日本"},
		{name: "accents_kept_when_gentle", aggressive: false, input: "r\u00e9sum\u00e9", expected: "r\u00e9sum\u00e9"},
		{name: "combining_mark_composed_when_gentle", aggressive: false, input: "cafe\u0301", expected: "caf\u00e9"},
		{name: "voiced_mark_kept_when_gentle", aggressive: false, input: "\uff76\uff9e", expected: "\uff76\uff9e"},
		{name: "emoji_removed_when_gentle", aggressive: false, input: "🚀 caf\u00e9", expected: "caf\u00e9"},
		{name: "empty", aggressive: true, input: "", expected: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			eliminator := NewUnicodeEliminator(testCase.aggressive)
			if normalized := eliminator.Normalize(testCase.input); normalized != testCase.expected {
				t.Fatalf("Normalize(%q) = %q, want %q", testCase.input, normalized, testCase.expected)
			}
		})
	}
}

func TestUnicodeEliminatorIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"🔥 hot  path 🔥", "Ærøskøbing", "x‍y", "  spaced   out  ", "plain", "日本語 text"}
	for _, aggressive := range []bool{true, false} {
		eliminator := NewUnicodeEliminator(aggressive)
		for _, input := range inputs {
			once := eliminator.Normalize(input)
			twice := eliminator.Normalize(once)
			if once != twice {
				t.Fatalf("normalization not idempotent for %q (aggressive=%t): %q then %q", input, aggressive, once, twice)
			}
		}
	}
}

func TestForMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode     string
		input    string
		expected string
		known    bool
	}{
		{mode: "", input: "r\u00e9sum\u00e9", expected: "resume", known: true},
		{mode: ModeASCII, input: "r\u00e9sum\u00e9", expected: "resume", known: true},
		{mode: "Compose", input: "r\u00e9sum\u00e9 🚀", expected: "r\u00e9sum\u00e9", known: true},
		{mode: ModeNone, input: " r\u00e9sum\u00e9 🚀", expected: " r\u00e9sum\u00e9 🚀", known: true},
		{mode: "latin1", known: false},
	}
	for _, testCase := range testCases {
		normalizer, known := ForMode(testCase.mode)
		if known != testCase.known {
			t.Fatalf("ForMode(%q) known = %t, want %t", testCase.mode, known, testCase.known)
		}
		if !known {
			continue
		}
		if normalized := normalizer.Normalize(testCase.input); normalized != testCase.expected {
			t.Fatalf("ForMode(%q).Normalize(%q) = %q, want %q", testCase.mode, testCase.input, normalized, testCase.expected)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	eliminator := NewDefault()
	testCases := map[string]string{
		"my report.txt":   "my_report.txt",
		"a<b>c:d?.log":    "abcd.log",
		"📄":               "file",
		"__weird__name__": "weird_name",
	}
	for input, expected := range testCases {
		if sanitized := eliminator.SanitizeFilename(input); sanitized != expected {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", input, sanitized, expected)
		}
	}
}

func TestIdentityLeavesTextUntouched(t *testing.T) {
	t.Parallel()

	if normalized := (Identity{}).Normalize("  🚀 x "); normalized != "  🚀 x " {
		t.Fatalf("identity normalizer changed text: %q", normalized)
	}
}
