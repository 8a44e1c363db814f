// Package normalize cleans raw argument text before it is coerced.
//
// The default UnicodeEliminator strips emoji and pictographs, folds the
// remaining text to its compatibility decomposition and drops every non-ASCII
// rune. The gentle mode only strips emoji and composes the rest (NFC), so
// accented and CJK text survives. Whitespace runs collapse to a single space.
// Normalizing an already normalized string returns it unchanged.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const sanitizedFilenameFallback = "file"

// Modes accepted by ForMode.
const (
	ModeASCII   = "ascii"
	ModeCompose = "compose"
	ModeNone    = "none"
)

var (
	reservedFilenameCharacters   = regexp.MustCompile(`[<>:"/\\|?*]`)
	unsupportedFilenameCharacter = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	repeatedUnderscores          = regexp.MustCompile(`_+`)
)

// emojiRanges lists the pictographic blocks removed before decomposition.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1},
		{Lo: 0x231a, Hi: 0x231a, Stride: 1},
		{Lo: 0x23cf, Hi: 0x23cf, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23e9, Stride: 1},
		{Lo: 0x2600, Hi: 0x2b55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0xfe0f, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10000, Hi: 0x10ffff, Stride: 1},
	},
}

// Normalizer converts raw text into its canonical form. Implementations must be
// deterministic and idempotent.
type Normalizer interface {
	Normalize(text string) string
}

// UnicodeEliminator removes emoji and non-ASCII decoration from text.
type UnicodeEliminator struct {
	aggressive bool
}

// NewUnicodeEliminator constructs an eliminator. When aggressive is true every
// non-ASCII rune is dropped after decomposition; otherwise the text is only composed.
func NewUnicodeEliminator(aggressive bool) *UnicodeEliminator {
	return &UnicodeEliminator{aggressive: aggressive}
}

// NewDefault returns the eliminator configuration used by the parser.
func NewDefault() *UnicodeEliminator {
	return NewUnicodeEliminator(true)
}

// ForMode returns the normalizer named by mode. An empty mode selects ModeASCII.
func ForMode(mode string) (Normalizer, bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeASCII:
		return NewDefault(), true
	case ModeCompose:
		return NewUnicodeEliminator(false), true
	case ModeNone:
		return Identity{}, true
	default:
		return nil, false
	}
}

// Normalize implements Normalizer.
func (eliminator *UnicodeEliminator) Normalize(text string) string {
	if text == "" {
		return text
	}
	transformer := eliminator.transformer()
	transformed, _, transformError := transform.String(transformer, text)
	if transformError != nil {
		transformed = text
	}
	return strings.Join(strings.Fields(transformed), " ")
}

func (eliminator *UnicodeEliminator) transformer() transform.Transformer {
	removeEmoji := runes.Remove(runes.In(emojiRanges))
	if eliminator.aggressive {
		return transform.Chain(removeEmoji, norm.NFKD, runes.Remove(runes.Predicate(isNonASCII)))
	}
	return transform.Chain(removeEmoji, norm.NFC)
}

func isNonASCII(character rune) bool {
	return character > unicode.MaxASCII
}

// SanitizeFilename normalizes text and reduces it to characters that are safe in file names.
func (eliminator *UnicodeEliminator) SanitizeFilename(filename string) string {
	cleaned := eliminator.Normalize(filename)
	cleaned = reservedFilenameCharacters.ReplaceAllString(cleaned, "")
	cleaned = unsupportedFilenameCharacter.ReplaceAllString(cleaned, "_")
	cleaned = repeatedUnderscores.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return sanitizedFilenameFallback
	}
	return cleaned
}

// Identity returns text unchanged. It disables normalization.
type Identity struct{}

// Normalize implements Normalizer.
func (Identity) Normalize(text string) string {
	return text
}

var (
	_ Normalizer = (*UnicodeEliminator)(nil)
	_ Normalizer = Identity{}
)
