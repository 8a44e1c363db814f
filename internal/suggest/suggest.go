// Package suggest finds declared flag names close to a mistyped one.
package suggest

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/temirov/argsmith/internal/types"
)

const (
	// MinimumSimilarity is the lowest edit-distance ratio reported as a suggestion.
	MinimumSimilarity = 0.6
	// MaximumSuggestions caps the number of suggestions returned.
	MaximumSuggestions = 3
)

type scoredCandidate struct {
	name       string
	similarity float64
}

// Suggest returns up to three known names similar to unknownFlag, best first,
// each prefixed with the long flag marker. Candidates with equal similarity keep
// the order of knownNames.
func Suggest(unknownFlag string, knownNames []string) []string {
	bareUnknown := strings.TrimLeft(unknownFlag, "-")
	if index := strings.IndexByte(bareUnknown, '='); index >= 0 {
		bareUnknown = bareUnknown[:index]
	}
	bareKnownNames := make([]string, 0, len(knownNames))
	for _, knownName := range knownNames {
		bareKnownNames = append(bareKnownNames, strings.TrimLeft(knownName, "-"))
	}

	closest := Closest(bareUnknown, bareKnownNames)
	if len(closest) == 0 {
		return nil
	}
	suggestions := make([]string, 0, len(closest))
	for _, name := range closest {
		suggestions = append(suggestions, types.FlagMarker+name)
	}
	return suggestions
}

// Closest ranks candidates by similarity to target and returns up to three of them
// verbatim. It is used directly for names that carry no flag marker, such as subcommands.
func Closest(target string, candidates []string) []string {
	if target == "" {
		return nil
	}
	var scored []scoredCandidate
	for _, candidate := range candidates {
		similarity := levenshtein.Similarity(target, candidate, nil)
		if similarity >= MinimumSimilarity {
			scored = append(scored, scoredCandidate{name: candidate, similarity: similarity})
		}
	}
	sort.SliceStable(scored, func(left, right int) bool {
		return scored[left].similarity > scored[right].similarity
	})
	if len(scored) > MaximumSuggestions {
		scored = scored[:MaximumSuggestions]
	}

	names := make([]string, 0, len(scored))
	for _, candidate := range scored {
		names = append(names, candidate.name)
	}
	return names
}
