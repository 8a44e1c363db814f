// Package utils contains general helpers shared by argsmith packages.
package utils

import "strings"

// DeduplicateStrings removes duplicate entries while preserving order.
// Blank entries are dropped and surrounding whitespace is trimmed.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if trimmedValue == "" {
			continue
		}
		if _, exists := encounteredValues[trimmedValue]; !exists {
			encounteredValues[trimmedValue] = struct{}{}
			result = append(result, trimmedValue)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}
