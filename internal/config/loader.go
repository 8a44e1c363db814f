package config

import (
	"errors"
	"io/fs"

	"go.uber.org/zap"
)

const (
	logMessageConfigSkipped = "configuration file contributes nothing"
	logMessageConfigLoaded  = "configuration file loaded"
	logFieldPath            = "path"
	logFieldKeys            = "keys"
)

// LoadMappings decodes every path in order and merges the results, later files
// overriding earlier ones. Loading is best effort: a missing or undecodable file
// is logged and skipped, it never fails the caller.
func LoadMappings(paths []string, logger *zap.Logger) map[string]any {
	if logger == nil {
		logger = zap.NewNop()
	}
	merged := make(map[string]any)
	for _, path := range paths {
		mapping, decodeError := DecodeFile(path)
		if decodeError != nil {
			if errors.Is(decodeError, fs.ErrNotExist) {
				logger.Debug(logMessageConfigSkipped, zap.String(logFieldPath, path), zap.Error(decodeError))
			} else {
				logger.Warn(logMessageConfigSkipped, zap.String(logFieldPath, path), zap.Error(decodeError))
			}
			continue
		}
		for key, value := range mapping {
			merged[key] = value
		}
		logger.Debug(logMessageConfigLoaded, zap.String(logFieldPath, path), zap.Int(logFieldKeys, len(mapping)))
	}
	return merged
}
