// Package environment captures the environment variables consulted while resolving arguments.
package environment

import (
	"os"
	"strings"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/temirov/argsmith/internal/config"
)

const (
	variableSeparator        = "_"
	assignmentSeparator      = "="
	logMessageDotenvSkipped  = "dotenv file contributes nothing"
	logMessageDotenvLoaded   = "dotenv file loaded"
	logMessageSnapshotTaken  = "environment snapshot taken"
	logFieldPath             = "path"
	logFieldVariables        = "variables"
	logFieldEnvironmentCount = "count"
)

// Request describes which variables a snapshot keeps.
type Request struct {
	// Prefix keeps variables named PREFIX_*. An empty prefix keeps every variable.
	Prefix string
	// ExplicitNames are kept regardless of Prefix.
	ExplicitNames []string
	// DotenvPaths are read in order, later files overriding earlier ones.
	// The process environment overrides every dotenv file.
	DotenvPaths []string
	// Environ supplies the process environment in os.Environ form. Nil uses os.Environ.
	Environ func() []string
}

// Snapshot reads the environment once and returns the variables selected by request.
// Dotenv files are best effort: unreadable files are logged and skipped.
func Snapshot(request Request, logger *zap.Logger) map[string]string {
	if logger == nil {
		logger = zap.NewNop()
	}
	environ := request.Environ
	if environ == nil {
		environ = os.Environ
	}

	combined := make(map[string]string)
	for _, path := range request.DotenvPaths {
		values, readError := readDotenv(path)
		if readError != nil {
			logger.Debug(logMessageDotenvSkipped, zap.String(logFieldPath, path), zap.Error(readError))
			continue
		}
		for name, value := range values {
			combined[name] = value
		}
		logger.Debug(logMessageDotenvLoaded, zap.String(logFieldPath, path), zap.Int(logFieldVariables, len(values)))
	}
	for _, entry := range environ() {
		name, value, found := strings.Cut(entry, assignmentSeparator)
		if !found || name == "" {
			continue
		}
		combined[name] = value
	}

	selected := make(map[string]string)
	explicit := make(map[string]struct{}, len(request.ExplicitNames))
	for _, name := range request.ExplicitNames {
		explicit[name] = struct{}{}
	}
	for name, value := range combined {
		if keep(name, request.Prefix, explicit) {
			selected[name] = value
		}
	}
	logger.Debug(logMessageSnapshotTaken, zap.Int(logFieldEnvironmentCount, len(selected)))
	return selected
}

func keep(name string, prefix string, explicit map[string]struct{}) bool {
	if prefix == "" {
		return true
	}
	if strings.HasPrefix(name, prefix+variableSeparator) {
		return true
	}
	_, isExplicit := explicit[name]
	return isExplicit
}

// #nosec G304
func readDotenv(path string) (gotenv.Env, error) {
	file, openError := os.Open(config.ExpandHome(path))
	if openError != nil {
		return nil, openError
	}
	defer file.Close()
	return gotenv.StrictParse(file)
}
