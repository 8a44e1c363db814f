// Package config decodes configuration files into flat key/value mappings and
// manages argsmith's own application configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const (
	extensionJSONC          = ".jsonc"
	extensionHCL            = ".hcl"
	configTypeJSON          = "json"
	keySeparator            = "."
	homeDirectoryShorthand  = "~"
	decodeErrorFormat       = "decode configuration from %s: %v"
	configDirectoryErrorFmt = "configuration path %s is a directory"
)

// DecodeError reports a configuration file that could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (decodeError *DecodeError) Error() string {
	return fmt.Sprintf(decodeErrorFormat, decodeError.Path, decodeError.Err)
}

func (decodeError *DecodeError) Unwrap() error {
	return decodeError.Err
}

// DecodeFile reads path and returns its settings keyed by lower-cased, dot separated paths
// ("server.port"). The format is chosen by extension: .jsonc and .hcl are handled here,
// everything else viper understands (json, yaml, yml, toml, properties, ini, env) goes through viper.
//
// #nosec G304
func DecodeFile(path string) (map[string]any, error) {
	expandedPath := ExpandHome(path)
	info, statError := os.Stat(expandedPath)
	if statError != nil {
		return nil, &DecodeError{Path: expandedPath, Err: statError}
	}
	if info.IsDir() {
		return nil, &DecodeError{Path: expandedPath, Err: fmt.Errorf(configDirectoryErrorFmt, expandedPath)}
	}

	switch strings.ToLower(filepath.Ext(expandedPath)) {
	case extensionJSONC:
		return decodeJSONC(expandedPath)
	case extensionHCL:
		return decodeHCL(expandedPath)
	default:
		return decodeWithViper(expandedPath)
	}
}

func decodeWithViper(path string) (map[string]any, error) {
	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return nil, &DecodeError{Path: path, Err: readError}
	}
	return flattenViper(reader), nil
}

// #nosec G304
func decodeJSONC(path string) (map[string]any, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return nil, &DecodeError{Path: path, Err: readError}
	}
	reader := viper.New()
	reader.SetConfigType(configTypeJSON)
	if readError := reader.ReadConfig(bytes.NewReader(jsonc.ToJSON(content))); readError != nil {
		return nil, &DecodeError{Path: path, Err: readError}
	}
	return flattenViper(reader), nil
}

func flattenViper(reader *viper.Viper) map[string]any {
	mapping := make(map[string]any)
	for _, key := range reader.AllKeys() {
		mapping[key] = reader.Get(key)
	}
	return mapping
}

// flattenInto stores value under key, descending into nested mappings with dotted keys.
func flattenInto(mapping map[string]any, key string, value any) {
	nested, isMapping := value.(map[string]any)
	if !isMapping || len(nested) == 0 {
		mapping[key] = value
		return
	}
	for nestedKey, nestedValue := range nested {
		flattenInto(mapping, key+keySeparator+strings.ToLower(nestedKey), nestedValue)
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != homeDirectoryShorthand && !strings.HasPrefix(path, homeDirectoryShorthand+string(filepath.Separator)) && !strings.HasPrefix(path, homeDirectoryShorthand+"/") {
		return path
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return path
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(path, homeDirectoryShorthand))
}
