package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/argsmith/internal/utils"
)

const (
	workingDirectoryErrorFormat   = "determine working directory: %w"
	resolveConfigPathErrorFormat  = "resolve configuration path %s: %w"
	statConfigurationErrorFormat  = "stat configuration %s: %w"
	readConfigurationErrorFormat  = "read configuration from %s: %w"
	unmarshalConfigurationFormat  = "decode configuration from %s: %w"
	configurationIsDirectoryError = "configuration path %s is a directory"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds argsmith's own command defaults.
type ApplicationConfiguration struct {
	Resolve ResolveConfiguration `mapstructure:"resolve"`
}

// ResolveConfiguration defines defaults for the resolve command.
type ResolveConfiguration struct {
	Format      string   `mapstructure:"format"`
	Clipboard   *bool    `mapstructure:"clipboard"`
	EnvPrefix   string   `mapstructure:"env_prefix"`
	ConfigFiles []string `mapstructure:"config_files"`
	EnvFiles    []string `mapstructure:"env_files"`
	Unicode     *bool    `mapstructure:"unicode_safety"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the local one,
// the local file overriding any field it sets.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Resolve.ConfigFiles = utils.DeduplicateStrings(merged.Resolve.ConfigFiles)
	merged.Resolve.EnvFiles = utils.DeduplicateStrings(merged.Resolve.EnvFiles)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	expandedPath := ExpandHome(explicitPath)
	if filepath.IsAbs(expandedPath) {
		return expandedPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(expandedPath)
		if err != nil {
			return "", fmt.Errorf(resolveConfigPathErrorFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, expandedPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(statConfigurationErrorFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(configurationIsDirectoryError, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(readConfigurationErrorFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(unmarshalConfigurationFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Resolve = result.Resolve.merge(override.Resolve)
	return result
}

func (config ResolveConfiguration) merge(override ResolveConfiguration) ResolveConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.EnvPrefix != "" {
		result.EnvPrefix = override.EnvPrefix
	}
	if len(override.ConfigFiles) > 0 {
		result.ConfigFiles = append([]string{}, override.ConfigFiles...)
	}
	if len(override.EnvFiles) > 0 {
		result.EnvFiles = append([]string{}, override.EnvFiles...)
	}
	if override.Unicode != nil {
		result.Unicode = cloneBool(override.Unicode)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
