package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"csuite/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/csuite"
	configFileName = "config.yaml"
	runsDirName    = "runs"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// GetDefaultConfigPathOrPanic returns ~/.config/csuite.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// GetUserConfigDir returns ~/.config/csuite or an error when the home
// directory is unknown.
func GetUserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults. A
// missing file yields the defaults; a malformed or invalid one yields a
// ConfigurationError.
func LoadConfig(configPath string) (CSuiteConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return CSuiteConfig{}, NewConfigurationError(configFilePath, "io", "cannot read configuration", err.Error())
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		cfgErr := NewConfigurationError(configFilePath, "parse", "malformed YAML", err.Error())
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			cfgErr.LineNumber, _ = strconv.Atoi(m[1])
		}
		return CSuiteConfig{}, cfgErr
	}
	config.Module = config.Module.WithDefaults()

	if verrs := Validate(config); verrs.HasErrors() {
		cfgErr := NewConfigurationError(configFilePath, "validation", "invalid configuration", verrs.Error())
		cfgErr.Suggestions = verrs.Fields()
		return CSuiteConfig{}, cfgErr
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// RunsDir returns the directory reports are stored in.
func (c CSuiteConfig) RunsDir(configPath string) string {
	if c.Runs.Dir != "" {
		return c.Runs.Dir
	}
	return filepath.Join(configPath, runsDirName)
}
