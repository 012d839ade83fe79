// Package config loads the layered application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/WXR-SEU/CtrlC-C/internal/gesture"
	"github.com/WXR-SEU/CtrlC-C/internal/pipeline"
	"github.com/WXR-SEU/CtrlC-C/internal/services/clipboard"
	"github.com/WXR-SEU/CtrlC-C/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file. Unset fields stay
// nil or empty so that later layers only override what they name.
type ApplicationConfiguration struct {
	StripBlankspace *bool                  `mapstructure:"strip_blankspace"`
	Gesture         GestureConfiguration   `mapstructure:"gesture"`
	Action          ActionConfiguration    `mapstructure:"action"`
	Clipboard       ClipboardConfiguration `mapstructure:"clipboard"`
	Logging         LoggingConfiguration   `mapstructure:"logging"`
}

// GestureConfiguration tunes the double-press detector.
type GestureConfiguration struct {
	Threshold string `mapstructure:"threshold"`
}

// ActionConfiguration tunes the normalization run.
type ActionConfiguration struct {
	Delay string `mapstructure:"delay"`
}

// ClipboardConfiguration tunes the clipboard retry policy.
type ClipboardConfiguration struct {
	Attempts *int   `mapstructure:"attempts"`
	Backoff  string `mapstructure:"backoff"`
}

// LoggingConfiguration selects log verbosity and an optional log file.
type LoggingConfiguration struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Settings is the resolved configuration with defaults applied.
type Settings struct {
	StripBlankspace      bool
	DoublePressThreshold time.Duration
	PostCopyDelay        time.Duration
	ClipboardRetry       clipboard.RetryPolicy
	LogLevel             string
	LogFile              string
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		StripBlankspace:      false,
		DoublePressThreshold: gesture.DefaultThreshold,
		PostCopyDelay:        pipeline.DefaultDelay,
		ClipboardRetry:       clipboard.DefaultRetryPolicy(),
		LogLevel:             utils.DefaultLogLevel,
	}
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.StripBlankspace != nil {
		result.StripBlankspace = cloneBool(override.StripBlankspace)
	}
	if override.Gesture.Threshold != "" {
		result.Gesture.Threshold = override.Gesture.Threshold
	}
	if override.Action.Delay != "" {
		result.Action.Delay = override.Action.Delay
	}
	if override.Clipboard.Attempts != nil {
		result.Clipboard.Attempts = cloneInt(override.Clipboard.Attempts)
	}
	if override.Clipboard.Backoff != "" {
		result.Clipboard.Backoff = override.Clipboard.Backoff
	}
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		result.Logging.File = override.Logging.File
	}
	return result
}

// Resolve applies defaults and validates every value.
func (config ApplicationConfiguration) Resolve() (Settings, error) {
	settings := DefaultSettings()
	if config.StripBlankspace != nil {
		settings.StripBlankspace = *config.StripBlankspace
	}

	var err error
	if settings.DoublePressThreshold, err = parseDuration("gesture.threshold", config.Gesture.Threshold, settings.DoublePressThreshold, false); err != nil {
		return Settings{}, err
	}
	if settings.PostCopyDelay, err = parseDuration("action.delay", config.Action.Delay, settings.PostCopyDelay, true); err != nil {
		return Settings{}, err
	}
	if settings.ClipboardRetry.Backoff, err = parseDuration("clipboard.backoff", config.Clipboard.Backoff, settings.ClipboardRetry.Backoff, true); err != nil {
		return Settings{}, err
	}
	if config.Clipboard.Attempts != nil {
		if *config.Clipboard.Attempts < 1 {
			return Settings{}, fmt.Errorf("clipboard.attempts must be at least 1, got %d", *config.Clipboard.Attempts)
		}
		settings.ClipboardRetry.Attempts = *config.Clipboard.Attempts
	}

	if config.Logging.Level != "" {
		if _, levelErr := utils.ParseLogLevel(config.Logging.Level); levelErr != nil {
			return Settings{}, fmt.Errorf("logging.level: %w", levelErr)
		}
		settings.LogLevel = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	}
	settings.LogFile = config.Logging.File
	return settings, nil
}

func parseDuration(key, text string, fallback time.Duration, allowZero bool) (time.Duration, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, text, err)
	}
	if duration < 0 || (duration == 0 && !allowZero) {
		return 0, fmt.Errorf("%s: duration %q out of range", key, text)
	}
	return duration, nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
