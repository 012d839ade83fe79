package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	standardErrorOutputPath = "stderr"
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// LoggerOptions selects the verbosity and destination of the application logger.
type LoggerOptions struct {
	Level    string
	FilePath string
}

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger(options LoggerOptions) (*zap.Logger, error) {
	level, levelErr := ParseLogLevel(options.Level)
	if levelErr != nil {
		return nil, levelErr
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.NameKey = "logger"
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	config.OutputPaths = []string{standardErrorOutputPath}
	config.ErrorOutputPaths = []string{standardErrorOutputPath}
	if options.FilePath != "" {
		config.OutputPaths = append(config.OutputPaths, options.FilePath)
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, options.FilePath)
	}
	return config.Build()
}

// ParseLogLevel converts a textual level into a zap level, defaulting to info.
func ParseLogLevel(text string) (zapcore.Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		normalized = DefaultLogLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(normalized)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", text)
	}
	return level, nil
}
