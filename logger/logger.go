package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level and encoding of the process logger.
type Config struct {
	// Level is a zap level name such as "debug", "info" or "warn".
	Level string `yaml:"level"`
	// Format is either "console" or "json".
	Format string `yaml:"format"`
	// Development enables the zap development preset (caller, stack traces on warn, DPanic panics).
	Development bool `yaml:"development"`
	// OutputPaths are zap sink URLs or file paths; empty means stderr.
	OutputPaths []string `yaml:"output_paths"`
}

// DefaultConfig returns a console logger at info level.
//
// Returns:
//   - Config: the default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "console",
		Development: true,
		OutputPaths: []string{"stderr"},
	}
}

// New builds a zap logger from cfg.
// An unknown level or format is an error rather than a silent fallback.
//
// Parameters:
//   - cfg: the logging configuration
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if the configuration is invalid or a sink cannot be opened
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Sampling = nil
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	switch strings.ToLower(cfg.Format) {
	case "":
	case "console":
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "json":
		zapConfig.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	if len(cfg.OutputPaths) > 0 {
		zapConfig.OutputPaths = cfg.OutputPaths
	}

	l, err := zapConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// Install builds a logger from cfg and makes it the zap global, so packages that log through
// zap.L() pick it up. The returned function restores the previous global and flushes the logger.
//
// Parameters:
//   - cfg: the logging configuration
//
// Returns:
//   - *zap.Logger: the installed logger
//   - func(): restores the previous global logger
//   - error: error if the logger could not be built
func Install(cfg Config) (*zap.Logger, func(), error) {
	l, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(l)
	return l, func() {
		_ = l.Sync()
		restore()
	}, nil
}
