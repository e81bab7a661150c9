package depot

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the construction settings of a world.
type Config struct {
	// InitialEntityCapacity preallocates the entity table.
	InitialEntityCapacity int `yaml:"initial_entity_capacity"`
	// InitialStoreCapacity preallocates every component column.
	InitialStoreCapacity int `yaml:"initial_store_capacity"`
	// LogLevel is a zap level name, or "none" to disable logging.
	LogLevel string `yaml:"log_level"`

	logger *zap.Logger
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		InitialEntityCapacity: 64,
		InitialStoreCapacity:  64,
		LogLevel:              "warn",
	}
}

// LoadConfig reads a YAML document over the defaults. An empty document
// yields DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.InitialEntityCapacity < 0 {
		return fmt.Errorf("initial_entity_capacity must not be negative: %d", c.InitialEntityCapacity)
	}
	if c.InitialStoreCapacity < 0 {
		return fmt.Errorf("initial_store_capacity must not be negative: %d", c.InitialStoreCapacity)
	}
	if c.LogLevel != "" && c.LogLevel != "none" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}
	return nil
}

// WithLogger makes worlds built from c log through logger instead of building
// their own.
func (c Config) WithLogger(logger *zap.Logger) Config {
	c.logger = logger
	return c
}

// Logger returns the configured logger, or builds a JSON logger writing to
// stderr at LogLevel.
func (c Config) Logger() (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	if c.LogLevel == "" || c.LogLevel == "none" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}
