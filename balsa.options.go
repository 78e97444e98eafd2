package balsa

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	openDelim       string
	closeDelim      string
	strictOverrides bool
	maxTemplateSize int
	logger          *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		openDelim:       DefaultOpenDelim,
		closeDelim:      DefaultCloseDelim,
		maxTemplateSize: DefaultMaxTemplateSize,
		logger:          nil,
	}
}

// WithDelimiters sets custom placeholder delimiters.
// Default: "{{" and "}}"
func WithDelimiters(open, close string) Option {
	return func(c *engineConfig) {
		if open != "" {
			c.openDelim = open
		}
		if close != "" {
			c.closeDelim = close
		}
	}
}

// WithStrictOverrides makes an override for an undeclared variable an error.
// Default: false (such overrides are logged and ignored)
func WithStrictOverrides(strict bool) Option {
	return func(c *engineConfig) {
		c.strictOverrides = strict
	}
}

// WithMaxTemplateSize sets the largest accepted template source in bytes.
// Use 0 for unlimited size.
// Default: 4MB
func WithMaxTemplateSize(size int) Option {
	return func(c *engineConfig) {
		c.maxTemplateSize = size
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
