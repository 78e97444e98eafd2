package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliConfig is the optional config.toml read before every command
type cliConfig struct {
	Storage storageConfig `toml:"storage"`
	Render  renderConfig  `toml:"render"`
	Output  outputConfig  `toml:"output"`
	Log     logConfig     `toml:"log"`
}

type storageConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type renderConfig struct {
	Strict     bool   `toml:"strict"`
	OpenDelim  string `toml:"open_delim"`
	CloseDelim string `toml:"close_delim"`
}

type outputConfig struct {
	Format string `toml:"format"`
}

type logConfig struct {
	Level string `toml:"level"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{
		Storage: storageConfig{Driver: ConfigDefaultDriver},
		Output:  outputConfig{Format: FlagDefaultFormat},
		Log:     logConfig{Level: ConfigDefaultLogLevel},
	}
}

// defaultConfigPath is $XDG_CONFIG_HOME/balsa/config.toml
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, ConfigDirName, ConfigFileName)
}

// defaultDataDir is where the filesystem driver keeps templates when no DSN is set
func defaultDataDir() string {
	return filepath.Join(xdg.DataHome, ConfigDirName, DataDirName)
}

// loadConfig reads the config file at path, or the default location when path is empty.
// A missing default file yields the built-in defaults; a missing explicit file is an error.
func loadConfig(path string) (*cliConfig, error) {
	cfg := defaultCLIConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = ConfigDefaultDriver
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FlagDefaultFormat
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = ConfigDefaultLogLevel
	}
	return cfg, nil
}

// newLogger builds a console logger on stderr at the configured level
func newLogger(level string, verbose bool, stderr zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl := zapcore.DebugLevel
	if !verbose {
		var err error
		lvl, err = zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, stderr, lvl)), nil
}
