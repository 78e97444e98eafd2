package main

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itsatony/go-balsa"
)

// cliApp holds the streams, config and lazily opened resources of one invocation
type cliApp struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	driver     string
	dsn        string
	verbose    bool

	config  *cliConfig
	logger  *zap.Logger
	storage *balsa.StorageEngine
}

func newRootCommand(app *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CLILong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, FlagConfig, "", "config file (default $XDG_CONFIG_HOME/balsa/config.toml)")
	flags.StringVar(&app.driver, FlagStorage, "", "storage driver: "+joinDrivers())
	flags.StringVar(&app.dsn, FlagDSN, "", "storage connection string (directory, database file or URL)")
	flags.BoolVarP(&app.verbose, FlagVerbose, FlagVerboseShort, false, "debug logging on stderr")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(ErrMsgInvalidFlags, err)
	})

	root.AddCommand(
		newRenderCommand(app),
		newCatalogueCommand(app),
		newValidateCommand(app),
		newStoreCommand(app),
		newVersionCommand(app),
	)
	return root
}

// setup loads the config file and builds the logger before any command runs
func (app *cliApp) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(app.configPath)
	if err != nil {
		return usageError(ErrMsgLoadConfigFailed, err)
	}

	flags := cmd.Flags()
	if flags.Changed(FlagStorage) {
		cfg.Storage.Driver = app.driver
	}
	if flags.Changed(FlagDSN) {
		cfg.Storage.DSN = app.dsn
	}
	app.config = cfg

	logger, err := newLogger(cfg.Log.Level, app.verbose, zapcore.AddSync(app.stderr))
	if err != nil {
		return usageError(ErrMsgInvalidLogLevel, err)
	}
	app.logger = logger
	app.logger.Debug(LogMsgCommandStarted,
		zap.String(LogFieldCommand, cmd.Name()),
		zap.String(LogFieldDriver, cfg.Storage.Driver),
	)
	return nil
}

// engine creates a template engine from the render section of the config
func (app *cliApp) engine() (*balsa.Engine, error) {
	opts := []balsa.Option{
		balsa.WithLogger(app.logger),
		balsa.WithStrictOverrides(app.config.Render.Strict),
	}
	if app.config.Render.OpenDelim != "" || app.config.Render.CloseDelim != "" {
		opts = append(opts, balsa.WithDelimiters(app.config.Render.OpenDelim, app.config.Render.CloseDelim))
	}

	engine, err := balsa.New(opts...)
	if err != nil {
		return nil, usageError(ErrMsgEngineFailed, err)
	}
	return engine, nil
}

// storageEngine opens the configured storage once per invocation
func (app *cliApp) storageEngine() (*balsa.StorageEngine, error) {
	if app.storage != nil {
		return app.storage, nil
	}

	engine, err := app.engine()
	if err != nil {
		return nil, err
	}

	driver := app.config.Storage.Driver
	dsn := app.config.Storage.DSN
	if dsn == "" && driver == balsa.StorageDriverNameFilesystem {
		dsn = defaultDataDir()
	}

	storage, err := balsa.OpenStorage(driver, dsn)
	if err != nil {
		return nil, commandError(ErrMsgOpenStorageFailed, err)
	}
	app.logger.Debug(LogMsgStorageOpened, zap.String(LogFieldDriver, driver), zap.String(LogFieldDSN, dsn))

	se, err := balsa.NewStorageEngine(balsa.StorageEngineConfig{Storage: storage, Engine: engine})
	if err != nil {
		_ = storage.Close()
		return nil, commandError(ErrMsgOpenStorageFailed, err)
	}
	app.storage = se
	return se, nil
}

func (app *cliApp) close() {
	if app.storage != nil {
		if err := app.storage.Close(); err != nil && app.logger != nil {
			app.logger.Warn(LogMsgStorageCloseFailed, zap.Error(err))
		}
		app.storage = nil
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// outputFormat returns the -F value, or the configured format when the flag was not given.
// A configured format the command does not support falls back to text.
func (app *cliApp) outputFormat(cmd *cobra.Command, flagValue string, allowed ...string) (string, error) {
	if cmd.Flags().Changed(FlagFormat) {
		if !slices.Contains(allowed, flagValue) {
			return "", usageError(ErrMsgInvalidFormat, errUnsupported(flagValue, allowed))
		}
		return flagValue, nil
	}
	if slices.Contains(allowed, app.config.Output.Format) {
		return app.config.Output.Format, nil
	}
	return OutputFormatText, nil
}
