package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/logging"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/storage/bolt"
	"github.com/goliatone/go-formbuilder/pkg/storage/sqlite"
)

// CLI is the command tree.
type CLI struct {
	Config    string `help:"Path to the configuration file." default:"formbuilder.yaml" env:"FORMBUILDER_CONFIG" type:"path"`
	Driver    string `help:"Storage driver (memory, bolt, sqlite). Overrides the config file." env:"FORMBUILDER_STORAGE_DRIVER"`
	Store     string `name:"store" help:"Storage file path. Overrides the config file." env:"FORMBUILDER_STORAGE_PATH"`
	LogLevel  string `help:"Log level. Overrides the config file." env:"FORMBUILDER_LOG_LEVEL"`
	LogFormat string `help:"Log format (console, json). Overrides the config file." env:"FORMBUILDER_LOG_FORMAT"`

	Templates   TemplatesCmd   `cmd:"" help:"List the built-in templates."`
	New         NewCmd         `cmd:"" help:"Create and save a new form."`
	List        ListCmd        `cmd:"" help:"List saved forms."`
	Show        ShowCmd        `cmd:"" help:"Print a saved form definition."`
	Fill        FillCmd        `cmd:"" help:"Fill a saved form in the terminal."`
	Submissions SubmissionsCmd `cmd:"" help:"Print the submissions of a form."`
	Schema      SchemaCmd      `cmd:"" help:"Print an OpenAPI document describing submission payloads."`
	Lint        LintCmd        `cmd:"" help:"Report validation rules that can never behave as intended."`
}

// App carries the wired dependencies handed to every command.
type App struct {
	Repo    *storage.Repository
	Logger  logging.Logger
	Out     io.Writer
	Prompts tui.PromptDriver // nil selects the survey driver
	close   func() error
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("formbuilder"),
		kong.Description("Build, fill and inspect forms."),
		kong.UsageOnError(),
	)

	app, err := cli.wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "formbuilder: %v\n", err)
		os.Exit(1)
	}

	kctx.BindTo(context.Background(), (*context.Context)(nil))
	kctx.FatalIfErrorf(runAndClose(app, func(a *App) error { return kctx.Run(a) }))
}

// runAndClose runs the command and releases storage before the error reaches
// the process exit path.
func runAndClose(app *App, run func(*App) error) error {
	err := run(app)
	if closeErr := app.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close storage: %w", closeErr))
	}
	return err
}

func (c *CLI) wire() (*App, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	cfg, err = cfg.Apply(config.Overrides{
		Driver:    c.Driver,
		Path:      c.Store,
		LogLevel:  c.LogLevel,
		LogFormat: c.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: os.Stderr})
	store, closer, err := openStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	logger.Debug("formbuilder: using %s storage at %q", cfg.Storage.Driver, cfg.Storage.Path)

	return &App{
		Repo:   storage.NewRepository(store, storage.WithLogger(logger)),
		Logger: logger,
		Out:    os.Stdout,
		close:  closer,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a == nil || a.close == nil {
		return nil
	}
	return a.close()
}

func openStore(cfg config.StorageConfig) (storage.Store, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), func() error { return nil }, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := bolt.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}
