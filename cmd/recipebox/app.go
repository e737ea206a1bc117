package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/metrics"
	"github.com/hammamikhairi/recipebox/internal/recipe"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// Globals is bound into every command's Run method.
type Globals struct {
	ctx    context.Context
	cli    *CLI
	out    io.Writer
	errOut io.Writer
}

// App is the wired dependency graph for one command.
type App struct {
	Config   config.Config
	Log      *logger.Logger
	Store    domain.KeyValueStore
	Recorder *metrics.PrometheusRecorder
	Repo     *recipe.Repository
	Engine   *engine.Engine

	closers []io.Closer
}

// Close releases the store and log file.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Log.Warn("close: %v", err)
		}
	}
}

// open loads configuration, applies global flags and wires the app.
// interactive sends logs to a file unless one is configured, so the
// terminal browser stays clean.
func (g *Globals) open(interactive bool) (*App, error) {
	cfg, err := config.Load(g.cli.Config)
	if err != nil {
		return nil, err
	}
	g.applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg}

	logOut := g.errOut
	logFile := cfg.Log.File
	if logFile == "" && interactive {
		logFile = filepath.Join(config.DataDir(), "recipebox.log")
	}
	if logFile != "" && logFile != "stderr" {
		if dir := filepath.Dir(logFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(g.errOut, "warning: could not open log file %s: %v (falling back to stderr)\n", logFile, err)
		} else {
			logOut = f
			app.closers = append(app.closers, f)
		}
	}
	// Third-party libraries that use the standard logger land in the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	app.Log = logger.New(cfg.LogLevel(), logOut)

	store, err := storage.Open(g.ctx, cfg.Storage, app.Log.Named("storage"))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	app.Store = store
	app.closers = append(app.closers, store)

	app.Recorder = metrics.NewPrometheusRecorder(nil)
	app.Repo = recipe.NewRepository(store, app.Log.Named("recipes"), recipe.WithRecorder(app.Recorder))
	app.Engine = engine.New(app.Repo, app.Log.Named("engine"))

	app.Log.Debug("using %s store at %q", cfg.Storage.Driver, cfg.Storage.Path)
	return app, nil
}

// applyFlags layers command-line flags over the loaded configuration.
func (g *Globals) applyFlags(cfg *config.Config) {
	c := g.cli
	if c.Driver != "" {
		cfg.Storage.Driver = c.Driver
	}
	if c.Path != "" {
		cfg.Storage.Path = c.Path
	}
	if c.Ephemeral {
		cfg.Storage.Driver = storage.DriverMemory
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}
	if c.Verbose {
		cfg.Log.Level = logger.LevelVerbose.String()
	}
	if c.Quiet {
		cfg.Log.Level = logger.LevelOff.String()
	}
}
