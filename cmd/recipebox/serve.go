package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hammamikhairi/recipebox/internal/api"
	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/storage"
	"github.com/hammamikhairi/recipebox/internal/watch"
)

// BrowseCmd implements 'browse'.
type BrowseCmd struct{}

func (c *BrowseCmd) Run(g *Globals) error {
	app, err := g.open(true)
	if err != nil {
		return err
	}
	defer app.Close()

	var opts []display.Option
	if path, ok := storage.WatchPath(app.Config.Storage); ok {
		w, err := watch.New(path, app.Log)
		if err != nil {
			app.Log.Warn("store watcher disabled: %v", err)
		} else if err := w.Start(g.ctx); err != nil {
			app.Log.Warn("store watcher disabled: %v", err)
			_ = w.Stop()
		} else {
			defer w.Stop()
			opts = append(opts, display.WithChanges(w.Changes()))
		}
	}

	return display.NewBrowser(app.Engine, app.Log, opts...).Run(g.ctx)
}

// ServeCmd implements 'serve'.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	app, err := g.open(false)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := c.Addr
	if addr == "" {
		addr = app.Config.Server.Addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(app.Engine, app.Log, app.Recorder.Handler()).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-g.ctx.Done():
	}

	app.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
