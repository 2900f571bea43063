package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/cmd/headsup/shared"
	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/internal/server"
	"github.com/lox/headsup/internal/store"
)

// ServeCmd runs the HTTP and websocket adapter.
type ServeCmd struct {
	Config string `kong:"short='c',default='headsup.hcl',help='Path to the HCL configuration file'"`
	Addr   string `kong:"help='Override the listen address (host:port)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Config, err)
	}
	logger := shared.LoggerFor(cfg.Server.LogLevel, cfg.Server.LogFormat, c.Debug)

	ctx, cancel := shared.SetupSignalHandlerWithLogger(context.Background(), logger)
	defer cancel()

	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	defer st.Close()

	histOpts := phh.Options{IncludeHoleCards: cfg.HandHistory.IncludeHoleCards}
	hub := server.NewHub(logger)
	opts := server.Options{
		Store:     st,
		Logger:    logger,
		Publisher: hub,
		History:   histOpts,
	}
	if cfg.HandHistory.Enabled {
		opts.Recorder = phh.NewRecorder(cfg.HandHistory.Dir, histOpts, logger)
	}
	svc := server.NewService(opts)

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.NewHandler(svc, hub, cfg.Tables, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().
		Str("address", addr).
		Str("storage", cfg.Storage.Driver).
		Int("tables", len(cfg.Tables)).
		Bool("hand_history", cfg.HandHistory.Enabled).
		Msg("Starting headsup server")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
