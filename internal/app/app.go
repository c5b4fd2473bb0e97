// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

// Package app wires the application together: configuration, logging,
// storage, the collection loop, and the HTTP query API.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/PedroNoriega/agentless-hub/internal/api"
	"github.com/PedroNoriega/agentless-hub/internal/api/handlers"
	"github.com/PedroNoriega/agentless-hub/internal/fleet"
	"github.com/PedroNoriega/agentless-hub/internal/pkg/logger"
	"github.com/PedroNoriega/agentless-hub/internal/poller"
	"github.com/PedroNoriega/agentless-hub/internal/probe"
	"github.com/PedroNoriega/agentless-hub/internal/repository/sqlite"
)

// Application holds all application dependencies.
type Application struct {
	Config   *Config
	Logger   *logger.Logger
	DB       *sqlite.DB
	Registry *fleet.Registry
	Poller   *poller.Poller
	Server   *api.Server
}

// Run starts the application and blocks until a termination signal
// arrives or a fatal error occurs.
func Run(cfgFile string) error {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting agentless-hub",
		"version", VersionString(),
		"hosts", len(cfg.Hosts),
		"interval", cfg.PollInterval())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.DB.Close()

	return app.run(ctx)
}

// build constructs the dependency graph.
func build(ctx context.Context, cfg *Config, log *logger.Logger) (*Application, error) {
	db, err := sqlite.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	hostRepo := sqlite.NewHostRepository(db, log)
	sampleRepo := sqlite.NewSampleRepository(db, log)

	registry, err := fleet.New(cfg.BuildHosts(), log)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := registry.EnsureRegistered(ctx, hostRepo); err != nil {
		db.Close()
		return nil, err
	}

	prober := probe.New(probe.DefaultTimeout, log)
	p := poller.New(registry.Hosts(), prober, sampleRepo, cfg.PollInterval(), log)

	system := handlers.NewSystemHandler(Version, Commit, BuildTime, log)
	system.RegisterHealthChecker("database", handlers.DatabaseHealthChecker(db.Ping))
	system.RegisterHealthChecker("poller", handlers.PollerHealthChecker(func() string {
		return string(p.State())
	}))

	router := api.NewRouter(api.RouterConfig{
		Hosts:  handlers.NewHostHandler(hostRepo, sampleRepo, log),
		System: system,
		Logger: log.Named("api"),
	})
	server := api.NewServer(cfg.ListenAddress, router, log)

	return &Application{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Registry: registry,
		Poller:   p,
		Server:   server,
	}, nil
}

// run drives the poller and the HTTP server until ctx is cancelled. The
// poller finishes its in-flight cycle before run returns.
func (a *Application) run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Poller.Run(ctx)
	}()

	err := a.Server.Start(ctx)
	wg.Wait()

	a.Logger.Info("shutdown complete")
	return err
}
