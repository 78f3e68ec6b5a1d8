package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tenderhound/tenderhound/internal/cursor"
	"github.com/tenderhound/tenderhound/internal/fetch"
	"github.com/tenderhound/tenderhound/internal/notice"
	"github.com/tenderhound/tenderhound/internal/pipeline"
	"github.com/tenderhound/tenderhound/internal/registry"
	"github.com/tenderhound/tenderhound/internal/router"
	"github.com/tenderhound/tenderhound/internal/server"
	"github.com/tenderhound/tenderhound/internal/storage/factory"
	pkgserver "github.com/tenderhound/tenderhound/pkg/server"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	if err := run(); err != nil {
		slog.Error("Harvester failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load storage config: %w", err)
	}

	ctx := context.Background()

	store, err := factory.NewStore(ctx, storageCfg)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close(ctx)

	mapping := notice.DefaultMapping()
	if cfg.MappingPath != "" {
		mapping, err = notice.LoadMapping(cfg.MappingPath)
		if err != nil {
			return fmt.Errorf("failed to load notice mapping: %w", err)
		}
	}

	var registryClient registry.Client = registry.Noop{}
	if cfg.RegistryURL != "" {
		registryClient = registry.NewHTTPClient(cfg.RegistryURL, cfg.RegistryUser, cfg.RegistryPassword)
		slog.Info("Company registry lookups enabled", "url", cfg.RegistryURL)
	} else {
		slog.Info("Company registry lookups disabled")
	}

	normalizer := notice.NewNormalizer(mapping, registryClient, store)
	dialer := &fetch.FTPDialer{Addr: cfg.FTPAddr}
	orch := pipeline.NewOrchestrator(dialer, store, normalizer, cfg.DataDir)
	runner := pipeline.NewRunner(orch)

	if cfg.FetchOnStart {
		start, err := cursor.Initial(ctx, store, cfg.MinYear)
		if err != nil {
			return fmt.Errorf("failed to derive starting date: %w", err)
		}
		if _, ok := runner.TryStart(start); ok {
			slog.Info("Startup harvest run accepted", "start", start.String())
		}
	}

	s := server.New(sCfg, pkgserver.NewOkHealthChecker())

	harvestRouter := router.NewHarvestRouter(s.Echo, store, runner, cfg.Passkey, cfg.MinYear)
	harvestRouter.Bind()

	if err := s.Start(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
