package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/dbot"
	"github.com/gbone001/HLL-Map-Switcher/session"
	"github.com/gbone001/HLL-Map-Switcher/statuspoll"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("exiting", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := control.NewRegistry(cfg.Servers)
	controller := control.New(cfg.Remote, log.Named("control"))

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	controller.EnrichNames(startupCtx, registry)
	cat := buildCatalog(startupCtx, controller, registry, log)
	cancel()

	store := session.NewStore(cat, cfg.Session.IdleTimeout)
	poller := statuspoll.New(controller, registry, cat, cfg.Refresh.Interval, log.Named("statuspoll"))
	dispatcher := dbot.NewDispatcher(cat, store, registry, controller, poller, log.Named("dispatch"))

	bot, err := dbot.NewBot(cfg.Discord, dispatcher, poller, controller, registry, cat, log.Named("dbot"))
	if err != nil {
		return err
	}
	poller.OnUpdate(bot.UpdatePanel)

	if err := bot.Start(); err != nil {
		return err
	}
	defer bot.Stop()

	go poller.Run(ctx)
	go sweepLoop(ctx, bot, cfg.Session.SweepInterval)

	log.Info("map switcher running",
		zap.Int("servers", len(cfg.Servers)),
		zap.Duration("refresh_interval", cfg.Refresh.Interval))

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

// buildCatalog prefers the live layer list from the first server with
// CRCON access and falls back to the bundled table.
func buildCatalog(ctx context.Context, controller *control.Controller, registry *control.Registry, log *zap.Logger) *catalog.Catalog {
	for _, server := range registry.List() {
		if !server.HasCrcon() {
			continue
		}
		layers, err := controller.FetchLayers(ctx, server)
		if err != nil {
			log.Warn("fetching layer list failed",
				zap.String("server", server.ID), zap.Error(err))
			continue
		}
		cat := catalog.FromLayers(layers)
		if len(cat.ListModes()) > 0 {
			log.Info("catalog built from CRCON layer list",
				zap.String("server", server.ID), zap.Int("layers", len(layers)))
			return cat
		}
	}
	log.Info("using bundled map catalog")
	return catalog.Builtin()
}

func sweepLoop(ctx context.Context, bot *dbot.Bot, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			bot.RevertExpiredFlows(now)
		}
	}
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
