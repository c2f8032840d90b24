package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hardsub/internal/burn"
	"hardsub/internal/config"
	"hardsub/internal/daemon"
	"hardsub/internal/fonts"
	"hardsub/internal/logging"
	"hardsub/internal/queue"
	"hardsub/internal/render"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, source, found, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if found {
		logger.Info("loaded config", logging.String("path", source))
	} else {
		logger.Info("no config file found, using defaults")
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open job store", logging.Error(err))
		os.Exit(1)
	}

	resolver, err := fonts.NewResolver(cfg, logger)
	if err != nil {
		logger.Error("init font resolver", logging.Error(err))
		os.Exit(1)
	}

	invoker := render.NewInvoker(cfg, logger)
	scheduler := burn.NewScheduler(cfg, store, resolver, invoker, logger)

	d, err := daemon.New(cfg, store, resolver, scheduler, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	d.Stop()
	logger.Info("hardsubd shutting down")
}
