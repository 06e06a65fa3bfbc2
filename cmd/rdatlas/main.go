package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/rdatlas/internal/api"
	"github.com/ougirez/rdatlas/internal/app"
	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	debug := flag.Bool("debug", false, "verbose http logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer a.Close()

	svc, err := api.NewAPIService(a.Datasets, a.Dashboard, api.Opts{
		AllowOrigins: cfg.AllowOrigins,
		Debug:        *debug,
	})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	// chart endpoints answer 503 until the first load is published
	go func() {
		t0 := time.Now()
		if _, err := a.Datasets.Load(ctx); err != nil {
			logger.Errorf(ctx, "initial dataset load: %s", err.Error())
			return
		}
		logger.Infof(ctx, "datasets loaded in %s", time.Since(t0))
	}()

	go svc.Serve(cfg.ListenAddr)
	logger.Infof(ctx, "listening on %s", cfg.ListenAddr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
}
