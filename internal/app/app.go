// Package app wires configuration into the services shared by the server
// and the export tool.
package app

import (
	"context"
	"fmt"

	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/reference"
	"github.com/ougirez/rdatlas/internal/pkg/sources"
	"github.com/ougirez/rdatlas/internal/pkg/store"
	"github.com/ougirez/rdatlas/internal/pkg/store/sqlite"
	"github.com/ougirez/rdatlas/internal/pkg/store/xpgx"
	"github.com/ougirez/rdatlas/internal/service/dashboard"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

type App struct {
	Config    *config.Config
	Fetcher   *sources.Fetcher
	Store     store.Store
	Datasets  *datasets.Service
	Dashboard *dashboard.Service
}

// OpenStore picks postgres when a DSN is configured, then sqlite, and falls
// back to a store that holds nothing.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch {
	case cfg.PostgresDSN != "":
		pool, err := xpgx.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Infof(ctx, "using postgres store")
		return store.NewStore(pool), nil
	case cfg.SQLitePath != "":
		st, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite.New, path-%s: %w", cfg.SQLitePath, err)
		}
		logger.Infof(ctx, "using sqlite store %s", cfg.SQLitePath)
		return st, nil
	default:
		return &store.NopStore{}, nil
	}
}

// New builds the services. Datasets are not loaded yet; call Datasets.Load.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	fetcher := sources.NewFetcher(sources.FetcherOpts{
		Retries:       cfg.Fetch.Retries,
		RetryInterval: cfg.Fetch.RetryInterval,
		Timeout:       cfg.Fetch.Timeout,
	})

	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	refs := reference.Load(ctx, fetcher, reference.LoadOpts{
		CountryFlags:   cfg.CountryFlags,
		CommunityFlags: cfg.CommunityFlags,
	})

	ds := datasets.NewDatasetsService(sources.NewReader(fetcher, st), refs, cfg.Datasets, cfg.Fetch.Concurrency)
	layers := dashboard.LoadGeoLayers(ctx, fetcher, cfg.GeoLayers)

	return &App{
		Config:    cfg,
		Fetcher:   fetcher,
		Store:     st,
		Datasets:  ds,
		Dashboard: dashboard.NewDashboardService(ds, layers),
	}, nil
}

func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		logger.Warnf(context.Background(), "store.Close: %s", err.Error())
	}
}
