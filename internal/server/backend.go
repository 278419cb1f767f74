package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/nba-projections-service/internal/config"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/sources/fixture"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
	"github.com/preston-bernstein/nba-projections-service/internal/store/mongostore"
)

var connectMongo = func(ctx context.Context, opts mongostore.Options) (store.Store, error) {
	return mongostore.Connect(ctx, opts)
}

// openStore returns the configured backend. The memory backend starts seeded with the fixture
// league so a local run has something to forecast.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.DataBackend {
	case config.BackendMongo:
		st, err := connectMongo(ctx, mongostore.Options{
			URL:      cfg.Mongo.URL,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		logging.Info(logger, "data backend ready", slog.String("backend", config.BackendMongo), slog.String("database", cfg.Mongo.Database))
		return st, nil
	case config.BackendMemory, "":
		mem := store.NewMemoryStore()
		if err := seedFixture(ctx, mem, fixture.New().Dataset()); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		logging.Info(logger, "data backend ready", slog.String("backend", config.BackendMemory))
		return mem, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

func seedFixture(ctx context.Context, st store.Store, ds fixture.Dataset) error {
	if err := st.UpsertTeams(ctx, ds.Teams); err != nil {
		return err
	}
	if err := st.UpsertPlayers(ctx, ds.Players); err != nil {
		return err
	}
	if err := st.UpsertGameLogs(ctx, ds.GameLogs); err != nil {
		return err
	}
	return st.UpsertMatchups(ctx, ds.Matchups)
}
