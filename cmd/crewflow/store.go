package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/crewflow"
	"github.com/meikuraledutech/crewflow/config"
	"github.com/meikuraledutech/crewflow/memory"
	"github.com/meikuraledutech/crewflow/postgres"
	"github.com/meikuraledutech/crewflow/sqlite"
)

// openStore builds the Store selected by cfg and creates its schema. The
// returned func releases the store's resources.
func openStore(ctx context.Context, cfg config.StoreConfig) (crewflow.Store, func(), error) {
	var (
		store   crewflow.Store
		release = func() {}
	)
	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.New()
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		store, release = s, func() { s.Close() }
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		store, release = postgres.New(pool), pool.Close
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if err := store.CreateSchema(ctx); err != nil {
		release()
		return nil, nil, fmt.Errorf("schema: %w", err)
	}
	return store, release, nil
}
