package main

import (
	"context"
	"fmt"
	"time"

	"gymhero/training-api/internal/config"
	"gymhero/training-api/internal/repository"
	"gymhero/training-api/internal/repository/gormstore"
	"gymhero/training-api/internal/repository/mongo"

	"github.com/rs/zerolog"
)

// openStore connects the backend selected by database.driver, prepares its
// schema and returns the repositories with a close function.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*repository.Store, func(), error) {
	if cfg.Driver == config.DriverMongo {
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error().Err(err).Msg("failed to disconnect MongoDB")
			}
		}
		appDB := client.Database(cfg.Name)

		if cfg.AutoMigrate {
			idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := mongo.EnsureIndexes(idxCtx, appDB, log); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
		return mongo.NewStore(client, appDB, cfg.MongoTransactions, log), closeFn, nil
	}

	db, err := gormstore.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := gormstore.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
	if cfg.AutoMigrate {
		if err := gormstore.AutoMigrate(ctx, db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return gormstore.NewStore(db, log), closeFn, nil
}
