package store

import (
	"context"
	"fmt"

	"github.com/isdelr/gymdiary/internal/config"
)

// New opens the store backend selected by cfg.StoreDriver.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		s, err := NewMongoStore(ctx, MongoOptions{
			URL:            cfg.MongoURL,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.MongoConnectTimeout,
			RetryAttempts:  cfg.MongoRetryAttempts,
			RetryInterval:  cfg.MongoRetryInterval,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
