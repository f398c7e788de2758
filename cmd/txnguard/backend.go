package main

import (
	"context"

	"github.com/nikmy/txnguard/internal/backend/mongo"
	"github.com/nikmy/txnguard/internal/backend/postgres"
	"github.com/nikmy/txnguard/internal/session"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
)

type closer func(ctx context.Context) error

func openBackend(ctx context.Context, cfg *Config, log logger.Logger) (session.Dialer, closer, error) {
	switch cfg.Backend.Kind {
	case backendPostgres:
		pool, err := postgres.Open(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, nil, err
		}

		dial := func(ctx context.Context) (session.Backend, error) {
			c, err := pool.Dial(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
		return dial, func(context.Context) error { return pool.Close() }, nil

	case backendMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, nil, err
		}

		dial := func(ctx context.Context) (session.Backend, error) {
			c, err := client.Dial(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
		return dial, client.Close, nil

	default:
		return nil, nil, errors.Newf(errors.ClassParameter, "unknown backend kind %q", cfg.Backend.Kind)
	}
}
