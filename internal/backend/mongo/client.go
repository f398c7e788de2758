package mongo

import (
	"context"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
)

// Client dials sessions of one database.
type Client struct {
	log logger.Logger
	c   *mongo.Client
	db  *mongo.Database

	// mongo sessions have no server side pid
	lastPID atomic.Int64
}

func Connect(ctx context.Context, cfg Config, log logger.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetTimeout(cfg.Timeout)

	if cfg.Auth.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		})
	}
	if cfg.Pool.MinSize > 0 {
		opts.SetMinPoolSize(cfg.Pool.MinSize)
	}
	if cfg.Pool.MaxSize > 0 {
		opts.SetMaxPoolSize(cfg.Pool.MaxSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.WrapFail(err, "connect to mongo db")
	}

	return &Client{
		log: log.With("mongo"),
		c:   client,
		db:  client.Database(cfg.Database, &options.DatabaseOptions{}),
	}, nil
}

func (c *Client) Dial(context.Context) (*Conn, error) {
	s, err := c.c.StartSession(options.Session())
	if err != nil {
		return nil, errors.WrapFail(err, "start session")
	}

	pid := int(c.lastPID.Add(1))
	return &Conn{
		log:    c.log,
		db:     c.db,
		dbName: c.db.Name(),
		s:      s,
		pid:    pid,
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return errors.WrapFail(c.c.Disconnect(ctx), "disconnect from mongo db")
}
