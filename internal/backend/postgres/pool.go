package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
)

// Pool opens dedicated connections, one per session.
type Pool struct {
	log logger.Logger
	db  *sql.DB
}

func Open(ctx context.Context, cfg Config, log logger.Logger) (*Pool, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.WrapFail(err, "open postgres")
	}

	db.SetMaxOpenConns(cfg.Pool.MaxOpen)
	db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapFail(err, "ping postgres")
	}

	return &Pool{log: log.With("postgres"), db: db}, nil
}

func (p *Pool) Dial(ctx context.Context) (*Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, errors.WrapFail(err, "acquire connection")
	}

	var pid int
	err = conn.QueryRowContext(ctx, "SELECT pg_backend_pid()").Scan(&pid)
	if err != nil {
		_ = conn.Close()
		return nil, errors.WrapFail(err, "get backend pid")
	}

	return newConn(p.log, conn, pid), nil
}

func (p *Pool) Close() error {
	return p.db.Close()
}
