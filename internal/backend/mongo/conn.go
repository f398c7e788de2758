package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/nikmy/txnguard/internal/linearize"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
	"github.com/nikmy/txnguard/pkg/txn"
)

// Conn runs transactions of one mongo session. Statements are database
// commands in extended JSON, e.g. {"insert": "accounts", "documents": [...]}.
type Conn struct {
	log    logger.Logger
	db     *mongo.Database
	dbName string
	s      mongo.Session
	pid    int

	current *Txn
}

func (c *Conn) PID() int {
	return c.pid
}

// Begin starts a snapshot transaction. Mongo has no serializable level,
// so stronger levels are reported as repeatable read.
func (c *Conn) Begin(ctx context.Context, lvl txn.Isolation) (txn.Txn, error) {
	r := readconcern.Snapshot()
	if lvl == txn.ReadCommitted {
		r = readconcern.Majority()
	}

	err := c.s.StartTransaction(
		options.Transaction().
			SetReadConcern(r).
			SetWriteConcern(writeconcern.Majority()),
	)
	if err != nil {
		return nil, classify(errors.WrapFail(err, "start transaction"))
	}

	c.current = &Txn{c: c, lvl: reportedIsolation(lvl)}
	return c.current, nil
}

func (c *Conn) Close(ctx context.Context) error {
	var err error
	if c.current != nil {
		err = c.current.Rollback(ctx)
	}
	c.s.EndSession(ctx)
	return errors.WrapFail(err, "abort running txn")
}

func (c *Conn) Oracle() linearize.Oracle {
	return noLocks{}
}

func (c *Conn) Classify(_ context.Context, _ txn.Txn, stmt txn.Statement) (txn.Access, error) {
	cmd, err := parseCommand(stmt)
	if err != nil {
		return txn.Access{}, err
	}
	return commandAccess(c.dbName, cmd), nil
}

func reportedIsolation(lvl txn.Isolation) txn.Isolation {
	if lvl == txn.ReadCommitted {
		return txn.ReadCommitted
	}
	return txn.RepeatableRead
}

type Txn struct {
	c        *Conn
	lvl      txn.Isolation
	finished bool
}

func (t *Txn) Isolation() txn.Isolation {
	return t.lvl
}

func (t *Txn) Exec(ctx context.Context, stmt txn.Statement) error {
	cmd, err := parseCommand(stmt)
	if err != nil {
		return err
	}

	sctx := mongo.NewSessionContext(ctx, t.c.s)
	return classify(t.c.db.RunCommand(sctx, cmd).Err())
}

func (t *Txn) Commit(ctx context.Context) error {
	if t.finished {
		return errors.Error("transaction is already finished")
	}
	t.finished = true
	return classify(t.c.s.CommitTransaction(ctx))
}

func (t *Txn) Rollback(ctx context.Context) error {
	if t.finished {
		return nil
	}
	t.finished = true

	return t.c.s.AbortTransaction(ctx)
}

// noLocks is the oracle of an engine without predicate locks.
type noLocks struct{}

func (noLocks) ShareTransaction(context.Context) (txn.Ref, bool, error) {
	return txn.Ref{}, false, nil
}

func (noLocks) PredicateLockHolders(context.Context, txn.RelID) ([]txn.Ref, error) {
	return nil, nil
}

func (noLocks) HeldRelations(context.Context) ([]txn.RelID, error) {
	return nil, nil
}
