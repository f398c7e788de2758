package session

import (
	"context"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

var (
	errAborted = errors.New(
		errors.ClassUsage,
		"current transaction is aborted, commands ignored until end of transaction block",
	)
	errFinished = errors.New(errors.ClassUsage, "transaction is already finished")
)

// transaction fires session hooks around a host transaction.
type transaction struct {
	s      *Session
	tx     txn.Txn
	failed bool
	done   bool
}

func (t *transaction) Isolation() txn.Isolation {
	return t.tx.Isolation()
}

func (t *transaction) Exec(ctx context.Context, stmt txn.Statement) error {
	if t.done {
		return errFinished
	}
	if t.failed {
		return errAborted
	}

	err := t.exec(ctx, stmt)
	if err != nil {
		t.failed = true
	}
	return err
}

func (t *transaction) exec(ctx context.Context, stmt txn.Statement) error {
	access, err := t.s.backend.Classify(ctx, t.tx, stmt)
	if err != nil {
		return err
	}

	err = t.s.hooks.StatementStart(ctx, access)
	if err != nil {
		return err
	}

	return t.tx.Exec(ctx, stmt)
}

// Commit runs pre-commit hooks and commits. A failed transaction is
// rolled back instead.
func (t *transaction) Commit(ctx context.Context) error {
	if t.done {
		return errFinished
	}
	if t.failed {
		return errors.Collapse([]error{errAborted, t.abort(ctx)})
	}

	err := t.s.hooks.Xact(ctx, txn.EventPreCommit)
	if err != nil {
		return errors.Collapse([]error{err, t.abort(ctx)})
	}

	err = t.tx.Commit(ctx)
	if err != nil {
		t.end(ctx, txn.EventAbort)
		return err
	}

	t.end(ctx, txn.EventCommit)
	return nil
}

func (t *transaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	return t.abort(ctx)
}

func (t *transaction) abort(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	t.end(ctx, txn.EventAbort)
	return errors.WrapFail(err, "rollback transaction")
}

func (t *transaction) end(ctx context.Context, event txn.XactEvent) {
	t.done = true

	err := t.s.hooks.Xact(ctx, event)
	if err != nil {
		t.s.log.Warn(err)
	}

	t.s.finish(t)
}
