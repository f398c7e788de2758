package txn

import (
	"context"

	"github.com/nikmy/txnguard/pkg/errors"
)

type beginner interface {
	Begin(ctx context.Context, lvl Isolation) (Txn, error)
}

// Run begins a transaction on c, calls do and commits. When do or the
// commit fail the transaction is rolled back and the original error is
// returned unchanged, so callers can classify it.
func Run(ctx context.Context, c beginner, lvl Isolation, do func(Txn) error) error {
	tx, err := c.Begin(ctx, lvl)
	if err != nil {
		return err
	}

	err = do(tx)
	if err != nil {
		return rollback(ctx, tx, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return rollback(ctx, tx, err)
	}

	return nil
}

func rollback(ctx context.Context, tx Txn, cause error) error {
	err := tx.Rollback(ctx)
	if err != nil {
		return errors.Collapse([]error{cause, errors.WrapFail(err, "rollback transaction")})
	}
	return cause
}
