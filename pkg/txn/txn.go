package txn

import "context"

type Conn interface {
	Begin(ctx context.Context, lvl Isolation) (Txn, error)
	Close(ctx context.Context) error
}

type Txn interface {
	Isolation() Isolation

	Exec(ctx context.Context, stmt Statement) error
	Commit(ctx context.Context) error

	// Rollback must be safe to call on a finished transaction
	Rollback(ctx context.Context) error
}

// StatementCache is implemented by connections that keep prepared
// statements between transactions.
type StatementCache interface {
	PreparedStatements() []string
	ResetPreparedStatements(ctx context.Context) error
}
