package session

import (
	"context"

	"github.com/nikmy/txnguard/internal/hooks"
	"github.com/nikmy/txnguard/internal/linearize"
	"github.com/nikmy/txnguard/internal/registry"
	"github.com/nikmy/txnguard/internal/retry"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
	"github.com/nikmy/txnguard/pkg/txn"
)

// Session is one execution context: a host connection bound to a slot
// of the control table. It is not safe for concurrent use, except for
// CurrentRetryAttempt.
type Session struct {
	log     logger.Logger
	backend Backend
	slot    int
	table   *registry.Table

	hooks *hooks.Registry
	proto *linearize.Protocol
	retry *retry.Executor

	current *transaction
	vars    variables
}

func newSession(log logger.Logger, b Backend, table *registry.Table, slot int, cfg Config, retryCfg retry.Config) *Session {
	s := &Session{
		log:     log,
		backend: b,
		slot:    slot,
		table:   table,
		hooks:   hooks.New(),
		vars:    variables{estimated: cfg.EstimatedVariables},
	}

	s.proto = linearize.New(log, table, slot, b.Oracle())
	s.proto.Register(s.hooks)

	s.retry = retry.New(log, s, retryCfg, retry.WithLinearizer(func(tx txn.Txn) error {
		return s.proto.Activate(tx.Isolation())
	}))

	return s
}

func (s *Session) PID() int {
	return s.backend.PID()
}

func (s *Session) Slot() int {
	return s.slot
}

// Begin starts a transaction block.
func (s *Session) Begin(ctx context.Context, lvl txn.Isolation) (txn.Txn, error) {
	if s.current != nil {
		return nil, errors.New(errors.ClassUsage, "there is already a transaction in progress")
	}

	tx, err := s.backend.Begin(ctx, lvl)
	if err != nil {
		return nil, errors.WrapFail(err, "begin transaction")
	}

	s.current = &transaction{s: s, tx: tx}
	return s.current, nil
}

func (s *Session) InTransactionBlock() bool {
	return s.current != nil
}

// Exec runs stmt in the current transaction block, or in a transaction
// of its own outside of one.
func (s *Session) Exec(ctx context.Context, stmt txn.Statement) error {
	if s.current != nil {
		return s.current.Exec(ctx, stmt)
	}

	return txn.Run(ctx, s, txn.ReadCommitted, func(tx txn.Txn) error {
		return tx.Exec(ctx, stmt)
	})
}

func (s *Session) Commit(ctx context.Context) error {
	if s.current == nil {
		return errors.New(errors.ClassUsage, "there is no transaction in progress")
	}
	return s.current.Commit(ctx)
}

// Rollback of no transaction is a no-op.
func (s *Session) Rollback(ctx context.Context) error {
	if s.current == nil {
		s.log.Debugf("rollback outside of a transaction block")
		return nil
	}
	return s.current.Rollback(ctx)
}

// Linearize arms linearization checks for the current transaction block.
func (s *Session) Linearize() error {
	if s.current == nil {
		return errors.Detailed(
			errors.ClassUsage,
			"linearize can only be used in transaction blocks",
			"",
			"start a serializable transaction first",
		)
	}
	return s.proto.Activate(s.current.Isolation())
}

func (s *Session) Linearized() bool {
	return s.proto.Active()
}

func (s *Session) Retry(ctx context.Context, statement string, opts ...retry.Option) error {
	return s.retry.Do(ctx, statement, opts...)
}

func (s *Session) CurrentRetryAttempt() int {
	return s.retry.CurrentAttempt()
}

func (s *Session) RetryBackoffValues() []int64 {
	return s.retry.BackoffValues()
}

// PreparedStatements lists statements the host connection keeps
// prepared, nil when it doesn't cache them.
func (s *Session) PreparedStatements() []string {
	cache, ok := s.backend.(txn.StatementCache)
	if !ok {
		return nil
	}
	return cache.PreparedStatements()
}

func (s *Session) ResetPreparedStatements(ctx context.Context) error {
	cache, ok := s.backend.(txn.StatementCache)
	if !ok {
		return nil
	}
	return errors.WrapFail(cache.ResetPreparedStatements(ctx), "reset prepared statements")
}

// SetVariable sets a variable of the current transaction. Outside of a
// transaction block the variable is dropped right away, like the
// single-statement transaction that set it.
func (s *Session) SetVariable(name string, value any) error {
	err := checkName(name)
	if err != nil {
		return err
	}
	if s.current == nil {
		return nil
	}

	s.vars.set(name, value)
	return nil
}

func (s *Session) GetVariable(name string, def any) (any, error) {
	err := checkName(name)
	if err != nil {
		return nil, err
	}
	if s.current == nil {
		return def, nil
	}
	return s.vars.get(name, def)
}

// finish is called by a transaction that has ended.
func (s *Session) finish(t *transaction) {
	if s.current == t {
		s.current = nil
	}
	s.vars.reset()
}

// close rolls back an open transaction block and closes the backend.
func (s *Session) close(ctx context.Context) error {
	var errs []error
	if s.current != nil {
		errs = append(errs, s.current.Rollback(ctx))
	}
	errs = append(errs, errors.WrapFail(s.backend.Close(ctx), "close backend"))
	s.table.Slot(s.slot).Attach(0)
	return errors.Collapse(errs)
}
