package hooks

import (
	"context"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

type StatementStartFunc func(ctx context.Context, access txn.Access) error

type XactFunc func(ctx context.Context, event txn.XactEvent) error

type named[F any] struct {
	name string
	fn   F
}

// Registry holds lifecycle hooks of one backend. Hooks run in
// registration order.
type Registry struct {
	statementStart []named[StatementStartFunc]
	xact           []named[XactFunc]
}

func New() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterStatementStart(name string, fn StatementStartFunc) {
	r.statementStart = append(r.statementStart, named[StatementStartFunc]{name, fn})
}

func (r *Registry) RegisterXact(name string, fn XactFunc) {
	r.xact = append(r.xact, named[XactFunc]{name, fn})
}

// StatementStart stops at the first failing hook: the statement must
// not run.
func (r *Registry) StatementStart(ctx context.Context, access txn.Access) error {
	for _, h := range r.statementStart {
		err := h.fn(ctx, access)
		if err != nil {
			return err
		}
	}
	return nil
}

// Xact stops at the first failure on pre-commit, since the transaction
// is going to abort. Commit and abort events reach every hook, their
// errors are collapsed.
func (r *Registry) Xact(ctx context.Context, event txn.XactEvent) error {
	var errs []error
	for _, h := range r.xact {
		err := h.fn(ctx, event)
		if err == nil {
			continue
		}
		if event == txn.EventPreCommit {
			return err
		}
		errs = append(errs, errors.Wrapf(err, "%s on %s", h.name, event))
	}
	return errors.Collapse(errs)
}
