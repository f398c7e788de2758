package linearize

import (
	"context"
	"fmt"
	"slices"

	"github.com/nikmy/txnguard/internal/hooks"
	"github.com/nikmy/txnguard/internal/metrics"
	"github.com/nikmy/txnguard/internal/registry"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
	"github.com/nikmy/txnguard/pkg/txn"
)

const failureMsg = "linearization failure"

// Oracle exposes the engine's predicate lock manager to one backend.
type Oracle interface {
	// ShareTransaction returns the backend's running serializable
	// transaction, ok is false when there is none.
	ShareTransaction(ctx context.Context) (ref txn.Ref, ok bool, err error)

	// PredicateLockHolders lists transactions holding a predicate lock
	// that implicates rel, including the caller's own.
	PredicateLockHolders(ctx context.Context, rel txn.RelID) ([]txn.Ref, error)

	// HeldRelations lists relations the caller holds predicate locks on.
	HeldRelations(ctx context.Context) ([]txn.RelID, error)
}

// Protocol is the linearization state machine of one backend. It is not
// safe for concurrent use, exactly like the backend it belongs to.
type Protocol struct {
	log    logger.Logger
	table  *registry.Table
	self   int
	oracle Oracle

	armed  bool
	writes []txn.Relation
}

func New(log logger.Logger, table *registry.Table, self int, oracle Oracle) *Protocol {
	return &Protocol{
		log:    log.With("linearize"),
		table:  table,
		self:   self,
		oracle: oracle,
	}
}

func (p *Protocol) Register(h *hooks.Registry) {
	h.RegisterStatementStart("linearize", p.OnStatementStart)
	h.RegisterXact("linearize cleanup", p.OnXact)
}

// Activate arms the protocol for the current transaction. Activating an
// armed transaction keeps the writes collected so far.
func (p *Protocol) Activate(lvl txn.Isolation) error {
	if lvl != txn.Serializable {
		return errors.Detailed(
			errors.ClassUsage,
			"current transaction is not serializable",
			fmt.Sprintf("isolation level is %s", lvl),
			"",
		)
	}
	if p.armed {
		return nil
	}

	// records appended after the previous reset belong to no transaction
	s := p.slot()
	s.Reset()
	s.SetStatus(registry.InProgress)
	p.writes = p.writes[:0]
	p.armed = true
	return nil
}

func (p *Protocol) Active() bool {
	return p.armed
}

func (p *Protocol) OnStatementStart(ctx context.Context, access txn.Access) error {
	if !p.armed {
		return nil
	}

	s := p.slot()
	if s.Transaction() == nil {
		ref, ok, err := p.oracle.ShareTransaction(ctx)
		if err != nil {
			return p.abort(errors.WrapFail(err, "share transaction"))
		}
		if ok {
			s.ShareTransaction(ref)
		}
	}

	if !access.Write {
		return p.abort(p.checkConflicts(access.Relations))
	}

	for _, rel := range access.Relations {
		err := p.checkPredicateLocks(ctx, rel)
		if err != nil {
			return p.abort(err)
		}
		p.addWrite(rel)
	}

	return nil
}

func (p *Protocol) OnXact(ctx context.Context, event txn.XactEvent) error {
	if !p.armed {
		return nil
	}

	defer func() {
		p.armed = false
		p.writes = p.writes[:0]
	}()

	if event == txn.EventPreCommit {
		return p.preCommit(ctx)
	}

	p.slot().Reset()
	return nil
}

func (p *Protocol) preCommit(ctx context.Context) error {
	s := p.slot()
	s.SetStatus(registry.Committing)

	held, err := p.oracle.HeldRelations(ctx)
	if err != nil {
		return p.abort(errors.WrapFail(err, "list held predicate locks"))
	}

	heldRels := make([]txn.Relation, 0, len(held))
	for _, id := range held {
		heldRels = append(heldRels, p.describe(id))
	}

	err = p.checkConflicts(heldRels)
	if err != nil {
		return p.abort(err)
	}

	for _, rel := range p.writes {
		err = p.checkPredicateLocks(ctx, rel)
		if err != nil {
			return p.abort(err)
		}
	}

	if len(p.writes) == 0 {
		s.Reset()
		return nil
	}

	writer, err := p.writer(ctx)
	if err != nil {
		return p.abort(err)
	}

	recorded := 0
	for _, rel := range p.writes {
		for i := 0; i < p.table.Len(); i++ {
			if i == p.self {
				continue
			}

			other := p.table.Slot(i)
			if other.Status() != registry.InProgress {
				continue
			}

			err = other.Record(registry.Conflict{Writer: writer.ID, Relation: rel.ID})
			if err != nil {
				metrics.LinearizationFailures.WithLabelValues(metrics.ReasonCapacity).Inc()
				return p.abort(errors.Because(
					err,
					errors.ClassSerialization,
					failureMsg,
					fmt.Sprintf("transaction %d has too many potential conflicts to record", writer.ID),
					"try again",
				))
			}
			recorded++
		}
	}

	metrics.ConflictsRecorded.Add(float64(recorded))
	p.log.Debugf("txn %d propagated %d conflicts over %d relations", writer.ID, recorded, len(p.writes))

	s.Reset()
	return nil
}

func (p *Protocol) checkPredicateLocks(ctx context.Context, rel txn.Relation) error {
	holders, err := p.oracle.PredicateLockHolders(ctx, rel.ID)
	if err != nil {
		return errors.WrapFailf(err, "list predicate locks on %q", rel.Name)
	}

	self := p.slot().PID()
	for _, h := range holders {
		if h.PID == self {
			continue
		}

		metrics.LinearizationFailures.WithLabelValues(metrics.ReasonPredicateLock).Inc()
		return errors.Detailed(
			errors.ClassSerialization,
			failureMsg,
			fmt.Sprintf("transaction %d has a predicate lock on %q", h.ID, rel.Name),
			"",
		)
	}

	return nil
}

func (p *Protocol) checkConflicts(rels []txn.Relation) error {
	if len(rels) == 0 {
		return nil
	}

	for _, c := range p.slot().Conflicts() {
		for _, rel := range rels {
			if c.Relation != rel.ID {
				continue
			}

			metrics.LinearizationFailures.WithLabelValues(metrics.ReasonConflict).Inc()
			return errors.Detailed(
				errors.ClassSerialization,
				failureMsg,
				fmt.Sprintf("transaction %d has written to %q and has since committed", c.Writer, rel.Name),
				"",
			)
		}
	}

	return nil
}

// writer returns the shared transaction handle, sharing it again when
// the engine assigned an id only after the first write.
func (p *Protocol) writer(ctx context.Context) (txn.Ref, error) {
	s := p.slot()
	if ref := s.Transaction(); ref != nil && ref.ID != txn.InvalidID {
		return *ref, nil
	}

	ref, ok, err := p.oracle.ShareTransaction(ctx)
	if err != nil {
		return txn.Ref{}, errors.WrapFail(err, "share transaction")
	}
	if !ok || ref.ID == txn.InvalidID {
		p.log.Warnf("pid %d commits linearized writes without a transaction id", s.PID())
	}

	s.ShareTransaction(ref)
	return ref, nil
}

func (p *Protocol) addWrite(rel txn.Relation) {
	contains := slices.ContainsFunc(p.writes, func(w txn.Relation) bool {
		return w.ID == rel.ID
	})
	if !contains {
		p.writes = append(p.writes, rel)
	}
}

// describe names a relation known only by id, using the write set when
// possible.
func (p *Protocol) describe(id txn.RelID) txn.Relation {
	for _, w := range p.writes {
		if w.ID == id {
			return w
		}
	}
	return txn.Relation{ID: id, Name: fmt.Sprintf("relation %d", id)}
}

// abort resets the slot before the error leaves the protocol.
func (p *Protocol) abort(err error) error {
	if err != nil {
		p.slot().Reset()
	}
	return err
}

func (p *Protocol) slot() *registry.Slot {
	return p.table.Slot(p.self)
}
