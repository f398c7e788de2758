package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/nikmy/txnguard/pkg/txn"
)

// LockTable is an in-process predicate lock manager with relation
// granularity. Locks live until their transaction ends.
type LockTable struct {
	mu    sync.RWMutex
	xacts map[int]txn.Ref
	locks map[txn.RelID]map[int]struct{}
}

func NewLockTable() *LockTable {
	return &LockTable{
		xacts: make(map[int]txn.Ref),
		locks: make(map[txn.RelID]map[int]struct{}),
	}
}

// Begin registers ref as the running serializable transaction of ref.PID.
func (t *LockTable) Begin(ref txn.Ref) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.xacts[ref.PID] = ref
}

// Acquire takes a predicate lock on rel for the transaction running on
// pid. Backends without a running transaction take nothing.
func (t *LockTable) Acquire(pid int, rel txn.RelID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, running := t.xacts[pid]; !running {
		return false
	}

	holders, ok := t.locks[rel]
	if !ok {
		holders = make(map[int]struct{})
		t.locks[rel] = holders
	}
	holders[pid] = struct{}{}
	return true
}

// End forgets the transaction of pid and every lock it held.
func (t *LockTable) End(pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.xacts, pid)
	for rel, holders := range t.locks {
		delete(holders, pid)
		if len(holders) == 0 {
			delete(t.locks, rel)
		}
	}
}

func (t *LockTable) Holders(rel txn.RelID) []txn.Ref {
	t.mu.RLock()
	defer t.mu.RUnlock()

	refs := make([]txn.Ref, 0, len(t.locks[rel]))
	for pid := range t.locks[rel] {
		refs = append(refs, t.xacts[pid])
	}
	slices.SortFunc(refs, func(a, b txn.Ref) int { return a.PID - b.PID })
	return refs
}

func (t *LockTable) Held(pid int) []txn.RelID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var rels []txn.RelID
	for rel, holders := range t.locks {
		if _, ok := holders[pid]; ok {
			rels = append(rels, rel)
		}
	}
	slices.Sort(rels)
	return rels
}

// Oracle is the view of the lock table from one backend.
func (t *LockTable) Oracle(pid int) *Oracle {
	return &Oracle{table: t, pid: pid}
}

type Oracle struct {
	table *LockTable
	pid   int
}

func (o *Oracle) ShareTransaction(context.Context) (txn.Ref, bool, error) {
	o.table.mu.RLock()
	defer o.table.mu.RUnlock()

	ref, ok := o.table.xacts[o.pid]
	return ref, ok, nil
}

func (o *Oracle) PredicateLockHolders(_ context.Context, rel txn.RelID) ([]txn.Ref, error) {
	return o.table.Holders(rel), nil
}

func (o *Oracle) HeldRelations(context.Context) ([]txn.RelID, error) {
	return o.table.Held(o.pid), nil
}
