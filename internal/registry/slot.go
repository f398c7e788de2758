package registry

import (
	"fmt"
	"sync/atomic"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

type Status int32

const (
	Inactive Status = iota
	InProgress
	Committing
)

func (s Status) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case InProgress:
		return "in_progress"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// Conflict says that Writer committed a write to Relation after the
// slot owner may have taken its snapshot.
type Conflict struct {
	Writer   txn.ID
	Relation txn.RelID
}

// records are published as a single word so a reader never observes
// a half-written conflict; zero means the reserved cell is not
// written yet (txn.InvalidID is never a writer)
func (c Conflict) pack() uint64 {
	return uint64(c.Writer)<<32 | uint64(c.Relation)
}

func unpack(w uint64) Conflict {
	return Conflict{Writer: txn.ID(w >> 32), Relation: txn.RelID(uint32(w))}
}

// Slot is the per-backend part of the control table. Identity fields
// are written by the owning backend only, records are appended by any
// backend and read by the owner.
type Slot struct {
	pid     atomic.Int64
	status  atomic.Int32
	xact    atomic.Pointer[txn.Ref]
	count   atomic.Uint32
	records []atomic.Uint64
}

func newSlot(capacity int) Slot {
	return Slot{records: make([]atomic.Uint64, capacity)}
}

func (s *Slot) PID() int {
	return int(s.pid.Load())
}

func (s *Slot) Status() Status {
	return Status(s.status.Load())
}

func (s *Slot) SetStatus(st Status) {
	s.status.Store(int32(st))
}

// Transaction returns the shared handle of the owner's transaction,
// nil if it wasn't shared yet.
func (s *Slot) Transaction() *txn.Ref {
	return s.xact.Load()
}

func (s *Slot) ShareTransaction(ref txn.Ref) {
	s.xact.Store(&ref)
}

func (s *Slot) Capacity() int {
	return len(s.records)
}

// Len is the number of reserved records, it may exceed Capacity after
// failed appends until the next Reset.
func (s *Slot) Len() int {
	return int(s.count.Load())
}

// Attach binds the slot to a backend process and clears the state left
// by the previous owner.
func (s *Slot) Attach(pid int) {
	s.pid.Store(int64(pid))
	s.Reset()
}

func (s *Slot) Reset() {
	s.xact.Store(nil)
	s.SetStatus(Inactive)

	n := min(int(s.count.Swap(0)), len(s.records))
	for i := 0; i < n; i++ {
		s.records[i].Store(0)
	}
}

// Record appends c to the slot. The index is reserved before the write,
// so concurrent writers never share a cell. When the slot is full the
// reservation is still counted but nothing is written.
func (s *Slot) Record(c Conflict) error {
	idx := s.count.Add(1) - 1
	if int(idx) >= len(s.records) {
		return errors.Detailed(
			errors.ClassCapacity,
			"conflict registry is full",
			fmt.Sprintf("slot of pid %d already holds %d conflicts", s.PID(), len(s.records)),
			"",
		)
	}

	s.records[idx].Store(c.pack())
	return nil
}

// Conflicts returns the published prefix of the records. Only the owning
// backend calls it.
func (s *Slot) Conflicts() []Conflict {
	n := min(int(s.count.Load()), len(s.records))

	conflicts := make([]Conflict, 0, n)
	for i := 0; i < n; i++ {
		w := s.records[i].Load()
		if w == 0 {
			continue
		}
		conflicts = append(conflicts, unpack(w))
	}

	return conflicts
}
