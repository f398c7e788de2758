package txn

import "fmt"

// ID is an engine transaction id. Zero is never assigned.
type ID uint32

const InvalidID ID = 0

// RelID identifies a relation (table, collection) inside the engine.
type RelID uint32

// Ref is a weak handle to a running transaction: who runs it and where.
type Ref struct {
	ID  ID
	PID int
}

func (r Ref) String() string {
	return fmt.Sprintf("txn %d (pid %d)", r.ID, r.PID)
}

type Isolation int

const (
	ReadCommitted Isolation = iota

	// RepeatableRead is snapshot isolation: reads observe a snapshot
	// taken at the first statement, write skew is possible
	RepeatableRead

	// Serializable is SSI: execution is equivalent to some serial
	// order, but not necessarily to the real time order
	Serializable
)

func (i Isolation) String() string {
	switch i {
	case ReadCommitted:
		return "read committed"
	case RepeatableRead:
		return "repeatable read"
	case Serializable:
		return "serializable"
	default:
		return fmt.Sprintf("isolation(%d)", int(i))
	}
}

func IsolationFromString(s string) (Isolation, bool) {
	switch s {
	case "read_committed", "read committed":
		return ReadCommitted, true
	case "repeatable_read", "repeatable read":
		return RepeatableRead, true
	case "serializable", "":
		return Serializable, true
	default:
		return 0, false
	}
}

type Statement struct {
	Text   string
	Params []any
}

type Relation struct {
	ID   RelID
	Name string
}

// Access describes what a statement is about to touch. For writes
// Relations lists result relations only, for reads every relation
// the statement scans.
type Access struct {
	Write     bool
	Relations []Relation
}

type XactEvent int

const (
	EventPreCommit XactEvent = iota
	EventCommit
	EventAbort
)

func (e XactEvent) String() string {
	switch e {
	case EventPreCommit:
		return "pre-commit"
	case EventCommit:
		return "commit"
	case EventAbort:
		return "abort"
	default:
		return "unknown"
	}
}
