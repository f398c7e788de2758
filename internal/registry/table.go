package registry

import (
	"github.com/nikmy/txnguard/pkg/errors"
)

const (
	DefaultMaxConflicts = 1024

	regionName = "txnguard_linearization_control"
)

type Config struct {
	MaxBackends  int `yaml:"max_backends"`
	MaxConflicts int `yaml:"max_conflicts"`
}

// Table is the control table: one slot per possible backend, sized once.
type Table struct {
	slots []Slot
}

func NewTable(backends, capacity int) *Table {
	slots := make([]Slot, backends)
	for i := range slots {
		slots[i] = newSlot(capacity)
	}
	return &Table{slots: slots}
}

// Open looks the control table up in regions, allocating it on the first
// call in the process.
func Open(regions *Regions, cfg Config) (*Table, error) {
	if cfg.MaxBackends <= 0 {
		return nil, errors.Newf(errors.ClassParameter, "max_backends must be positive, got %d", cfg.MaxBackends)
	}
	if cfg.MaxConflicts <= 0 {
		cfg.MaxConflicts = DefaultMaxConflicts
	}

	region := regions.AllocateOrLookup(
		regionName,
		func() any { return NewTable(cfg.MaxBackends, cfg.MaxConflicts) },
	)

	t, ok := region.(*Table)
	if !ok {
		return nil, errors.Errorf("region %q holds %T, not a control table", regionName, region)
	}
	if t.Len() != cfg.MaxBackends {
		return nil, errors.Errorf("control table has %d slots, configured %d", t.Len(), cfg.MaxBackends)
	}

	return t, nil
}

func (t *Table) Len() int {
	return len(t.slots)
}

func (t *Table) Slot(i int) *Slot {
	return &t.slots[i]
}

type SlotInfo struct {
	Index     int      `json:"index"`
	PID       int      `json:"pid"`
	Status    string   `json:"status"`
	Txn       *txnInfo `json:"txn,omitempty"`
	Conflicts int      `json:"conflicts"`
}

type txnInfo struct {
	ID  uint32 `json:"id"`
	PID int    `json:"pid"`
}

// Snapshot is a diagnostic view of the table, it is not consistent
// across slots.
func (t *Table) Snapshot() []SlotInfo {
	infos := make([]SlotInfo, 0, len(t.slots))
	for i := range t.slots {
		s := &t.slots[i]
		info := SlotInfo{
			Index:     i,
			PID:       s.PID(),
			Status:    s.Status().String(),
			Conflicts: min(s.Len(), s.Capacity()),
		}
		if ref := s.Transaction(); ref != nil {
			info.Txn = &txnInfo{ID: uint32(ref.ID), PID: ref.PID}
		}
		infos = append(infos, info)
	}
	return infos
}
