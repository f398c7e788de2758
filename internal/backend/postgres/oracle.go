package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

// SIRead locks on indexes are reported against their tables.
const (
	holdersQuery = `
SELECT DISTINCT l.pid, COALESCE(a.backend_xid::text, '0')
FROM pg_locks l
LEFT JOIN pg_index i ON i.indexrelid = l.relation
LEFT JOIN pg_stat_activity a ON a.pid = l.pid
WHERE l.mode = 'SIReadLock'
  AND l.pid IS NOT NULL
  AND COALESCE(i.indrelid, l.relation) = $1
ORDER BY l.pid`

	heldQuery = `
SELECT DISTINCT COALESCE(i.indrelid, l.relation)
FROM pg_locks l
LEFT JOIN pg_index i ON i.indexrelid = l.relation
WHERE l.mode = 'SIReadLock'
  AND l.pid = pg_backend_pid()
  AND l.relation IS NOT NULL
ORDER BY 1`

	currentXactQuery = `SELECT pg_current_xact_id_if_assigned()::text`
)

// oracle reads the predicate lock manager through pg_locks. Queries run
// in the session's transaction, so they see its own locks.
type oracle struct {
	c *Conn
}

func (o *oracle) ShareTransaction(ctx context.Context) (txn.Ref, bool, error) {
	t := o.c.current
	if t == nil || t.done || t.lvl != txn.Serializable {
		return txn.Ref{}, false, nil
	}

	var xid sql.NullString
	err := o.c.querier().QueryRowContext(ctx, currentXactQuery).Scan(&xid)
	if err != nil {
		return txn.Ref{}, false, classify(err)
	}

	ref := txn.Ref{PID: o.c.pid}
	if xid.Valid {
		id, err := parseXid(xid.String)
		if err != nil {
			return txn.Ref{}, false, err
		}
		ref.ID = id
	}
	return ref, true, nil
}

func (o *oracle) PredicateLockHolders(ctx context.Context, rel txn.RelID) ([]txn.Ref, error) {
	rows, err := o.c.querier().QueryContext(ctx, holdersQuery, int64(rel))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var holders []txn.Ref
	for rows.Next() {
		var (
			pid int
			xid string
		)
		err = rows.Scan(&pid, &xid)
		if err != nil {
			return nil, errors.WrapFail(err, "scan lock holder")
		}

		id, err := parseXid(xid)
		if err != nil {
			return nil, err
		}
		holders = append(holders, txn.Ref{ID: id, PID: pid})
	}

	return holders, rows.Err()
}

func (o *oracle) HeldRelations(ctx context.Context) ([]txn.RelID, error) {
	rows, err := o.c.querier().QueryContext(ctx, heldQuery)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var rels []txn.RelID
	for rows.Next() {
		var oid int64
		err = rows.Scan(&oid)
		if err != nil {
			return nil, errors.WrapFail(err, "scan held relation")
		}
		rels = append(rels, txn.RelID(oid))
	}

	return rels, rows.Err()
}

// parseXid keeps the low 32 bits of a full transaction id, the part
// pg_stat_activity reports.
func parseXid(s string) (txn.ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return txn.InvalidID, errors.WrapFailf(err, "parse transaction id %q", s)
	}
	return txn.ID(uint32(v)), nil
}
