package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

var explainable = []string{"select", "insert", "update", "delete", "merge", "with", "values", "table"}

type planNode struct {
	NodeType     string     `json:"Node Type"`
	Operation    string     `json:"Operation"`
	RelationName string     `json:"Relation Name"`
	Schema       string     `json:"Schema"`
	Plans        []planNode `json:"Plans"`
}

type relationRef struct {
	schema string
	name   string
}

func (r relationRef) qualified() string {
	if r.schema == "" {
		return pq.QuoteIdentifier(r.name)
	}
	return pq.QuoteIdentifier(r.schema) + "." + pq.QuoteIdentifier(r.name)
}

// planAccess collects relations modified by the plan and relations it
// scans. Each relation is reported once, in plan order.
func planAccess(root planNode) (written, scanned []relationRef) {
	seen := map[relationRef]bool{}
	modified := map[relationRef]bool{}

	var walk func(n planNode)
	walk = func(n planNode) {
		if n.RelationName != "" {
			ref := relationRef{schema: n.Schema, name: n.RelationName}
			if n.NodeType == "ModifyTable" && !modified[ref] {
				modified[ref] = true
				written = append(written, ref)
			}
			if n.NodeType != "ModifyTable" && !seen[ref] {
				seen[ref] = true
				scanned = append(scanned, ref)
			}
		}
		for _, child := range n.Plans {
			walk(child)
		}
	}
	walk(root)

	return written, scanned
}

func parsePlan(data []byte) (planNode, error) {
	var plans []struct {
		Plan planNode `json:"Plan"`
	}
	err := json.Unmarshal(data, &plans)
	if err != nil {
		return planNode{}, errors.WrapFail(err, "parse plan")
	}
	if len(plans) == 0 {
		return planNode{}, errors.Error("empty plan")
	}
	return plans[0].Plan, nil
}

// Classify plans stmt inside tx without running it. Statements the
// planner can't explain touch nothing.
func (c *Conn) Classify(ctx context.Context, tx txn.Txn, stmt txn.Statement) (txn.Access, error) {
	if !explains(stmt) {
		return txn.Access{}, nil
	}

	t, ok := tx.(*Txn)
	if !ok {
		return txn.Access{}, errors.Errorf("transaction %T doesn't belong to postgres", tx)
	}

	args, err := convertParams(stmt.Params)
	if err != nil {
		return txn.Access{}, err
	}

	var raw []byte
	err = t.tx.QueryRowContext(ctx, "EXPLAIN (VERBOSE, FORMAT JSON) "+stmt.Text, args...).Scan(&raw)
	if err != nil {
		return txn.Access{}, classify(errors.WrapFail(err, "explain statement"))
	}

	root, err := parsePlan(raw)
	if err != nil {
		return txn.Access{}, err
	}

	written, scanned := planAccess(root)
	access := txn.Access{Write: len(written) > 0}

	refs := scanned
	if access.Write {
		refs = written
	}

	for _, ref := range refs {
		id, err := c.resolve(ctx, ref)
		if err != nil {
			return txn.Access{}, err
		}
		access.Relations = append(access.Relations, txn.Relation{ID: id, Name: ref.name})
	}

	return access, nil
}

func (c *Conn) resolve(ctx context.Context, ref relationRef) (txn.RelID, error) {
	name := ref.qualified()
	if id, ok := c.relations[name]; ok {
		return id, nil
	}

	var oid sql.NullInt64
	err := c.querier().QueryRowContext(ctx, "SELECT to_regclass($1)::oid", name).Scan(&oid)
	if err != nil {
		return 0, classify(errors.WrapFailf(err, "resolve relation %s", name))
	}
	if !oid.Valid {
		return 0, errors.Errorf("relation %s does not exist", name)
	}

	id := txn.RelID(oid.Int64)
	c.relations[name] = id
	return id, nil
}

func explains(stmt txn.Statement) bool {
	if !cacheable(stmt) && len(stmt.Params) == 0 {
		return false
	}
	for _, kw := range explainable {
		if hasKeyword(stmt.Text, kw) {
			return true
		}
	}
	return false
}
