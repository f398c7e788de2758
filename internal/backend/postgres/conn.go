package postgres

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/nikmy/txnguard/internal/linearize"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
	"github.com/nikmy/txnguard/pkg/txn"
)

// Conn is a session's dedicated server connection. It keeps prepared
// statements and resolved relation ids across transactions.
type Conn struct {
	log  logger.Logger
	conn *sql.Conn
	pid  int

	current   *Txn
	stmtCache map[string]*sql.Stmt
	relations map[string]txn.RelID
}

func newConn(log logger.Logger, conn *sql.Conn, pid int) *Conn {
	return &Conn{
		log:       log,
		conn:      conn,
		pid:       pid,
		stmtCache: make(map[string]*sql.Stmt),
		relations: make(map[string]txn.RelID),
	}
}

func (c *Conn) PID() int {
	return c.pid
}

func (c *Conn) Begin(ctx context.Context, lvl txn.Isolation) (txn.Txn, error) {
	tx, err := c.conn.BeginTx(ctx, &sql.TxOptions{Isolation: isolationLevel(lvl)})
	if err != nil {
		return nil, classify(err)
	}

	c.current = &Txn{c: c, tx: tx, lvl: lvl}
	return c.current, nil
}

func (c *Conn) Close(ctx context.Context) error {
	err := c.ResetPreparedStatements(ctx)
	return errors.Collapse([]error{err, c.conn.Close()})
}

func (c *Conn) Oracle() linearize.Oracle {
	return &oracle{c: c}
}

func (c *Conn) PreparedStatements() []string {
	stmts := make([]string, 0, len(c.stmtCache))
	for text := range c.stmtCache {
		stmts = append(stmts, text)
	}
	slices.Sort(stmts)
	return stmts
}

func (c *Conn) ResetPreparedStatements(context.Context) error {
	var errs []error
	for text, stmt := range c.stmtCache {
		err := stmt.Close()
		if err != nil {
			errs = append(errs, errors.WrapFailf(err, "close statement %q", text))
		}
	}
	clear(c.stmtCache)
	return errors.Collapse(errs)
}

func (c *Conn) getAndCacheStmt(ctx context.Context, query string) (*sql.Stmt, error) {
	if stmt, ok := c.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	c.stmtCache[query] = stmt
	return stmt, nil
}

func (c *Conn) clearCacheIfFailed(query string, err error) {
	if err == nil {
		return
	}

	if stmt, ok := c.stmtCache[query]; ok {
		_ = stmt.Close()
	}
	delete(c.stmtCache, query)
}

// querier is the running transaction if any, the connection otherwise.
func (c *Conn) querier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
} {
	if c.current != nil && !c.current.done {
		return c.current.tx
	}
	return c.conn
}

func isolationLevel(lvl txn.Isolation) sql.IsolationLevel {
	switch lvl {
	case txn.ReadCommitted:
		return sql.LevelReadCommitted
	case txn.RepeatableRead:
		return sql.LevelRepeatableRead
	default:
		return sql.LevelSerializable
	}
}

// cacheable statements are prepared once per connection. Multi-statement
// text and anonymous code blocks can't be prepared.
func cacheable(stmt txn.Statement) bool {
	if len(stmt.Params) > 0 {
		return true
	}

	text := strings.TrimRight(strings.TrimSpace(stmt.Text), "; \t\n")
	if strings.Contains(text, ";") {
		return false
	}
	return !hasKeyword(text, "do")
}

func hasKeyword(text, keyword string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], keyword)
}

type Txn struct {
	c    *Conn
	tx   *sql.Tx
	lvl  txn.Isolation
	done bool
}

func (t *Txn) Isolation() txn.Isolation {
	return t.lvl
}

func (t *Txn) Exec(ctx context.Context, stmt txn.Statement) error {
	args, err := convertParams(stmt.Params)
	if err != nil {
		return err
	}

	if !cacheable(stmt) {
		_, err = t.tx.ExecContext(ctx, stmt.Text)
		return classify(err)
	}

	prepared, err := t.c.getAndCacheStmt(ctx, stmt.Text)
	if err != nil {
		return classify(err)
	}

	_, err = t.tx.StmtContext(ctx, prepared).ExecContext(ctx, args...)
	err = classify(err)
	if !errors.IsRetryable(err) {
		t.c.clearCacheIfFailed(stmt.Text, err)
	}
	return err
}

func (t *Txn) Commit(context.Context) error {
	if t.done {
		return errors.Error("transaction is already finished")
	}
	t.done = true
	return classify(t.tx.Commit())
}

func (t *Txn) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
