package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nikmy/txnguard/internal/retry"
	"github.com/nikmy/txnguard/internal/session"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/txn"
)

type sessionHandler func(c *fiber.Ctx, s *session.Session) error

func (s *server) withSession(h sessionHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, found := s.sessions.get(c.Params("id"))
		if !found {
			return s.sendError(c, errUnknownSession)
		}

		e.mu.Lock()
		defer e.mu.Unlock()

		err := h(c, e.s)
		if err != nil {
			return s.sendError(c, err)
		}
		return nil
	}
}

func ok(c *fiber.Ctx, fields fiber.Map) error {
	body := fiber.Map{"status": "OK"}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(body)
}

func (s *server) handleSlots(c *fiber.Ctx) error {
	return c.JSON(s.table.Snapshot())
}

func (s *server) handleOpen(c *fiber.Ctx) error {
	id, sess, err := s.sessions.open(c.UserContext())
	if err != nil {
		return s.sendError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "OK",
		"id":     id,
		"pid":    sess.PID(),
		"slot":   sess.Slot(),
	})
}

func (s *server) handleClose(c *fiber.Ctx) error {
	err := s.sessions.close(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.sendError(c, err)
	}
	return ok(c, nil)
}

type beginRequest struct {
	Isolation string `json:"isolation"`
}

func (s *server) handleBegin(c *fiber.Ctx, sess *session.Session) error {
	var req beginRequest
	if len(c.Body()) > 0 {
		err := c.BodyParser(&req)
		if err != nil {
			return badBody(err)
		}
	}

	lvl, valid := txn.IsolationFromString(req.Isolation)
	if !valid {
		return errors.Newf(errors.ClassParameter, "unknown isolation level %q", req.Isolation)
	}

	_, err := sess.Begin(c.UserContext(), lvl)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"isolation": lvl.String()})
}

type execRequest struct {
	Statement string `json:"statement"`
	Params    []any  `json:"params"`
}

func (s *server) handleExec(c *fiber.Ctx, sess *session.Session) error {
	var req execRequest
	err := c.BodyParser(&req)
	if err != nil {
		return badBody(err)
	}
	if req.Statement == "" {
		return errors.New(errors.ClassParameter, "statement is required")
	}

	err = sess.Exec(c.UserContext(), txn.Statement{Text: req.Statement, Params: req.Params})
	if err != nil {
		return err
	}
	return ok(c, nil)
}

func (s *server) handleCommit(c *fiber.Ctx, sess *session.Session) error {
	err := sess.Commit(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, nil)
}

func (s *server) handleRollback(c *fiber.Ctx, sess *session.Session) error {
	err := sess.Rollback(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, nil)
}

func (s *server) handleLinearize(c *fiber.Ctx, sess *session.Session) error {
	err := sess.Linearize()
	if err != nil {
		return err
	}
	return ok(c, nil)
}

func (s *server) handleLinearized(c *fiber.Ctx, sess *session.Session) error {
	return ok(c, fiber.Map{"linearized": sess.Linearized()})
}

type retryRequest struct {
	Statement            string `json:"statement"`
	Params               []any  `json:"params"`
	MaxAttempts          *int   `json:"max_attempts"`
	RepeatableRead       bool   `json:"repeatable_read"`
	CollectBackoffValues bool   `json:"collect_backoff_values"`
	Linearize            bool   `json:"linearize"`
	TimeoutMillis        int64  `json:"timeout_ms"`
}

func (r retryRequest) options() []retry.Option {
	var opts []retry.Option
	if r.MaxAttempts != nil {
		opts = append(opts, retry.WithMaxAttempts(*r.MaxAttempts))
	}
	if r.RepeatableRead {
		opts = append(opts, retry.WithRepeatableRead())
	}
	if r.CollectBackoffValues {
		opts = append(opts, retry.WithBackoffSamples())
	}
	if len(r.Params) > 0 {
		opts = append(opts, retry.WithParams(r.Params...))
	}
	if r.Linearize {
		opts = append(opts, retry.WithLinearize())
	}
	if r.TimeoutMillis != 0 {
		opts = append(opts, retry.WithTimeout(time.Duration(r.TimeoutMillis)*time.Millisecond))
	}
	return opts
}

func (s *server) handleRetry(c *fiber.Ctx, sess *session.Session) error {
	var req retryRequest
	err := c.BodyParser(&req)
	if err != nil {
		return badBody(err)
	}

	err = sess.Retry(c.UserContext(), req.Statement, req.options()...)
	if err != nil {
		return err
	}
	return ok(c, nil)
}

// handleRetryAttempt doesn't wait for the session, so it can watch a
// running retry.
func (s *server) handleRetryAttempt(c *fiber.Ctx) error {
	e, found := s.sessions.get(c.Params("id"))
	if !found {
		return s.sendError(c, errUnknownSession)
	}
	return ok(c, fiber.Map{"attempt": e.s.CurrentRetryAttempt()})
}

func (s *server) handleRetryBackoff(c *fiber.Ctx, sess *session.Session) error {
	values := sess.RetryBackoffValues()
	if values == nil {
		values = []int64{}
	}
	return ok(c, fiber.Map{"values": values})
}

func (s *server) handlePrepared(c *fiber.Ctx, sess *session.Session) error {
	stmts := sess.PreparedStatements()
	if stmts == nil {
		stmts = []string{}
	}
	return ok(c, fiber.Map{"statements": stmts})
}

func (s *server) handleResetPrepared(c *fiber.Ctx, sess *session.Session) error {
	err := sess.ResetPreparedStatements(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, nil)
}

type variableRequest struct {
	Value any `json:"value"`
}

func (s *server) handleSetVariable(c *fiber.Ctx, sess *session.Session) error {
	var req variableRequest
	err := c.BodyParser(&req)
	if err != nil {
		return badBody(err)
	}

	err = sess.SetVariable(c.Params("name"), req.Value)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"value": req.Value})
}

// handleGetVariable takes the default as a JSON value in the "default"
// query parameter.
func (s *server) handleGetVariable(c *fiber.Ctx, sess *session.Session) error {
	var def any
	if raw := c.Query("default"); raw != "" {
		err := json.Unmarshal([]byte(raw), &def)
		if err != nil {
			return errors.Because(err, errors.ClassParameter, "default must be a JSON value", "", "")
		}
	}

	value, err := sess.GetVariable(c.Params("name"), def)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"value": value})
}
