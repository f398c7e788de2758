package api

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/nikmy/txnguard/internal/metrics"
	"github.com/nikmy/txnguard/internal/registry"
	"github.com/nikmy/txnguard/internal/session"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
)

func NewServer(cfg Config, log logger.Logger, manager *session.Manager, table *registry.Table) Server {
	return newServer(cfg, log, manager, table)
}

func newServer(cfg Config, log logger.Logger, manager *session.Manager, table *registry.Table) *server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:             cfg.HTTP.ReadTimeout,
		WriteTimeout:            cfg.HTTP.WriteTimeout,
		IdleTimeout:             cfg.HTTP.IdleTimeout,
		DisableStartupMessage:   true,
		Immutable:               true,
		EnableTrustedProxyCheck: true,
		ProxyHeader:             cfg.Proxy.Header,
		TrustedProxies:          cfg.Proxy.Trusted,
		RequestMethods: []string{
			fiber.MethodGet,
			fiber.MethodHead,
			fiber.MethodPost,
			fiber.MethodPut,
			fiber.MethodDelete,
		},
	}

	fiberCfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		serveLog.Warn(errors.WrapFail(err, "handle http request"))
		return c.Status(http.StatusInternalServerError).Send(nil)
	}

	s := &server{
		sessions: newSessions(manager),
		table:    table,
		http:     fiber.New(fiberCfg),
		addr:     cfg.HTTP.Addr,
		log:      serveLog,
	}

	s.setupRoutes()

	return s
}

type server struct {
	sessions *sessions
	table    *registry.Table
	http     *fiber.App
	addr     string
	log      logger.Logger
}

func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error)
	go func() { errCh <- s.http.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return errors.Error("serve context done")
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	var errs []error

	err := s.http.ShutdownWithContext(ctx)
	if err != nil {
		errs = append(errs, errors.WrapFail(err, "shutdown http server"))
	}

	err = s.sessions.closeAll(ctx)
	if err != nil {
		errs = append(errs, errors.WrapFail(err, "close sessions"))
	}

	return errors.Collapse(errs)
}

func (s *server) setupRoutes() {
	s.http.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	s.http.Get("/slots", s.handleSlots)

	s.http.Post("/sessions", s.handleOpen)
	s.http.Delete("/sessions/:id", s.handleClose)

	sess := s.http.Group("/sessions/:id")

	sess.Post("/begin", s.withSession(s.handleBegin))
	sess.Post("/exec", s.withSession(s.handleExec))
	sess.Post("/commit", s.withSession(s.handleCommit))
	sess.Post("/rollback", s.withSession(s.handleRollback))

	sess.Post("/linearize", s.withSession(s.handleLinearize))
	sess.Get("/linearized", s.withSession(s.handleLinearized))

	sess.Post("/retry", s.withSession(s.handleRetry))
	sess.Get("/retry/attempt", s.handleRetryAttempt)
	sess.Get("/retry/backoff", s.withSession(s.handleRetryBackoff))
	sess.Get("/retry/prepared", s.withSession(s.handlePrepared))
	sess.Delete("/retry/prepared", s.withSession(s.handleResetPrepared))

	sess.Put("/variables/:name", s.withSession(s.handleSetVariable))
	sess.Get("/variables/:name", s.withSession(s.handleGetVariable))
}
