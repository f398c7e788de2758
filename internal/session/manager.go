package session

import (
	"context"

	"github.com/nikmy/txnguard/internal/metrics"
	"github.com/nikmy/txnguard/internal/registry"
	"github.com/nikmy/txnguard/internal/retry"
	"github.com/nikmy/txnguard/pkg/errors"
	"github.com/nikmy/txnguard/pkg/logger"
)

const DefaultEstimatedVariables = 1024

type Config struct {
	// EstimatedVariables presizes transaction variable tables.
	EstimatedVariables int `yaml:"estimated_variables"`
}

// Manager hands out sessions, one per free slot of the control table.
type Manager struct {
	log      logger.Logger
	table    *registry.Table
	dial     Dialer
	cfg      Config
	retryCfg retry.Config

	free chan int
}

func NewManager(log logger.Logger, table *registry.Table, dial Dialer, cfg Config, retryCfg retry.Config) *Manager {
	if cfg.EstimatedVariables <= 0 {
		cfg.EstimatedVariables = DefaultEstimatedVariables
	}

	free := make(chan int, table.Len())
	for i := 0; i < table.Len(); i++ {
		free <- i
	}

	return &Manager{
		log:      log.With("session"),
		table:    table,
		dial:     dial,
		cfg:      cfg,
		retryCfg: retryCfg,
		free:     free,
	}
}

// Open blocks until a slot is free or ctx is done.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	var slot int
	select {
	case slot = <-m.free:
	case <-ctx.Done():
		return nil, errors.WrapFail(ctx.Err(), "wait for a free slot")
	}

	b, err := m.dial(ctx)
	if err != nil {
		m.free <- slot
		return nil, errors.WrapFail(err, "open backend")
	}

	m.table.Slot(slot).Attach(b.PID())
	metrics.ActiveSessions.Inc()
	m.log.Debugf("pid %d attached to slot %d", b.PID(), slot)

	return newSession(m.log, b, m.table, slot, m.cfg, m.retryCfg), nil
}

// Close ends s and releases its slot even if closing the backend failed.
func (m *Manager) Close(ctx context.Context, s *Session) error {
	defer func() {
		m.free <- s.slot
		metrics.ActiveSessions.Dec()
	}()
	return s.close(ctx)
}
