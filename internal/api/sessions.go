package api

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nikmy/txnguard/internal/session"
	"github.com/nikmy/txnguard/pkg/errors"
)

var errUnknownSession = errors.Error("unknown session")

// entry serializes requests to one session.
type entry struct {
	mu sync.Mutex
	s  *session.Session
}

type sessions struct {
	manager *session.Manager

	mu   sync.RWMutex
	byID map[string]*entry
}

func newSessions(m *session.Manager) *sessions {
	return &sessions{
		manager: m,
		byID:    make(map[string]*entry),
	}
}

func (ss *sessions) open(ctx context.Context) (string, *session.Session, error) {
	s, err := ss.manager.Open(ctx)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()

	ss.mu.Lock()
	ss.byID[id] = &entry{s: s}
	ss.mu.Unlock()

	return id, s, nil
}

func (ss *sessions) get(id string) (*entry, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	e, ok := ss.byID[id]
	return e, ok
}

func (ss *sessions) close(ctx context.Context, id string) error {
	ss.mu.Lock()
	e, ok := ss.byID[id]
	delete(ss.byID, id)
	ss.mu.Unlock()

	if !ok {
		return errUnknownSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return ss.manager.Close(ctx, e.s)
}

func (ss *sessions) closeAll(ctx context.Context) error {
	ss.mu.RLock()
	ids := make([]string, 0, len(ss.byID))
	for id := range ss.byID {
		ids = append(ids, id)
	}
	ss.mu.RUnlock()

	var errs []error
	for _, id := range ids {
		err := ss.close(ctx, id)
		if err != nil && !errors.Is(err, errUnknownSession) {
			errs = append(errs, errors.WrapFailf(err, "close session %s", id))
		}
	}
	return errors.Collapse(errs)
}
