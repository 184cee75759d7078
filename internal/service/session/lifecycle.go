package session

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Start subscribes to pushed session changes and then resolves the initial
// state from the collaborator. The initial result is discarded when a push
// has already moved the state out of Unknown. A failed query is logged and
// resolves to Unauthenticated with no error shown, since the user has not
// tried to sign in yet.
func (m *Manager) Start(ctx context.Context) {
	unsub := m.auth.Subscribe(m.push)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		unsub()
		return
	}
	m.unsubscribe = unsub
	m.mu.Unlock()

	id, err := m.auth.CurrentSession(ctx)
	if err != nil {
		m.log.WarnContext(ctx, "session query failed", slog.String("error", err.Error()))
	}

	applied := false
	m.update(func() {
		if m.state != domain.SessionUnknown {
			return
		}
		applied = true
		switch {
		case err != nil, id == nil:
			m.state = domain.SessionUnauthenticated
		default:
			m.state = domain.SessionAuthenticated
			m.identity = *id
		}
	})

	if applied {
		snap := m.Snapshot()
		m.log.InfoContext(ctx, "session resolved",
			slog.String("state", snap.State.String()),
			slog.String("email", snap.Identity.Email),
		)
	}
}

// Close releases the push subscription. It is safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.closed = true
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// push applies a collaborator update. The last update wins.
func (m *Manager) push(change domain.AuthChange) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}

	m.update(func() {
		if change.Identity == nil {
			m.state = domain.SessionUnauthenticated
			m.identity = domain.Identity{}
			return
		}
		m.state = domain.SessionAuthenticated
		m.identity = *change.Identity
		m.err = nil
	})

	m.event(string(change.Event))
	m.log.Info("session changed", slog.String("event", string(change.Event)))
}
