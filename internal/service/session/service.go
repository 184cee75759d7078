// Package session tracks the signed-in user and drives the auth collaborator.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// ErrBusy is returned when an auth call is started while another is in flight.
var ErrBusy = errors.New("auth operation in progress")

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

type authProvider interface {
	CurrentSession(ctx context.Context) (*domain.Identity, error)
	Subscribe(fn func(domain.AuthChange)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

type authMetrics interface {
	AuthEvent(event string)
}

// Snapshot is a consistent view of the session state.
type Snapshot struct {
	State    domain.SessionState
	Identity domain.Identity
	Err      error
	Busy     bool
}

// Manager holds the session state. State transitions arrive only through the
// collaborator's push channel; the latest push wins.
type Manager struct {
	auth    authProvider
	metrics authMetrics
	log     *slog.Logger

	mu          sync.Mutex
	state       domain.SessionState
	identity    domain.Identity
	err         error
	busy        bool
	listeners   []func(Snapshot)
	unsubscribe func()
	closed      bool
}

// NewManager creates a Manager in the Unknown state.
func NewManager(log *slog.Logger, auth authProvider, metrics authMetrics) *Manager {
	return &Manager{
		auth:    auth,
		metrics: metrics,
		log:     log.With("service", "session"),
		state:   domain.SessionUnknown,
	}
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// OnChange registers fn to be called after every state change.
func (m *Manager) OnChange(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// ClearError dismisses the auth error.
func (m *Manager) ClearError() {
	m.update(func() { m.err = nil })
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{State: m.state, Identity: m.identity, Err: m.err, Busy: m.busy}
}

// update applies fn under the lock and notifies listeners outside it.
func (m *Manager) update(fn func()) {
	m.mu.Lock()
	fn()
	snap := m.snapshotLocked()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (m *Manager) event(name string) {
	if m.metrics != nil {
		m.metrics.AuthEvent(name)
	}
}
