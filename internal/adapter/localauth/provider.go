// Package localauth implements email + password auth against the accounts
// table. Sessions are signed JWTs persisted in the session file.
package localauth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/auth"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

type accountRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	TouchSignIn(ctx context.Context, id uuid.UUID, at time.Time) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type tokenIssuer interface {
	GenerateSessionToken(id domain.Identity) (string, time.Time, error)
	ValidateSessionToken(token string) (domain.Identity, time.Time, error)
}

type sessionStore interface {
	Load() (*auth.StoredSession, error)
	Save(s *auth.StoredSession) error
	Clear() error
}

// Provider is the local auth collaborator. Session changes are pushed to
// subscribers; listeners run on the goroutine that caused the change.
type Provider struct {
	log      *slog.Logger
	accounts accountRepo
	tx       txManager
	tokens   tokenIssuer
	store    sessionStore
	hashCost int
	now      func() time.Time

	listeners auth.Listeners

	mu       sync.Mutex
	timer    *time.Timer
	timerGen uint64
}

// New creates a Provider.
func New(
	log *slog.Logger,
	accounts accountRepo,
	tx txManager,
	tokens tokenIssuer,
	store sessionStore,
	hashCost int,
) *Provider {
	return &Provider{
		log:      log.With("adapter", "localauth"),
		accounts: accounts,
		tx:       tx,
		tokens:   tokens,
		store:    store,
		hashCost: hashCost,
		now:      time.Now,
	}
}

// Subscribe registers fn for session changes and returns a function that
// removes it.
func (p *Provider) Subscribe(fn func(domain.AuthChange)) func() {
	return p.listeners.Subscribe(fn)
}

// Close stops the expiry timer.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimerLocked()
}

// armExpiry schedules a session-expired push at expiresAt, replacing any
// earlier schedule.
func (p *Provider) armExpiry(expiresAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimerLocked()
	gen := p.timerGen
	p.timer = time.AfterFunc(expiresAt.Sub(p.now()), func() { p.expire(gen) })
}

func (p *Provider) stopTimerLocked() {
	p.timerGen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Provider) expire(gen uint64) {
	p.mu.Lock()
	if gen != p.timerGen {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	if err := p.store.Clear(); err != nil {
		p.log.Warn("clear expired session", slog.String("error", err.Error()))
	}
	p.log.Info("session expired")
	p.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSessionExpired})
}
