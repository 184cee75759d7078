package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/auth"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// refreshMargin is how long before expiry the access token is refreshed.
const refreshMargin = 30 * time.Second

type sessionStore interface {
	Load() (*auth.StoredSession, error)
	Save(s *auth.StoredSession) error
	Clear() error
}

type gotrueUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// tokenResponse is the session returned by the token and signup endpoints.
// Signup without auto-confirm returns only the user fields.
type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	User         gotrueUser `json:"user"`
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// Auth is the GoTrue auth collaborator. It persists the session and pushes
// changes to subscribers, refreshing the token shortly before it expires.
type Auth struct {
	c     *Client
	store sessionStore
	log   *slog.Logger
	now   func() time.Time

	listeners auth.Listeners

	mu       sync.Mutex
	session  *auth.StoredSession
	timer    *time.Timer
	timerGen uint64
}

// NewAuth creates an Auth.
func NewAuth(log *slog.Logger, c *Client, store sessionStore) *Auth {
	return &Auth{
		c:     c,
		store: store,
		log:   log.With("adapter", "supabase.auth"),
		now:   time.Now,
	}
}

// AccessToken returns the token of the current session, or "".
func (a *Auth) AccessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken
}

// Subscribe registers fn for session changes.
func (a *Auth) Subscribe(fn func(domain.AuthChange)) func() {
	return a.listeners.Subscribe(fn)
}

// Close stops the refresh timer.
func (a *Auth) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopTimerLocked()
}

// CurrentSession restores the persisted session, refreshing it first when the
// access token has expired. A failed refresh clears the session and is
// reported.
func (a *Auth) CurrentSession(ctx context.Context) (*domain.Identity, error) {
	stored, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("supabase.CurrentSession: %w", err)
	}
	if stored == nil {
		return nil, nil
	}

	if stored.Expired(a.now()) {
		resp, err := a.refresh(ctx, stored.RefreshToken)
		if err == nil {
			stored, err = a.persist(resp)
		}
		if err != nil {
			a.drop(ctx)
			return nil, fmt.Errorf("supabase.CurrentSession refresh: %w", err)
		}
	}

	a.install(stored)
	id := stored.Identity()
	return &id, nil
}

// SignIn uses the password grant.
func (a *Auth) SignIn(ctx context.Context, email, password string) error {
	var resp tokenResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentialsBody{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return fmt.Errorf("supabase.SignIn: %w", err)
	}

	s, err := a.persist(resp)
	if err != nil {
		return fmt.Errorf("supabase.SignIn: %w", err)
	}

	a.log.InfoContext(ctx, "signed in", slog.String("user_id", s.UserID.String()))
	a.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSignedIn, Identity: ptr(s.Identity())})
	return nil
}

// SignUp registers an account. When the project auto-confirms emails the
// response carries a session and the user is signed in; otherwise the user
// must confirm by email first.
func (a *Auth) SignUp(ctx context.Context, email, password string) error {
	var resp tokenResponse
	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   credentialsBody{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return fmt.Errorf("supabase.SignUp: %w", err)
	}

	if resp.AccessToken == "" {
		a.log.InfoContext(ctx, "sign-up pending email confirmation", slog.String("email", email))
		return nil
	}

	s, err := a.persist(resp)
	if err != nil {
		return fmt.Errorf("supabase.SignUp: %w", err)
	}

	a.log.InfoContext(ctx, "signed up", slog.String("user_id", s.UserID.String()))
	a.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSignedIn, Identity: ptr(s.Identity())})
	return nil
}

// SignOut revokes the session remotely and clears it locally. A session the
// server no longer knows is still cleared.
func (a *Auth) SignOut(ctx context.Context) error {
	token := a.AccessToken()
	if token != "" {
		err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", bearer: token}, nil)
		if err != nil && !errors.Is(err, domain.ErrUnauthorized) && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("supabase.SignOut: %w", err)
		}
	}

	a.drop(ctx)
	a.log.InfoContext(ctx, "signed out")
	a.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSignedOut})
	return nil
}

func (a *Auth) refresh(ctx context.Context, refreshToken string) (tokenResponse, error) {
	var resp tokenResponse
	if refreshToken == "" {
		return resp, fmt.Errorf("no refresh token: %w", domain.ErrUnauthorized)
	}

	err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   refreshBody{RefreshToken: refreshToken},
	}, &resp)
	return resp, err
}

// persist converts resp into a stored session, saves it and installs it.
func (a *Auth) persist(resp tokenResponse) (*auth.StoredSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.persistLocked(resp)
}

// persistTimer is persist for a refresh started by the timer of generation
// gen. It reports false, saving nothing, when the session was replaced or
// dropped while the refresh was in flight.
func (a *Auth) persistTimer(resp tokenResponse, gen uint64) (*auth.StoredSession, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.timerGen || a.session == nil {
		return nil, false, nil
	}
	s, err := a.persistLocked(resp)
	return s, true, err
}

func (a *Auth) persistLocked(resp tokenResponse) (*auth.StoredSession, error) {
	user := resp.User
	if user.ID == uuid.Nil {
		user = gotrueUser{ID: resp.ID, Email: resp.Email}
	}

	expiresAt := time.Unix(resp.ExpiresAt, 0)
	if resp.ExpiresAt == 0 {
		expiresAt = a.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	s := &auth.StoredSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt.UTC(),
		UserID:       user.ID,
		Email:        user.Email,
	}
	if err := a.store.Save(s); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	a.installLocked(s)
	return s, nil
}

// install makes s the current session and schedules its refresh.
func (a *Auth) install(s *auth.StoredSession) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.installLocked(s)
}

func (a *Auth) installLocked(s *auth.StoredSession) {
	a.session = s
	a.stopTimerLocked()
	gen := a.timerGen
	wait := max(s.ExpiresAt.Sub(a.now())-refreshMargin, 0)
	a.timer = time.AfterFunc(wait, func() { a.onTimer(gen) })
}

// drop forgets the current session locally.
func (a *Auth) drop(ctx context.Context) {
	a.mu.Lock()
	a.session = nil
	a.stopTimerLocked()
	a.mu.Unlock()

	if err := a.store.Clear(); err != nil {
		a.log.WarnContext(ctx, "clear session file", slog.String("error", err.Error()))
	}
}

func (a *Auth) stopTimerLocked() {
	a.timerGen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// onTimer refreshes the session. On failure the session ends. A result that
// arrives after the session was signed out or replaced is discarded.
func (a *Auth) onTimer(gen uint64) {
	a.mu.Lock()
	if gen != a.timerGen || a.session == nil {
		a.mu.Unlock()
		return
	}
	refreshToken := a.session.RefreshToken
	a.mu.Unlock()

	ctx := context.Background()
	resp, err := a.refresh(ctx, refreshToken)
	if err != nil {
		if !a.current(gen) {
			return
		}
		a.log.WarnContext(ctx, "token refresh failed", slog.String("error", err.Error()))
		a.drop(ctx)
		a.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSessionExpired})
		return
	}

	s, ok, err := a.persistTimer(resp, gen)
	if !ok {
		a.log.DebugContext(ctx, "discarded refresh for an ended session")
		return
	}
	if err != nil {
		a.log.WarnContext(ctx, "token refresh failed", slog.String("error", err.Error()))
		a.drop(ctx)
		a.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSessionExpired})
		return
	}

	a.log.DebugContext(ctx, "token refreshed")
	a.listeners.Broadcast(domain.AuthChange{Event: domain.AuthTokenRefreshed, Identity: ptr(s.Identity())})
}

// current reports whether the timer of generation gen still owns the session.
func (a *Auth) current(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.timerGen && a.session != nil
}

func ptr[T any](v T) *T { return &v }
