package supabase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/solutions-manager/internal/auth"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

type changeLog struct {
	mu      sync.Mutex
	changes []domain.AuthChange
}

func (l *changeLog) push(c domain.AuthChange) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
}

func (l *changeLog) all() []domain.AuthChange {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.AuthChange(nil), l.changes...)
}

func newTestAuth(t *testing.T, handler http.HandlerFunc) (*Auth, *auth.SessionFile, *changeLog) {
	t.Helper()
	c := newTestClient(t, handler)
	file := auth.NewSessionFile(filepath.Join(t.TempDir(), "session.json"))
	a := NewAuth(slog.Default(), c, file)
	t.Cleanup(a.Close)

	log := &changeLog{}
	a.Subscribe(log.push)
	return a, file, log
}

func sessionJSON(userID uuid.UUID, access string) map[string]any {
	return map[string]any{
		"access_token":  access,
		"refresh_token": "refresh-" + access,
		"expires_in":    3600,
		"expires_at":    time.Now().Add(time.Hour).Unix(),
		"user":          map[string]any{"id": userID.String(), "email": "ann@example.com"},
	}
}

func TestAuth_SignIn(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	a, file, log := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body credentialsBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body.Email)

		writeJSON(t, w, http.StatusOK, sessionJSON(userID, "tok-1"))
	})

	require.NoError(t, a.SignIn(context.Background(), "ann@example.com", "hunter22"))

	assert.Equal(t, "tok-1", a.AccessToken())

	stored, err := file.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, "refresh-tok-1", stored.RefreshToken)

	changes := log.all()
	require.Len(t, changes, 1)
	assert.Equal(t, domain.AuthSignedIn, changes[0].Event)
	assert.Equal(t, userID, changes[0].Identity.ID)
}

func TestAuth_SignInInvalidCredentials(t *testing.T) {
	t.Parallel()

	a, file, log := newTestAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
	})

	err := a.SignIn(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Invalid login credentials", domain.Message(&domain.AuthError{Op: "sign_in", Err: err}))

	stored, _ := file.Load()
	assert.Nil(t, stored)
	assert.Empty(t, log.all())
	assert.Empty(t, a.AccessToken())
}

func TestAuth_SignUpWithSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	a, _, log := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		writeJSON(t, w, http.StatusOK, sessionJSON(userID, "tok-new"))
	})

	require.NoError(t, a.SignUp(context.Background(), "ann@example.com", "secret1"))

	changes := log.all()
	require.Len(t, changes, 1)
	assert.Equal(t, userID, changes[0].Identity.ID)
}

func TestAuth_SignUpPendingConfirmation(t *testing.T) {
	t.Parallel()

	a, file, log := newTestAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"id": uuid.New().String(), "email": "ann@example.com"})
	})

	require.NoError(t, a.SignUp(context.Background(), "ann@example.com", "secret1"))

	assert.Empty(t, log.all())
	stored, _ := file.Load()
	assert.Nil(t, stored)
}

func TestAuth_SignUpAlreadyRegistered(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
			"code":       422,
			"error_code": "user_already_exists",
			"msg":        "User already registered",
		})
	})

	err := a.SignUp(context.Background(), "ann@example.com", "secret1")
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAuth_SignOut(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	var logoutAuth string
	a, file, log := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			writeJSON(t, w, http.StatusOK, sessionJSON(userID, "tok-1"))
		case "/auth/v1/logout":
			logoutAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	require.NoError(t, a.SignIn(context.Background(), "ann@example.com", "hunter22"))

	require.NoError(t, a.SignOut(context.Background()))

	assert.Equal(t, "Bearer tok-1", logoutAuth)
	assert.Empty(t, a.AccessToken())
	stored, _ := file.Load()
	assert.Nil(t, stored)

	changes := log.all()
	require.Len(t, changes, 2)
	assert.Equal(t, domain.AuthSignedOut, changes[1].Event)
	assert.Nil(t, changes[1].Identity)
}

func TestAuth_SignOutUnknownSessionStillClears(t *testing.T) {
	t.Parallel()

	a, file, _ := newTestAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"msg": "invalid JWT"})
	})
	require.NoError(t, file.Save(&auth.StoredSession{AccessToken: "stale", ExpiresAt: time.Now().Add(time.Hour)}))
	_, err := a.CurrentSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, a.SignOut(context.Background()))

	stored, _ := file.Load()
	assert.Nil(t, stored)
}

func TestAuth_CurrentSessionValid(t *testing.T) {
	t.Parallel()

	a, file, _ := newTestAuth(t, func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	userID := uuid.New()
	require.NoError(t, file.Save(&auth.StoredSession{
		AccessToken: "tok-1",
		ExpiresAt:   time.Now().Add(time.Hour),
		UserID:      userID,
		Email:       "ann@example.com",
	}))

	id, err := a.CurrentSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, userID, id.ID)
	assert.Equal(t, "tok-1", a.AccessToken())
}

func TestAuth_CurrentSessionRefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	a, file, _ := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		var body refreshBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "old-refresh", body.RefreshToken)
		writeJSON(t, w, http.StatusOK, sessionJSON(userID, "tok-2"))
	})
	require.NoError(t, file.Save(&auth.StoredSession{
		AccessToken:  "tok-1",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(-time.Minute),
		UserID:       userID,
	}))

	id, err := a.CurrentSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "tok-2", a.AccessToken())

	stored, _ := file.Load()
	assert.Equal(t, "tok-2", stored.AccessToken)
}

func TestAuth_CurrentSessionRefreshFails(t *testing.T) {
	t.Parallel()

	a, file, _ := newTestAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "Invalid Refresh Token: Already Used",
		})
	})
	require.NoError(t, file.Save(&auth.StoredSession{
		AccessToken:  "tok-1",
		RefreshToken: "used",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	id, err := a.CurrentSession(context.Background())
	require.Error(t, err)
	assert.Nil(t, id)

	stored, _ := file.Load()
	assert.Nil(t, stored)
}

func TestAuth_CurrentSessionNone(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestAuth(t, func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	id, err := a.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestAuth_TimerRefreshFailureExpiresSession(t *testing.T) {
	t.Parallel()

	a, file, log := newTestAuth(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
	})
	// Expires inside the refresh margin, so the timer fires immediately.
	require.NoError(t, file.Save(&auth.StoredSession{
		AccessToken:  "tok-1",
		RefreshToken: "r",
		ExpiresAt:    time.Now().Add(refreshMargin / 2),
		UserID:       uuid.New(),
	}))
	_, err := a.CurrentSession(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		changes := log.all()
		return len(changes) == 1 && changes[0].Event == domain.AuthSessionExpired
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, a.AccessToken())
}

func TestAuth_SignOutDuringTimerRefreshStaysSignedOut(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	started := make(chan struct{})
	release := make(chan struct{})
	answered := make(chan struct{})

	a, file, log := newTestAuth(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			close(started)
			<-release
			writeJSON(t, w, http.StatusOK, sessionJSON(userID, "tok-refreshed"))
			close(answered)
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	require.NoError(t, file.Save(&auth.StoredSession{
		AccessToken:  "tok-1",
		RefreshToken: "r",
		ExpiresAt:    time.Now().Add(refreshMargin / 2),
		UserID:       userID,
		Email:        "ann@example.com",
	}))
	_, err := a.CurrentSession(context.Background())
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("timer refresh never started")
	}

	require.NoError(t, a.SignOut(context.Background()))
	close(release)
	<-answered

	assert.Never(t, func() bool {
		stored, _ := file.Load()
		return a.AccessToken() != "" || stored != nil
	}, 300*time.Millisecond, 10*time.Millisecond)

	changes := log.all()
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	assert.Equal(t, domain.AuthSignedOut, last.Event)
	assert.Nil(t, last.Identity)
	for _, c := range changes {
		assert.NotEqual(t, domain.AuthTokenRefreshed, c.Event)
	}
}
