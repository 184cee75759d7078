package session

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// SignIn authenticates with email and password. On failure the error is
// stored and returned and the state is left unchanged. Success is reported
// through the push channel.
func (m *Manager) SignIn(ctx context.Context, c Credentials) error {
	return m.call(ctx, "sign_in", &c, false, func(ctx context.Context) error {
		return m.auth.SignIn(ctx, domain.NormalizeEmail(c.Email), c.Password)
	})
}

// SignUp registers a new account. Whether it also signs in depends on the
// collaborator; any resulting session arrives through the push channel.
func (m *Manager) SignUp(ctx context.Context, c Credentials) error {
	return m.call(ctx, "sign_up", &c, true, func(ctx context.Context) error {
		return m.auth.SignUp(ctx, domain.NormalizeEmail(c.Email), c.Password)
	})
}

// SignOut ends the session. The state change arrives through the push channel.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.call(ctx, "sign_out", nil, false, m.auth.SignOut)
}

// call runs one auth operation with the busy flag set. No retries.
func (m *Manager) call(ctx context.Context, op string, c *Credentials, signUp bool, fn func(context.Context) error) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	m.mu.Unlock()

	if c != nil {
		if err := c.Validate(signUp); err != nil {
			m.update(func() { m.err = err })
			return err
		}
	}

	started := false
	m.update(func() {
		if m.busy {
			return
		}
		m.busy = true
		m.err = nil
		started = true
	})
	if !started {
		return ErrBusy
	}

	err := fn(ctx)
	if err != nil {
		err = &domain.AuthError{Op: op, Err: err}
		m.event(op + "_failed")
		m.log.WarnContext(ctx, "auth call failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}

	m.update(func() {
		m.busy = false
		if err != nil {
			m.err = err
		}
	})
	return err
}
