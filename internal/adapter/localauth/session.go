package localauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/auth"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// CurrentSession returns the identity of the stored session, or nil when
// there is none or it has expired. A token that does not validate is cleared
// from the file; an expired one is not reported as an error.
func (p *Provider) CurrentSession(ctx context.Context) (*domain.Identity, error) {
	stored, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("localauth.CurrentSession: %w", err)
	}
	if stored == nil {
		return nil, nil
	}

	id, expiresAt, err := p.tokens.ValidateSessionToken(stored.AccessToken)
	if err != nil {
		if clearErr := p.store.Clear(); clearErr != nil {
			p.log.WarnContext(ctx, "clear stale session", slog.String("error", clearErr.Error()))
		}
		if errors.Is(err, auth.ErrTokenExpired) {
			p.log.InfoContext(ctx, "stored session expired")
			return nil, nil
		}
		return nil, fmt.Errorf("localauth.CurrentSession: %w", err)
	}

	p.armExpiry(expiresAt)
	return &id, nil
}

// establish issues and persists a session for id, records the sign-in and
// pushes the change.
func (p *Provider) establish(ctx context.Context, acc *domain.Account, event domain.AuthEvent) error {
	id := acc.Identity()

	token, expiresAt, err := p.tokens.GenerateSessionToken(id)
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	if err := p.store.Save(&auth.StoredSession{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      id.ID,
		Email:       id.Email,
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	if err := p.accounts.TouchSignIn(ctx, acc.ID, p.now().UTC()); err != nil {
		p.log.WarnContext(ctx, "record sign-in time", slog.String("error", err.Error()))
	}

	p.armExpiry(expiresAt)
	p.listeners.Broadcast(domain.AuthChange{Event: event, Identity: &id})
	return nil
}
