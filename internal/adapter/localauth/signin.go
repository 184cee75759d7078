package localauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// SignIn verifies email and password. An unknown email and a wrong password
// both return ErrUnauthorized.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)

	acc, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("localauth.SignIn get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}

	if err := p.establish(ctx, acc, domain.AuthSignedIn); err != nil {
		return fmt.Errorf("localauth.SignIn: %w", err)
	}

	p.log.InfoContext(ctx, "signed in", slog.String("account_id", acc.ID.String()))
	return nil
}

// SignUp creates an account and signs it in. A taken email returns
// ErrAlreadyExists.
func (p *Provider) SignUp(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.hashCost)
	if err != nil {
		return fmt.Errorf("localauth.SignUp hash password: %w", err)
	}

	var created *domain.Account
	err = p.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := p.now().UTC()
		acc, err := p.accounts.Create(txCtx, &domain.Account{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		created = acc
		return nil
	})
	if err != nil {
		return fmt.Errorf("localauth.SignUp: %w", err)
	}

	if err := p.establish(ctx, created, domain.AuthSignedIn); err != nil {
		return fmt.Errorf("localauth.SignUp: %w", err)
	}

	p.log.InfoContext(ctx, "account registered", slog.String("account_id", created.ID.String()))
	return nil
}

// SignOut clears the stored session and pushes the change.
func (p *Provider) SignOut(ctx context.Context) error {
	p.Close()

	if err := p.store.Clear(); err != nil {
		return fmt.Errorf("localauth.SignOut: %w", err)
	}

	p.log.InfoContext(ctx, "signed out")
	p.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSignedOut})
	return nil
}
