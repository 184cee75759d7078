// Package account implements the local Account repository using PostgreSQL.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/adapter/postgres"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{"id", "email", "password_hash", "last_sign_in_at", "created_at", "updated_at"}

type row struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	LastSignInAt *time.Time `db:"last_sign_in_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r row) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		LastSignInAt: r.LastSignInAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	q   postgres.Querier
	log *slog.Logger
}

// New creates a new account repository.
func New(log *slog.Logger, q postgres.Querier) *Repo {
	return &Repo{q: q, log: log.With("adapter", "postgres.account")}
}

// GetByEmail returns the account with the given email, compared case-insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	sql, args, err := psql.Select(columns...).
		From("accounts").
		Where(squirrel.Expr("lower(email) = lower(?)", email)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var got row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &got, sql, args...); err != nil {
		return nil, postgres.MapError(err, "account", email)
	}
	return got.toDomain(), nil
}

// Create inserts a new account and returns the persisted row.
func (r *Repo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	sql, args, err := psql.Insert("accounts").
		Columns("id", "email", "password_hash", "created_at", "updated_at").
		Values(a.ID, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING id, email, password_hash, last_sign_in_at, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	var created row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "account", a.Email)
	}

	r.log.InfoContext(ctx, "account created", slog.String("id", created.ID.String()))
	return created.toDomain(), nil
}

// TouchSignIn records a successful sign-in at the given time.
func (r *Repo) TouchSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	sql, args, err := psql.Update("accounts").
		Set("last_sign_in_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
