package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/adapter/localauth"
	"github.com/heartmarshall/solutions-manager/internal/adapter/postgres"
	"github.com/heartmarshall/solutions-manager/internal/adapter/postgres/account"
	solutionrepo "github.com/heartmarshall/solutions-manager/internal/adapter/postgres/solution"
	"github.com/heartmarshall/solutions-manager/internal/adapter/supabase"
	"github.com/heartmarshall/solutions-manager/internal/auth"
	"github.com/heartmarshall/solutions-manager/internal/config"
	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/migrations"
)

type solutionRepo interface {
	List(ctx context.Context) ([]domain.Solution, error)
	Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	Update(ctx context.Context, id uuid.UUID, f domain.SolutionFields, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type authProvider interface {
	CurrentSession(ctx context.Context) (*domain.Identity, error)
	Subscribe(fn func(domain.AuthChange)) func()
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	Close()
}

// backend is the persistence and auth pair of one deployment flavour.
type backend struct {
	repo   solutionRepo
	auth   authProvider
	closer func()
}

func (b *backend) close() {
	b.auth.Close()
	if b.closer != nil {
		b.closer()
	}
}

func openBackend(ctx context.Context, log *slog.Logger, cfg *config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, log, cfg)
	case config.BackendSupabase:
		return openSupabase(log, cfg), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func openPostgres(ctx context.Context, log *slog.Logger, cfg *config.Config) (*backend, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	provider := localauth.New(
		log,
		account.New(log, pool),
		postgres.NewTxManager(pool),
		tokens,
		auth.NewSessionFile(cfg.Auth.SessionFile),
		cfg.Auth.PasswordHashCost,
	)

	log.Info("connected to database",
		slog.Int("max_conns", int(cfg.Database.MaxConns)),
		slog.String("session_file", cfg.Auth.SessionFile),
	)

	return &backend{
		repo:   solutionrepo.New(log, pool),
		auth:   provider,
		closer: pool.Close,
	}, nil
}

func openSupabase(log *slog.Logger, cfg *config.Config) *backend {
	client := supabase.NewClient(log, cfg.Supabase)
	a := supabase.NewAuth(log, client, auth.NewSessionFile(cfg.Auth.SessionFile))

	log.Info("using supabase project",
		slog.String("url", cfg.Supabase.URL),
		slog.String("session_file", cfg.Auth.SessionFile),
	)

	return &backend{
		repo: supabase.NewTable(log, client, a),
		auth: a,
	}
}

func migrate(ctx context.Context, log *slog.Logger, cfg *config.Config) ([]int64, error) {
	return postgres.Migrate(ctx, log, cfg.Database.DSN, migrations.FS)
}
