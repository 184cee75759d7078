package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount inserts an account with the given password hash and a unique email.
func SeedAccount(t *testing.T, pool *pgxpool.Pool, passwordHash string) domain.Account {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	acc := domain.Account{
		ID:           uuid.New(),
		Email:        "testuser-" + uniqueSuffix() + "@example.com",
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO accounts (id, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Email, acc.PasswordHash, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount: %v", err)
	}

	return acc
}

// SeedSolution inserts a solution named name + a unique suffix and returns it
// with the server-derived license cost filled in.
func SeedSolution(t *testing.T, pool *pgxpool.Pool, name string, dept domain.Department, baseCost string) domain.Solution {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Solution{
		ID:                   uuid.New(),
		Name:                 name + " " + uniqueSuffix(),
		DepartmentOwner:      dept,
		DigitalTeamOwner:     domain.DigitalTeamEngineering,
		YearCreated:          2021,
		HealthCategory:       domain.HealthHealthy,
		ManualManagementCost: decimal.RequireFromString("10.00"),
		BaseCost:             decimal.RequireFromString(baseCost),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO solutions (id, solution_name, department_owner, digital_team_owner, year_created,
		     health_score_category, manual_management_cost, base_cost, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING target_license_cost`,
		s.ID, s.Name, string(s.DepartmentOwner), string(s.DigitalTeamOwner), s.YearCreated,
		string(s.HealthCategory), s.ManualManagementCost, s.BaseCost, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.LicenseCost)
	if err != nil {
		t.Fatalf("testhelper: SeedSolution: %v", err)
	}

	return s
}
