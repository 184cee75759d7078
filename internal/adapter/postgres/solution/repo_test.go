package solution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solutions-manager/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func crmFields() domain.SolutionFields {
	return domain.SolutionFields{
		Name:                 "CRM",
		DepartmentOwner:      domain.DepartmentSales,
		DigitalTeamOwner:     domain.DigitalTeamEngineering,
		YearCreated:          2021,
		HealthCategory:       domain.HealthHealthy,
		ManualManagementCost: decimal.RequireFromString("500"),
		BaseCost:             decimal.RequireFromString("1000"),
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// ---------------------------------------------------------------------------
// Unit tests (pgxmock)
// ---------------------------------------------------------------------------

func TestRepo_List_QueryError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, solution_name, .* FROM solutions ORDER BY solution_name ASC`).
		WillReturnError(errors.New("permission denied for table solutions"))

	_, err := New(discardLogger(), mock).List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Create_UniqueViolation(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO solutions .* RETURNING id, solution_name`).
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	now := time.Now()
	s := &domain.Solution{CreatedAt: now, UpdatedAt: now}
	f := crmFields()
	s.Name, s.DepartmentOwner, s.DigitalTeamOwner = f.Name, f.DepartmentOwner, f.DigitalTeamOwner
	s.YearCreated, s.HealthCategory = f.YearCreated, f.HealthCategory
	s.ManualManagementCost, s.BaseCost = f.ManualManagementCost, f.BaseCost

	_, err := New(discardLogger(), mock).Create(context.Background(), s)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "updated",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE solutions SET .* WHERE id = \$9`).
					WithArgs(anyArgs(9)...).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "missing row",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE solutions SET`).
					WithArgs(anyArgs(9)...).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "check violation",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE solutions SET`).
					WithArgs(anyArgs(9)...).
					WillReturnError(&pgconn.PgError{Code: "23514"})
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := newMock(t)
			tt.setup(mock)

			err := New(discardLogger(), mock).Update(context.Background(), uuid.New(), crmFields(), time.Now())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM solutions WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM solutions WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := New(discardLogger(), mock)
	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.Delete(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Integration tests (testcontainers)
// ---------------------------------------------------------------------------

func TestRepo_Integration_CreateListUpdateDelete(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(discardLogger(), pool)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	f := crmFields()
	f.Name = "CRM " + uuid.NewString()[:8]

	in := &domain.Solution{
		Name:                 f.Name,
		DepartmentOwner:      f.DepartmentOwner,
		DigitalTeamOwner:     f.DigitalTeamOwner,
		YearCreated:          f.YearCreated,
		HealthCategory:       f.HealthCategory,
		ManualManagementCost: f.ManualManagementCost,
		BaseCost:             f.BaseCost,
		LicenseCost:          decimal.RequireFromString("999"), // ignored
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if got := domain.FormatMoney(created.LicenseCost); got != "100.00" {
		t.Fatalf("license cost = %s, want 100.00", got)
	}
	if !created.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v, want %v", created.CreatedAt, now)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, s := range list {
		if s.ID == created.ID {
			found = true
			if !s.LicenseCost.Equal(domain.LicenseCost(s.BaseCost)) {
				t.Errorf("persisted license %s differs from preview %s", s.LicenseCost, domain.LicenseCost(s.BaseCost))
			}
		}
	}
	if !found {
		t.Fatal("created solution missing from list")
	}

	f.BaseCost = decimal.RequireFromString("1234.56")
	later := now.Add(time.Minute)
	if err := repo.Update(ctx, created.ID, f, later); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List after update: %v", err)
	}
	for _, s := range list {
		if s.ID != created.ID {
			continue
		}
		if got := domain.FormatMoney(s.LicenseCost); got != "123.46" {
			t.Errorf("license after update = %s, want 123.46", got)
		}
		if !s.CreatedAt.Equal(now) {
			t.Errorf("created_at changed to %v", s.CreatedAt)
		}
		if !s.UpdatedAt.Equal(later) {
			t.Errorf("updated_at = %v, want %v", s.UpdatedAt, later)
		}
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Integration_CheckViolation(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := New(discardLogger(), pool)

	now := time.Now()
	_, err := repo.Create(context.Background(), &domain.Solution{
		Name:                 "Broken",
		DepartmentOwner:      "Legal",
		DigitalTeamOwner:     domain.DigitalTeamBI,
		YearCreated:          2020,
		HealthCategory:       domain.HealthAverage,
		ManualManagementCost: decimal.Zero,
		BaseCost:             decimal.Zero,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
