// Package solution implements the Solution repository using PostgreSQL.
package solution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solutions-manager/internal/adapter/postgres"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

const table = "solutions"

// columns are selected in this order by every read.
var columns = []string{
	"id",
	"solution_name",
	"department_owner",
	"digital_team_owner",
	"year_created",
	"health_score_category",
	"manual_management_cost",
	"base_cost",
	"target_license_cost",
	"created_at",
	"updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// row mirrors one record of the solutions table for pgxscan.
type row struct {
	ID                   uuid.UUID       `db:"id"`
	Name                 string          `db:"solution_name"`
	DepartmentOwner      string          `db:"department_owner"`
	DigitalTeamOwner     string          `db:"digital_team_owner"`
	YearCreated          int             `db:"year_created"`
	HealthCategory       string          `db:"health_score_category"`
	ManualManagementCost decimal.Decimal `db:"manual_management_cost"`
	BaseCost             decimal.Decimal `db:"base_cost"`
	LicenseCost          decimal.Decimal `db:"target_license_cost"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

func (r row) toDomain() domain.Solution {
	return domain.Solution{
		ID:                   r.ID,
		Name:                 r.Name,
		DepartmentOwner:      domain.Department(r.DepartmentOwner),
		DigitalTeamOwner:     domain.DigitalTeam(r.DigitalTeamOwner),
		YearCreated:          r.YearCreated,
		HealthCategory:       domain.HealthCategory(r.HealthCategory),
		ManualManagementCost: r.ManualManagementCost,
		BaseCost:             r.BaseCost,
		LicenseCost:          r.LicenseCost,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// Repo provides solution persistence backed by PostgreSQL.
type Repo struct {
	q   postgres.Querier
	log *slog.Logger
}

// New creates a new solution repository. q is usually a *pgxpool.Pool.
func New(log *slog.Logger, q postgres.Querier) *Repo {
	return &Repo{q: q, log: log.With("adapter", "postgres.solution")}
}

// List returns every solution ordered by name ascending.
func (r *Repo) List(ctx context.Context) ([]domain.Solution, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		OrderBy("solution_name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "solution", "list")
	}

	out := make([]domain.Solution, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}

	r.log.DebugContext(ctx, "listed solutions", slog.Int("count", len(out)))
	return out, nil
}

// Create inserts the writable fields and timestamps of s. The id and the
// license cost are assigned by the database and returned.
func (r *Repo) Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error) {
	f := s.Fields()
	sql, args, err := psql.Insert(table).
		Columns(
			"solution_name", "department_owner", "digital_team_owner", "year_created",
			"health_score_category", "manual_management_cost", "base_cost",
			"created_at", "updated_at",
		).
		Values(
			f.Name, string(f.DepartmentOwner), string(f.DigitalTeamOwner), f.YearCreated,
			string(f.HealthCategory), f.ManualManagementCost, f.BaseCost,
			s.CreatedAt, s.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	var created row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.q), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "solution", f.Name)
	}

	result := created.toDomain()
	r.log.InfoContext(ctx, "solution created", slog.String("id", result.ID.String()))
	return &result, nil
}

// Update replaces the writable fields of the solution with the given id and
// sets updated_at. Returns domain.ErrNotFound when no row matches.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, f domain.SolutionFields, updatedAt time.Time) error {
	sql, args, err := psql.Update(table).
		SetMap(map[string]any{
			"solution_name":          f.Name,
			"department_owner":       string(f.DepartmentOwner),
			"digital_team_owner":     string(f.DigitalTeamOwner),
			"year_created":           f.YearCreated,
			"health_score_category":  string(f.HealthCategory),
			"manual_management_cost": f.ManualManagementCost,
			"base_cost":              f.BaseCost,
			"updated_at":             updatedAt,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "solution", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}

	r.log.InfoContext(ctx, "solution updated", slog.String("id", id.String()))
	return nil
}

// Delete removes the solution with the given id. Returns domain.ErrNotFound
// when no row matches.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "solution", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}

	r.log.InfoContext(ctx, "solution deleted", slog.String("id", id.String()))
	return nil
}
