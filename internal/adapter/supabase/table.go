package supabase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

const solutionsPath = "/rest/v1/solutions"

// tokenSource supplies the bearer token of the signed-in user. An empty
// token falls back to the anon key.
type tokenSource interface {
	AccessToken() string
}

// solutionRow is the JSON shape of a solutions row.
type solutionRow struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"solution_name"`
	DepartmentOwner      string          `json:"department_owner"`
	DigitalTeamOwner     string          `json:"digital_team_owner"`
	YearCreated          int             `json:"year_created"`
	HealthCategory       string          `json:"health_score_category"`
	ManualManagementCost decimal.Decimal `json:"manual_management_cost"`
	BaseCost             decimal.Decimal `json:"base_cost"`
	LicenseCost          decimal.Decimal `json:"target_license_cost"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (r *solutionRow) toDomain() domain.Solution {
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

// fieldsPayload is the writable part of a row. The license cost column is
// generated and never sent.
type fieldsPayload struct {
	Name                 string          `json:"solution_name"`
	DepartmentOwner      string          `json:"department_owner"`
	DigitalTeamOwner     string          `json:"digital_team_owner"`
	YearCreated          int             `json:"year_created"`
	HealthCategory       string          `json:"health_score_category"`
	ManualManagementCost decimal.Decimal `json:"manual_management_cost"`
	BaseCost             decimal.Decimal `json:"base_cost"`
}

func toPayload(f domain.SolutionFields) fieldsPayload {
	return fieldsPayload{
		Name:                 f.Name,
		DepartmentOwner:      string(f.DepartmentOwner),
		DigitalTeamOwner:     string(f.DigitalTeamOwner),
		YearCreated:          f.YearCreated,
		HealthCategory:       string(f.HealthCategory),
		ManualManagementCost: f.ManualManagementCost,
		BaseCost:             f.BaseCost,
	}
}

type insertPayload struct {
	fieldsPayload
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updatePayload struct {
	fieldsPayload
	UpdatedAt time.Time `json:"updated_at"`
}

// Table provides solution persistence over PostgREST.
type Table struct {
	c      *Client
	tokens tokenSource
	log    *slog.Logger
}

// NewTable creates a Table. Requests carry the token from tokens.
func NewTable(log *slog.Logger, c *Client, tokens tokenSource) *Table {
	return &Table{c: c, tokens: tokens, log: log.With("adapter", "supabase.solutions")}
}

func (t *Table) bearer() string {
	if t.tokens == nil {
		return ""
	}
	return t.tokens.AccessToken()
}

func idFilter(id uuid.UUID) url.Values {
	return url.Values{"id": {"eq." + id.String()}}
}

// List returns every solution ordered by name.
func (t *Table) List(ctx context.Context) ([]domain.Solution, error) {
	var rows []solutionRow
	err := t.c.do(ctx, request{
		method: http.MethodGet,
		path:   solutionsPath,
		query:  url.Values{"select": {"*"}, "order": {"solution_name.asc,id.asc"}},
		bearer: t.bearer(),
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list solutions: %w", err)
	}

	out := make([]domain.Solution, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// Create inserts s and returns the stored row including the derived license cost.
func (t *Table) Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error) {
	var rows []solutionRow
	err := t.c.do(ctx, request{
		method: http.MethodPost,
		path:   solutionsPath,
		body: insertPayload{
			fieldsPayload: toPayload(s.Fields()),
			CreatedAt:     s.CreatedAt,
			UpdatedAt:     s.UpdatedAt,
		},
		bearer: t.bearer(),
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("create solution %q: %w", s.Name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create solution %q: empty representation", s.Name)
	}

	created := rows[0].toDomain()
	t.log.InfoContext(ctx, "solution inserted", slog.String("id", created.ID.String()))
	return &created, nil
}

// Update replaces the writable fields of the row with id.
func (t *Table) Update(ctx context.Context, id uuid.UUID, f domain.SolutionFields, updatedAt time.Time) error {
	var rows []solutionRow
	err := t.c.do(ctx, request{
		method: http.MethodPatch,
		path:   solutionsPath,
		query:  idFilter(id),
		body:   updatePayload{fieldsPayload: toPayload(f), UpdatedAt: updatedAt},
		bearer: t.bearer(),
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return fmt.Errorf("update solution %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the row with id.
func (t *Table) Delete(ctx context.Context, id uuid.UUID) error {
	var rows []solutionRow
	err := t.c.do(ctx, request{
		method: http.MethodDelete,
		path:   solutionsPath,
		query:  idFilter(id),
		bearer: t.bearer(),
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return fmt.Errorf("delete solution %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("solution %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
