package solution

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Create validates input, inserts a new solution stamped with the current time
// and then refreshes the list once. Failures are stored in the error slot and
// returned. A failing follow-up refresh is stored but does not fail Create.
func (s *Store) Create(ctx context.Context, input SaveInput) (*domain.Solution, error) {
	s.begin()
	defer s.end()
	s.setErr(nil)

	now := s.now()
	if err := input.Validate(now); err != nil {
		s.fail(ctx, "create", err)
		return nil, err
	}

	f := input.fields()
	start := now
	created, err := s.repo.Create(ctx, &domain.Solution{
		Name:                 f.Name,
		DepartmentOwner:      f.DepartmentOwner,
		DigitalTeamOwner:     f.DigitalTeamOwner,
		YearCreated:          f.YearCreated,
		HealthCategory:       f.HealthCategory,
		ManualManagementCost: f.ManualManagementCost,
		BaseCost:             f.BaseCost,
		CreatedAt:            now.UTC(),
		UpdatedAt:            now.UTC(),
	})
	s.observe("create", err, start)
	if err != nil {
		err = domain.NewWriteError("create", err)
		s.fail(ctx, "create", err)
		return nil, err
	}

	s.log.InfoContext(ctx, "solution created",
		slog.String("id", created.ID.String()),
		slog.String("name", created.Name),
	)

	_ = s.refresh(ctx)
	return created, nil
}
