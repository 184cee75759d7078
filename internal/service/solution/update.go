package solution

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Update validates input and replaces the writable fields of the solution with
// the given id, then refreshes the list once. id, created_at and the license
// cost are never sent. Failures are stored in the error slot and returned.
func (s *Store) Update(ctx context.Context, id uuid.UUID, input SaveInput) error {
	s.begin()
	defer s.end()
	s.setErr(nil)

	if id == uuid.Nil {
		err := domain.NewValidationError("id", "required")
		s.fail(ctx, "update", err)
		return err
	}

	now := s.now()
	if err := input.Validate(now); err != nil {
		s.fail(ctx, "update", err)
		return err
	}

	err := s.repo.Update(ctx, id, input.fields(), now.UTC())
	s.observe("update", err, now)
	if err != nil {
		err = domain.NewWriteError("update", err)
		s.fail(ctx, "update", err)
		return err
	}

	s.log.InfoContext(ctx, "solution updated", slog.String("id", id.String()))

	_ = s.refresh(ctx)
	return nil
}
