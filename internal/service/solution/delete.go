package solution

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Delete asks for confirmation and removes the solution with the given id,
// then refreshes the list once. A declined or failed prompt makes no remote
// call. Failures are stored in the error slot, not returned. Delete reports
// whether the solution was removed.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) bool {
	ok, err := s.confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		s.log.WarnContext(ctx, "delete confirmation failed", slog.String("error", err.Error()))
		return false
	}
	if !ok {
		s.log.DebugContext(ctx, "delete declined", slog.String("id", id.String()))
		return false
	}

	s.begin()
	defer s.end()
	s.setErr(nil)

	start := s.now()
	err = s.repo.Delete(ctx, id)
	s.observe("delete", err, start)
	if err != nil {
		s.fail(ctx, "delete", domain.NewWriteError("delete", err))
		return false
	}

	s.log.InfoContext(ctx, "solution deleted", slog.String("id", id.String()))

	_ = s.refresh(ctx)
	return true
}
