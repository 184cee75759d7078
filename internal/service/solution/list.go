package solution

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Refresh fetches every solution ordered by name and replaces the list. On
// failure the previous list is kept and the error is stored in the slot; it is
// not returned.
func (s *Store) Refresh(ctx context.Context) {
	s.begin()
	defer s.end()

	_ = s.refresh(ctx)
}

func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	start := s.now()
	list, err := s.repo.List(ctx)
	s.observe("list", err, start)
	if err != nil {
		err = domain.NewFetchError("list", err)
		s.fail(ctx, "list", err)
		return err
	}
	if list == nil {
		list = []domain.Solution{}
	}

	s.replace(seq, list)
	s.log.DebugContext(ctx, "solutions refreshed", slog.Int("count", len(list)))
	return nil
}
