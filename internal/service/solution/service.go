package solution

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/pkg/ctxutil"
)

// DeletePrompt is the question the Confirmer is asked before a delete.
const DeletePrompt = "Are you sure you want to delete this solution?"

type solutionRepo interface {
	List(ctx context.Context) ([]domain.Solution, error)
	Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	Update(ctx context.Context, id uuid.UUID, f domain.SolutionFields, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type metricsRecorder interface {
	ObserveOperation(op string, err error, d time.Duration)
	SetRows(n int)
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Store owns the canonical solution list together with the loading flag and
// the error slot shared by every operation. All methods are safe for
// concurrent use; remote calls are made without holding the lock.
type Store struct {
	repo    solutionRepo
	confirm Confirmer
	metrics metricsRecorder
	log     *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	list      []domain.Solution
	loading   int
	err       error
	fetchSeq  uint64
	appliedAt uint64
	listeners []func([]domain.Solution)
}

// NewStore creates a new Store. The list starts empty; call Refresh to load it.
func NewStore(
	log *slog.Logger,
	repo solutionRepo,
	confirm Confirmer,
	metrics metricsRecorder,
) *Store {
	return &Store{
		repo:    repo,
		confirm: confirm,
		metrics: metrics,
		log:     log.With("service", "solution"),
		now:     time.Now,
		list:    []domain.Solution{},
	}
}

// Solutions returns a copy of the current list.
func (s *Store) Solutions() []domain.Solution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.list)
}

// Loading reports whether any operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Err returns the error of the last failed operation, or nil.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError empties the error slot.
func (s *Store) ClearError() {
	s.setErr(nil)
}

// OnChange registers fn to be called with a copy of the list whenever the
// list is replaced. fn runs on the goroutine that completed the fetch.
func (s *Store) OnChange(fn func([]domain.Solution)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// fail records err in the slot and logs it.
func (s *Store) fail(ctx context.Context, op string, err error) {
	s.setErr(err)
	attrs := []any{
		slog.String("op", op),
		slog.String("command_id", ctxutil.CommandIDFromCtx(ctx)),
		slog.String("error", err.Error()),
	}
	if uid, ok := ctxutil.UserIDFromCtx(ctx); ok {
		attrs = append(attrs, slog.String("user_id", uid.String()))
	}
	s.log.ErrorContext(ctx, "solution operation failed", attrs...)
}

// replace installs list if no later fetch has been applied yet and notifies
// listeners outside the lock.
func (s *Store) replace(seq uint64, list []domain.Solution) {
	s.mu.Lock()
	if seq < s.appliedAt {
		s.mu.Unlock()
		return
	}
	s.appliedAt = seq
	s.list = list
	s.err = nil
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetRows(len(list))
	}
	for _, fn := range listeners {
		fn(slices.Clone(list))
	}
}

func (s *Store) observe(op string, err error, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, err, s.now().Sub(start))
	}
}
