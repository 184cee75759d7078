package solution

//go:generate moq -out repo_mock_test.go -pkg solution . solutionRepo Confirmer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

var _ solutionRepo = &solutionRepoMock{}

type solutionRepoMock struct {
	ListFunc   func(ctx context.Context) ([]domain.Solution, error)
	CreateFunc func(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	UpdateFunc func(ctx context.Context, id uuid.UUID, f domain.SolutionFields, updatedAt time.Time) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error

	calls struct {
		List   []struct{}
		Create []struct {
			S *domain.Solution
		}
		Update []struct {
			ID        uuid.UUID
			F         domain.SolutionFields
			UpdatedAt time.Time
		}
		Delete []struct {
			ID uuid.UUID
		}
	}
	lockList   sync.RWMutex
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *solutionRepoMock) List(ctx context.Context) ([]domain.Solution, error) {
	if mock.ListFunc == nil {
		panic("solutionRepoMock.ListFunc: method is nil but solutionRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct{}{})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx)
}

func (mock *solutionRepoMock) ListCalls() []struct{} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *solutionRepoMock) Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error) {
	if mock.CreateFunc == nil {
		panic("solutionRepoMock.CreateFunc: method is nil but solutionRepo.Create was just called")
	}
	callInfo := struct {
		S *domain.Solution
	}{S: s}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *solutionRepoMock) CreateCalls() []struct {
	S *domain.Solution
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *solutionRepoMock) Update(ctx context.Context, id uuid.UUID, f domain.SolutionFields, updatedAt time.Time) error {
	if mock.UpdateFunc == nil {
		panic("solutionRepoMock.UpdateFunc: method is nil but solutionRepo.Update was just called")
	}
	callInfo := struct {
		ID        uuid.UUID
		F         domain.SolutionFields
		UpdatedAt time.Time
	}{ID: id, F: f, UpdatedAt: updatedAt}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, f, updatedAt)
}

func (mock *solutionRepoMock) UpdateCalls() []struct {
	ID        uuid.UUID
	F         domain.SolutionFields
	UpdatedAt time.Time
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *solutionRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("solutionRepoMock.DeleteFunc: method is nil but solutionRepo.Delete was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *solutionRepoMock) DeleteCalls() []struct {
	ID uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

var _ Confirmer = &confirmerMock{}

type confirmerMock struct {
	ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

	calls struct {
		Confirm []struct {
			Prompt string
		}
	}
	lockConfirm sync.RWMutex
}

func (mock *confirmerMock) Confirm(ctx context.Context, prompt string) (bool, error) {
	if mock.ConfirmFunc == nil {
		panic("confirmerMock.ConfirmFunc: method is nil but Confirmer.Confirm was just called")
	}
	callInfo := struct {
		Prompt string
	}{Prompt: prompt}
	mock.lockConfirm.Lock()
	mock.calls.Confirm = append(mock.calls.Confirm, callInfo)
	mock.lockConfirm.Unlock()
	return mock.ConfirmFunc(ctx, prompt)
}

func (mock *confirmerMock) ConfirmCalls() []struct {
	Prompt string
} {
	mock.lockConfirm.RLock()
	calls := mock.calls.Confirm
	mock.lockConfirm.RUnlock()
	return calls
}
