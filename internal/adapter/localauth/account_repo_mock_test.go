package localauth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// accountRepoMock is a mock implementation of accountRepo.
type accountRepoMock struct {
	GetByEmailFunc  func(ctx context.Context, email string) (*domain.Account, error)
	CreateFunc      func(ctx context.Context, a *domain.Account) (*domain.Account, error)
	TouchSignInFunc func(ctx context.Context, id uuid.UUID, at time.Time) error

	calls struct {
		GetByEmail []struct {
			Email string
		}
		Create []struct {
			A *domain.Account
		}
		TouchSignIn []struct {
			ID uuid.UUID
			At time.Time
		}
	}
	lock sync.RWMutex
}

func (mock *accountRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if mock.GetByEmailFunc == nil {
		panic("accountRepoMock.GetByEmailFunc: method is nil but accountRepo.GetByEmail was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByEmail = append(mock.calls.GetByEmail, struct {
		Email string
	}{Email: email})
	mock.lock.Unlock()
	return mock.GetByEmailFunc(ctx, email)
}

// GetByEmailCalls gets all the calls that were made to GetByEmail.
func (mock *accountRepoMock) GetByEmailCalls() []struct {
	Email string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByEmail
}

func (mock *accountRepoMock) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if mock.CreateFunc == nil {
		panic("accountRepoMock.CreateFunc: method is nil but accountRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		A *domain.Account
	}{A: a})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, a)
}

// CreateCalls gets all the calls that were made to Create.
func (mock *accountRepoMock) CreateCalls() []struct {
	A *domain.Account
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *accountRepoMock) TouchSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.TouchSignInFunc == nil {
		panic("accountRepoMock.TouchSignInFunc: method is nil but accountRepo.TouchSignIn was just called")
	}
	mock.lock.Lock()
	mock.calls.TouchSignIn = append(mock.calls.TouchSignIn, struct {
		ID uuid.UUID
		At time.Time
	}{ID: id, At: at})
	mock.lock.Unlock()
	return mock.TouchSignInFunc(ctx, id, at)
}

// TouchSignInCalls gets all the calls that were made to TouchSignIn.
func (mock *accountRepoMock) TouchSignInCalls() []struct {
	ID uuid.UUID
	At time.Time
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.TouchSignIn
}
