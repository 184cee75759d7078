package session

//go:generate moq -out auth_mock_test.go -pkg session . authProvider

import (
	"context"
	"sync"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// authProviderMock is a mock implementation of authProvider.
type authProviderMock struct {
	CurrentSessionFunc func(ctx context.Context) (*domain.Identity, error)
	SubscribeFunc      func(fn func(domain.AuthChange)) func()
	SignInFunc         func(ctx context.Context, email, password string) error
	SignUpFunc         func(ctx context.Context, email, password string) error
	SignOutFunc        func(ctx context.Context) error

	calls struct {
		CurrentSession []struct{}
		Subscribe      []struct{}
		SignIn         []struct {
			Email    string
			Password string
		}
		SignUp []struct {
			Email    string
			Password string
		}
		SignOut []struct{}
	}
	lock sync.RWMutex
}

func (mock *authProviderMock) CurrentSession(ctx context.Context) (*domain.Identity, error) {
	if mock.CurrentSessionFunc == nil {
		panic("authProviderMock.CurrentSessionFunc: method is nil but authProvider.CurrentSession was just called")
	}
	mock.lock.Lock()
	mock.calls.CurrentSession = append(mock.calls.CurrentSession, struct{}{})
	mock.lock.Unlock()
	return mock.CurrentSessionFunc(ctx)
}

func (mock *authProviderMock) Subscribe(fn func(domain.AuthChange)) func() {
	if mock.SubscribeFunc == nil {
		panic("authProviderMock.SubscribeFunc: method is nil but authProvider.Subscribe was just called")
	}
	mock.lock.Lock()
	mock.calls.Subscribe = append(mock.calls.Subscribe, struct{}{})
	mock.lock.Unlock()
	return mock.SubscribeFunc(fn)
}

func (mock *authProviderMock) SignIn(ctx context.Context, email, password string) error {
	if mock.SignInFunc == nil {
		panic("authProviderMock.SignInFunc: method is nil but authProvider.SignIn was just called")
	}
	mock.lock.Lock()
	mock.calls.SignIn = append(mock.calls.SignIn, struct {
		Email    string
		Password string
	}{Email: email, Password: password})
	mock.lock.Unlock()
	return mock.SignInFunc(ctx, email, password)
}

// SignInCalls gets all the calls that were made to SignIn.
func (mock *authProviderMock) SignInCalls() []struct {
	Email    string
	Password string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SignIn
}

func (mock *authProviderMock) SignUp(ctx context.Context, email, password string) error {
	if mock.SignUpFunc == nil {
		panic("authProviderMock.SignUpFunc: method is nil but authProvider.SignUp was just called")
	}
	mock.lock.Lock()
	mock.calls.SignUp = append(mock.calls.SignUp, struct {
		Email    string
		Password string
	}{Email: email, Password: password})
	mock.lock.Unlock()
	return mock.SignUpFunc(ctx, email, password)
}

// SignUpCalls gets all the calls that were made to SignUp.
func (mock *authProviderMock) SignUpCalls() []struct {
	Email    string
	Password string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SignUp
}

func (mock *authProviderMock) SignOut(ctx context.Context) error {
	if mock.SignOutFunc == nil {
		panic("authProviderMock.SignOutFunc: method is nil but authProvider.SignOut was just called")
	}
	mock.lock.Lock()
	mock.calls.SignOut = append(mock.calls.SignOut, struct{}{})
	mock.lock.Unlock()
	return mock.SignOutFunc(ctx)
}

// SignOutCalls gets all the calls that were made to SignOut.
func (mock *authProviderMock) SignOutCalls() []struct{} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SignOut
}
