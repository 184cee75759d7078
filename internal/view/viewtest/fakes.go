// Package viewtest provides in-memory collaborators for exercising the
// screen state end to end.
package viewtest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/auth"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Auth is an in-memory auth collaborator with one known account.
type Auth struct {
	listeners auth.Listeners

	mu       sync.Mutex
	current  *domain.Identity
	accounts map[string]string
}

// NewAuth returns an Auth that knows ann@example.com with password hunter22.
func NewAuth() *Auth {
	return &Auth{accounts: map[string]string{"ann@example.com": "hunter22"}}
}

func (f *Auth) CurrentSession(context.Context) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *Auth) Subscribe(fn func(domain.AuthChange)) func() {
	return f.listeners.Subscribe(fn)
}

func (f *Auth) SignIn(_ context.Context, email, password string) error {
	f.mu.Lock()
	if pw, ok := f.accounts[email]; !ok || pw != password {
		f.mu.Unlock()
		return domain.ErrUnauthorized
	}
	id := &domain.Identity{ID: uuid.New(), Email: email}
	f.current = id
	f.mu.Unlock()

	f.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSignedIn, Identity: id})
	return nil
}

func (f *Auth) SignUp(ctx context.Context, email, password string) error {
	f.mu.Lock()
	if _, ok := f.accounts[email]; ok {
		f.mu.Unlock()
		return domain.ErrAlreadyExists
	}
	f.accounts[email] = password
	f.mu.Unlock()
	return f.SignIn(ctx, email, password)
}

func (f *Auth) SignOut(context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()

	f.listeners.Broadcast(domain.AuthChange{Event: domain.AuthSignedOut})
	return nil
}

// Repo is an in-memory solutions table deriving the license cost.
type Repo struct {
	mu        sync.Mutex
	rows      []domain.Solution
	listCalls int
	failList  error
}

func (r *Repo) List(context.Context) ([]domain.Solution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.failList != nil {
		return nil, r.failList
	}
	out := slices.Clone(r.rows)
	slices.SortFunc(out, func(a, b domain.Solution) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *Repo) Create(_ context.Context, s *domain.Solution) (*domain.Solution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	c.ID = uuid.New()
	c.LicenseCost = domain.LicenseCost(c.BaseCost)
	r.rows = append(r.rows, c)
	return &c, nil
}

func (r *Repo) Update(_ context.Context, id uuid.UUID, f domain.SolutionFields, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Name = f.Name
			r.rows[i].DepartmentOwner = f.DepartmentOwner
			r.rows[i].DigitalTeamOwner = f.DigitalTeamOwner
			r.rows[i].YearCreated = f.YearCreated
			r.rows[i].HealthCategory = f.HealthCategory
			r.rows[i].ManualManagementCost = f.ManualManagementCost
			r.rows[i].BaseCost = f.BaseCost
			r.rows[i].LicenseCost = domain.LicenseCost(f.BaseCost)
			r.rows[i].UpdatedAt = at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *Repo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = slices.Delete(r.rows, i, i+1)
			return nil
		}
	}
	return domain.ErrNotFound
}

// FailList makes subsequent List calls return err. A nil err restores them.
func (r *Repo) FailList(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failList = err
}

// Lists returns the number of List calls.
func (r *Repo) Lists() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

// Answer is a Confirmer with a fixed reply.
type Answer bool

func (a Answer) Confirm(context.Context, string) (bool, error) { return bool(a), nil }
