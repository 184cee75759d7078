// Package view composes the session, the record store and the filter engine
// into the state of the screen.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/solutions-manager/internal/domain"
	"github.com/heartmarshall/solutions-manager/internal/service/session"
	"github.com/heartmarshall/solutions-manager/internal/service/solution"
)

type sessionManager interface {
	Start(ctx context.Context)
	Snapshot() session.Snapshot
	OnChange(fn func(session.Snapshot))
	SignIn(ctx context.Context, c session.Credentials) error
	SignUp(ctx context.Context, c session.Credentials) error
	SignOut(ctx context.Context) error
	ClearError()
}

type recordStore interface {
	Refresh(ctx context.Context)
	Create(ctx context.Context, input solution.SaveInput) (*domain.Solution, error)
	Update(ctx context.Context, id uuid.UUID, input solution.SaveInput) error
	Delete(ctx context.Context, id uuid.UUID) bool
	Loading() bool
	Err() error
	ClearError()
	OnChange(fn func([]domain.Solution))
}

type filterEngine interface {
	SetSource(list []domain.Solution)
	SetCriteria(c domain.Criteria) error
	ClearCriteria()
	ToggleSort(col domain.SortColumn) domain.SortState
	Rows() []domain.Solution
	Criteria() domain.Criteria
	Sort() domain.SortState
	Total() int
}

// ScreenKind selects which screen is shown.
type ScreenKind string

const (
	ScreenAuth ScreenKind = "auth"
	ScreenMain ScreenKind = "main"
)

// AuthMode selects between the sign-in and sign-up variants of the auth screen.
type AuthMode string

const (
	ModeSignIn AuthMode = "signin"
	ModeSignUp AuthMode = "signup"
)

// Screen is everything needed to render the current state.
type Screen struct {
	Kind        ScreenKind
	Pending     bool
	AuthMode    AuthMode
	AuthBusy    bool
	Identity    domain.Identity
	Alert       string
	Loading     bool
	FiltersOpen bool
	Criteria    domain.Criteria
	Sort        domain.SortState
	Rows        []domain.Solution
	Total       int
	Form        *Form
}

// Coordinator holds the UI-only state and routes user actions.
type Coordinator struct {
	sess    sessionManager
	store   recordStore
	filters filterEngine
	log     *slog.Logger

	mu          sync.Mutex
	ctx         context.Context
	lastState   domain.SessionState
	authMode    AuthMode
	filtersOpen bool
	form        *Form
}

// NewCoordinator wires store changes into the filter engine and session
// changes into the coordinator.
func NewCoordinator(log *slog.Logger, sess sessionManager, store recordStore, filters filterEngine) *Coordinator {
	c := &Coordinator{
		sess:      sess,
		store:     store,
		filters:   filters,
		log:       log.With("service", "view"),
		ctx:       context.Background(),
		lastState: domain.SessionUnknown,
		authMode:  ModeSignIn,
	}
	store.OnChange(filters.SetSource)
	sess.OnChange(c.onSession)
	return c
}

// Start resolves the session. Background refreshes triggered by session
// changes use ctx.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	c.sess.Start(ctx)
}

// onSession refreshes the list on entering Authenticated and closes the form
// on entering Unauthenticated.
func (c *Coordinator) onSession(snap session.Snapshot) {
	c.mu.Lock()
	prev := c.lastState
	c.lastState = snap.State
	ctx := c.ctx
	if snap.State == domain.SessionUnauthenticated {
		c.form = nil
	}
	c.mu.Unlock()

	if snap.State == domain.SessionAuthenticated && prev != domain.SessionAuthenticated {
		c.log.DebugContext(ctx, "session authenticated, loading solutions")
		c.store.Refresh(ctx)
	}
}

// Screen returns the current screen state.
func (c *Coordinator) Screen() Screen {
	snap := c.sess.Snapshot()

	c.mu.Lock()
	s := Screen{
		AuthMode:    c.authMode,
		FiltersOpen: c.filtersOpen,
		Form:        c.form,
	}
	c.mu.Unlock()

	s.AuthBusy = snap.Busy
	s.Alert = c.alert(snap)

	switch snap.State {
	case domain.SessionAuthenticated:
		s.Kind = ScreenMain
		s.Identity = snap.Identity
		s.Loading = c.store.Loading()
		s.Criteria = c.filters.Criteria()
		s.Sort = c.filters.Sort()
		s.Rows = c.filters.Rows()
		s.Total = c.filters.Total()
	default:
		s.Kind = ScreenAuth
		s.Pending = snap.State == domain.SessionUnknown
		s.Form = nil
	}
	return s
}

// alert is the auth error when set, else the record error.
func (c *Coordinator) alert(snap session.Snapshot) string {
	if snap.Err != nil {
		return domain.Message(snap.Err)
	}
	return domain.Message(c.store.Err())
}

// DismissAlert clears the error currently shown.
func (c *Coordinator) DismissAlert() {
	if c.sess.Snapshot().Err != nil {
		c.sess.ClearError()
		return
	}
	c.store.ClearError()
}

// ToggleAuthMode switches between sign-in and sign-up.
func (c *Coordinator) ToggleAuthMode() AuthMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authMode == ModeSignIn {
		c.authMode = ModeSignUp
	} else {
		c.authMode = ModeSignIn
	}
	return c.authMode
}

// SubmitAuth signs in or signs up depending on the auth mode.
func (c *Coordinator) SubmitAuth(ctx context.Context, creds session.Credentials) error {
	c.mu.Lock()
	mode := c.authMode
	c.mu.Unlock()

	if mode == ModeSignUp {
		return c.sess.SignUp(ctx, creds)
	}
	return c.sess.SignIn(ctx, creds)
}

// SignOut ends the session.
func (c *Coordinator) SignOut(ctx context.Context) error {
	return c.sess.SignOut(ctx)
}

// Refresh reloads the list.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.store.Refresh(ctx)
}

// ToggleFilters opens or closes the filter panel. Closing it keeps the criteria.
func (c *Coordinator) ToggleFilters() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filtersOpen = !c.filtersOpen
	return c.filtersOpen
}

// SetCriteria applies criteria to the table.
func (c *Coordinator) SetCriteria(criteria domain.Criteria) error {
	return c.filters.SetCriteria(criteria)
}

// ClearCriteria removes every criterion.
func (c *Coordinator) ClearCriteria() {
	c.filters.ClearCriteria()
}

// ToggleSort sorts the table by col.
func (c *Coordinator) ToggleSort(col domain.SortColumn) domain.SortState {
	return c.filters.ToggleSort(col)
}

// Row returns the solution at the 1-based position n of the table.
func (c *Coordinator) Row(n int) (domain.Solution, error) {
	rows := c.filters.Rows()
	if n < 1 || n > len(rows) {
		return domain.Solution{}, domain.NewValidationError("row", fmt.Sprintf("must be between 1 and %d", len(rows)))
	}
	return rows[n-1], nil
}

// OpenCreateForm opens an empty form.
func (c *Coordinator) OpenCreateForm() *Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = newCreateForm()
	return c.form
}

// OpenEditForm opens the form prefilled from table row n.
func (c *Coordinator) OpenEditForm(n int) (*Form, error) {
	row, err := c.Row(n)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = newEditForm(&row)
	return c.form, nil
}

// Form returns the open form, or nil.
func (c *Coordinator) Form() *Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// CloseForm discards the open form.
func (c *Coordinator) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = nil
}

// SubmitForm saves the open form. On success the form closes; on failure it
// stays open with its input and the error is returned.
func (c *Coordinator) SubmitForm(ctx context.Context) error {
	form := c.Form()
	if form == nil {
		return fmt.Errorf("no form is open")
	}

	var err error
	if form.Mode() == FormEdit {
		err = c.store.Update(ctx, form.ID(), form.Input())
	} else {
		_, err = c.store.Create(ctx, form.Input())
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.form == form {
		c.form = nil
	}
	c.mu.Unlock()
	return nil
}

// DeleteRow deletes the solution at table row n after confirmation. It
// reports whether the solution was removed.
func (c *Coordinator) DeleteRow(ctx context.Context, n int) (bool, error) {
	row, err := c.Row(n)
	if err != nil {
		return false, err
	}
	return c.store.Delete(ctx, row.ID), nil
}
