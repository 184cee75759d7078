// Package filter keeps the filtered and sorted view of the solution list.
package filter

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Engine holds the source list, the active criteria and the sort state.
// Every setter recomputes the view immediately; there is no apply step.
type Engine struct {
	log *slog.Logger

	mu       sync.RWMutex
	source   []domain.Solution
	criteria domain.Criteria
	sort     domain.SortState
	filtered []domain.Solution
	rows     []domain.Solution
}

// NewEngine creates an Engine with no criteria and the default sort.
func NewEngine(log *slog.Logger) *Engine {
	e := &Engine{
		log:  log.With("service", "filter"),
		sort: domain.DefaultSort(),
	}
	e.recompute()
	return e
}

// SetSource replaces the source list. It is registered as a store listener.
func (e *Engine) SetSource(list []domain.Solution) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = slices.Clone(list)
	e.recompute()
}

// SetCriteria replaces the active criteria after checking them against the
// enumerations. Invalid criteria leave the current view untouched.
func (e *Engine) SetCriteria(c domain.Criteria) error {
	if err := c.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.criteria = c
	e.recompute()
	e.log.Debug("criteria changed",
		slog.String("department", string(c.Department)),
		slog.String("team", string(c.DigitalTeam)),
		slog.String("health", string(c.Health)),
		slog.Int("rows", len(e.rows)),
	)
	return nil
}

// ClearCriteria resets every criterion to unset.
func (e *Engine) ClearCriteria() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.criteria = domain.Criteria{}
	e.recompute()
}

// ToggleSort sorts by col, flipping the direction when col is already active.
func (e *Engine) ToggleSort(col domain.SortColumn) domain.SortState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sort = e.sort.Toggle(col)
	e.rows = domain.SortSolutions(e.filtered, e.sort)
	return e.sort
}

// Criteria returns the active criteria.
func (e *Engine) Criteria() domain.Criteria {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.criteria
}

// Sort returns the active sort state.
func (e *Engine) Sort() domain.SortState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sort
}

// Filtered returns the subset matching the criteria in source order.
func (e *Engine) Filtered() []domain.Solution {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.filtered)
}

// Rows returns the filtered subset in table order.
func (e *Engine) Rows() []domain.Solution {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.rows)
}

// Total returns the size of the unfiltered source list.
func (e *Engine) Total() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.source)
}

// recompute must be called with mu held.
func (e *Engine) recompute() {
	e.filtered = domain.FilterSolutions(e.source, e.criteria)
	e.rows = domain.SortSolutions(e.filtered, e.sort)
}
