// Package state loads and saves each tool's document through the shared
// store. Loads never fail: a missing, malformed or empty document is
// replaced by that tool's default.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/service"
)

// errNotObject rejects documents that are valid JSON but not an object.
var errNotObject = errors.New("document is not a JSON object")

// Manager owns typed access to the persisted documents.
type Manager struct {
	store service.Store
	now   func() time.Time
}

// NewManager creates a manager over store.
func NewManager(store service.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock replaces the clock used for dated defaults and snapshots.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Store exposes the underlying store for read-only cross-tool access.
func (m *Manager) Store() service.Store {
	return m.store
}

// load decodes the document at key into v. It reports false, after logging
// why, when the caller should fall back to its default.
func (m *Manager) load(ctx context.Context, key string, v any) bool {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return false
	}
	if err != nil {
		common.LogWarn("Failed to read saved state, using defaults", common.Fields{"key": key, "error": err.Error()})
		return false
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		err = errNotObject
	} else {
		err = json.Unmarshal(trimmed, v)
	}
	if err != nil {
		common.LogWarn("Discarding malformed saved state", common.Fields{"key": key, "error": err.Error()})
		return false
	}
	return true
}

// save encodes v under key. Failures are logged and otherwise ignored so the
// computed results stay usable when the store is not.
func (m *Manager) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = m.store.Set(ctx, key, data)
	}
	if err != nil {
		common.LogWarn("Failed to save state", common.Fields{"key": key, "error": err.Error()})
	}
}

// Profile loads the shared profile, or an empty one.
func (m *Manager) Profile(ctx context.Context) model.Profile {
	var p model.Profile
	if !m.load(ctx, service.KeyProfile, &p) {
		return model.Profile{}
	}
	return p
}

// SaveProfile stores the shared profile.
func (m *Manager) SaveProfile(ctx context.Context, p model.Profile) {
	m.save(ctx, service.KeyProfile, p)
}

// Loans loads the loan tool state.
func (m *Manager) Loans(ctx context.Context) model.LoanState {
	var s model.LoanState
	if !m.load(ctx, service.KeyLoans, &s) || len(s.Tabs) == 0 {
		return DefaultLoanState()
	}
	for i := range s.Tabs {
		tab := &s.Tabs[i]
		if tab.ID == "" {
			tab.ID = model.NewID()
		}
		if tab.Title == "" {
			tab.Title = model.DefaultLoanTitle(i + 1)
		}
		if tab.Deposits == nil {
			tab.Deposits = model.Deposits{}
		}
	}
	s.SelectedIndex = model.Number(clampIndex(s.SelectedIndex.Int(), len(s.Tabs)))
	return s
}

// SaveLoans stores the loan tool state.
func (m *Manager) SaveLoans(ctx context.Context, s model.LoanState) {
	m.save(ctx, service.KeyLoans, s)
}

// Target loads the target tool state. Defaults follow the profile.
func (m *Manager) Target(ctx context.Context) model.TargetState {
	var s model.TargetState
	if !m.load(ctx, service.KeyTarget, &s) || len(s.Scenarios) == 0 {
		return DefaultTargetState(m.Profile(ctx), m.now())
	}
	s.Version = model.TargetStateVersion
	for i := range s.Scenarios {
		sc := &s.Scenarios[i]
		if sc.ID == "" {
			sc.ID = model.NewID()
		}
		if sc.Name == "" {
			sc.Name = ScenarioName(i + 1)
		}
	}
	s.ActiveIndex = model.Number(s.Active())
	return s
}

// SaveTarget stores the target tool state.
func (m *Manager) SaveTarget(ctx context.Context, s model.TargetState) {
	s.Version = model.TargetStateVersion
	m.save(ctx, service.KeyTarget, s)
}

// Planner loads the planner state. A zero projection becomes one year and an
// empty rule set is seeded with the base monthly rule.
func (m *Manager) Planner(ctx context.Context) model.PlannerState {
	var s model.PlannerState
	if !m.load(ctx, service.KeyPlanner, &s) {
		return DefaultPlannerState()
	}
	if s.ProjectionYears == 0 {
		s.ProjectionYears = 1
	}
	if len(s.Rules) == 0 {
		s.Rules = model.Rules{BaseRule()}
	}
	return s
}

// SavePlanner stores the planner state.
func (m *Manager) SavePlanner(ctx context.Context, s model.PlannerState) {
	m.save(ctx, service.KeyPlanner, s)
}

// Budget loads the budget estimator state.
func (m *Manager) Budget(ctx context.Context) model.BudgetState {
	var s model.BudgetState
	if !m.load(ctx, service.KeyBudget, &s) {
		return DefaultBudgetState(m.Profile(ctx))
	}
	if s.Fixed == nil {
		s.Fixed = []model.FixedExpense{}
	}
	if s.Variable == nil {
		s.Variable = []model.VariableExpense{}
	}
	if s.Unplanned == nil {
		s.Unplanned = []model.UnplannedExpense{}
	}
	return s
}

// SaveBudget stores the budget estimator state.
func (m *Manager) SaveBudget(ctx context.Context, s model.BudgetState) {
	m.save(ctx, service.KeyBudget, s)
}

// Summary loads the last budget summary snapshot, if any.
func (m *Manager) Summary(ctx context.Context) (model.BudgetSummary, bool) {
	var s model.BudgetSummary
	if !m.load(ctx, service.KeyBudgetSummary, &s) {
		return model.BudgetSummary{}, false
	}
	return s, true
}

// SaveSummary stores the budget summary snapshot.
func (m *Manager) SaveSummary(ctx context.Context, s model.BudgetSummary) {
	m.save(ctx, service.KeyBudgetSummary, s)
}

// Clear removes every saved document.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range service.Keys() {
		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to clear %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func clampIndex(i, n int) int {
	return max(0, min(n-1, i))
}
