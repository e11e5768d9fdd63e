package state

import (
	"fmt"
	"time"

	"github.com/Veraticus/finlens/internal/model"
)

// Target scenario defaults.
const (
	DefaultTargetIncome = 5000
	DefaultTargetYears  = 10
)

// Planner defaults.
const (
	DefaultPlannerInitial   = 10000
	DefaultPlannerReturn    = 7
	DefaultPlannerInflation = 2.5
	DefaultPlannerYears     = 40
	BaseRuleLabel           = "Base monthly"
	BaseRuleAmount          = 500
)

// NewLoanTab returns an empty loan titled for position n (1-based).
func NewLoanTab(n int) model.LoanTab {
	return model.LoanTab{
		ID:       model.NewID(),
		Title:    model.DefaultLoanTitle(n),
		Deposits: model.Deposits{},
	}
}

// DefaultLoanState holds a single empty loan.
func DefaultLoanState() model.LoanState {
	return model.LoanState{Tabs: []model.LoanTab{NewLoanTab(1)}}
}

// ScenarioName names the n-th target scenario (1-based).
func ScenarioName(n int) string {
	return fmt.Sprintf("Scenario %d", n)
}

// NewTargetScenario returns the n-th default scenario, targeting ten years
// from now with rates taken from the profile. A profile with a valid birth
// date makes the scenario age-based, aiming at the profile's retirement age.
func NewTargetScenario(n int, p model.Profile, now time.Time) model.TargetScenario {
	d := p.Defaults()
	sc := model.TargetScenario{
		ID:              model.NewID(),
		Name:            ScenarioName(n),
		TargetIncome:    DefaultTargetIncome,
		TargetDate:      model.FormatDate(now.UTC().AddDate(DefaultTargetYears, 0, 0)),
		AnnualReturn:    model.Number(d.ExpectedReturn),
		WithdrawalRate:  model.Number(d.WithdrawalRate),
		InflationRate:   model.Number(d.Inflation),
		ProjectionYears: model.DefaultProjectionYears,
	}
	if _, ok := model.ParseDate(p.DateOfBirth); ok {
		sc.BirthDate = p.DateOfBirth
		sc.TargetAge = RetireAge(p)
	}
	return sc
}

// RetireAge is the profile's retirement age, or the default target age.
func RetireAge(p model.Profile) model.Number {
	if p.RetireAge > 0 {
		return p.RetireAge
	}
	return model.DefaultTargetAge
}

// DefaultTargetState holds the single default scenario.
func DefaultTargetState(p model.Profile, now time.Time) model.TargetState {
	return model.TargetState{
		Version:   model.TargetStateVersion,
		Scenarios: []model.TargetScenario{NewTargetScenario(1, p, now)},
	}
}

// BaseRule is the contribution rule seeded into an empty planner.
func BaseRule() model.ContributionRule {
	return model.Recurring{
		ID:        model.NewID(),
		Label:     BaseRuleLabel,
		Frequency: model.Monthly,
		Amount:    BaseRuleAmount,
		Start:     1,
	}
}

// DefaultPlannerState is the nominal 40-year plan with the base rule.
func DefaultPlannerState() model.PlannerState {
	return model.PlannerState{
		InitialInvestment: DefaultPlannerInitial,
		AnnualReturn:      DefaultPlannerReturn,
		InflationRate:     DefaultPlannerInflation,
		ProjectionYears:   DefaultPlannerYears,
		Rules:             model.Rules{BaseRule()},
	}
}

// DefaultBudgetState is an empty budget starting from the profile income.
func DefaultBudgetState(p model.Profile) model.BudgetState {
	return model.BudgetState{
		Income:    p.Income,
		Fixed:     []model.FixedExpense{},
		Variable:  []model.VariableExpense{},
		Unplanned: []model.UnplannedExpense{},
	}
}
