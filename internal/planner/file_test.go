package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

const samplePlan = `
initial_investment: 25000
projection_years: 30
adjust_for_inflation: true
rules:
  - type: recurring
    label: Salary sacrifice
    amount: 750
    frequency: monthly
    start: 1
    end: 120
  - type: recurring
    amount: 3000
    frequency: annual
    start: 12
  - type: one-time
    label: Inheritance
    amount: 20000
    month: 60
`

func TestPlanFile(t *testing.T) {
	f, err := LoadPlanFile(strings.NewReader(samplePlan))
	require.NoError(t, err)

	s := model.PlannerState{AnnualReturn: 7, InflationRate: 2.5, ProjectionYears: 40}
	require.NoError(t, f.ApplyTo(&s))

	assert.Equal(t, model.Number(25000), s.InitialInvestment)
	assert.Equal(t, model.Number(7), s.AnnualReturn)
	assert.Equal(t, model.Number(30), s.ProjectionYears)
	assert.True(t, s.AdjustForInflation)

	require.Len(t, s.Rules, 3)
	salary := s.Rules[0].(model.Recurring)
	assert.Equal(t, "Salary sacrifice", salary.Label)
	assert.Equal(t, 120, salary.End)
	assert.Equal(t, DefaultRecurringLabel, s.Rules[1].RuleLabel())
	assert.Equal(t, model.Annual, s.Rules[1].(model.Recurring).Frequency)
	assert.Equal(t, model.OneTime{ID: s.Rules[2].RuleID(), Label: "Inheritance", Amount: 20000, Month: 60}, s.Rules[2])

	result := Simulate(s)
	assert.Equal(t, 360, result.Months())
	assert.InDelta(t, 20000+750+3000, result.MonthlyContributions[59], 1e-9)
}

func TestPlanFile_Invalid(t *testing.T) {
	_, err := LoadPlanFile(strings.NewReader("projection_yrs: 3\n"))
	assert.Error(t, err)

	f, err := LoadPlanFile(strings.NewReader("initial_investment: 1\nrules:\n  - type: weekly\n"))
	require.NoError(t, err)
	s := model.PlannerState{InitialInvestment: 5}
	err = f.ApplyTo(&s)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, model.Number(5), s.InitialInvestment)
}
