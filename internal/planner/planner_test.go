package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
)

func baseState() model.PlannerState {
	return model.PlannerState{
		Rules: model.Rules{
			model.Recurring{ID: "r1", Label: "Base monthly", Frequency: model.Monthly, Amount: 500, Start: 1},
		},
		InitialInvestment: 10000,
		AnnualReturn:      7,
		InflationRate:     2.5,
		ProjectionYears:   40,
	}
}

func TestSimulate_BaseMonthly(t *testing.T) {
	result := Simulate(baseState())

	require.Equal(t, 480, result.Months())
	assert.Len(t, result.CumulativeContributionSeries, 480)
	assert.Len(t, result.CumulativeInflationFactorSeries, 480)
	assert.Len(t, result.MonthlyContributions, 480)

	assert.Equal(t, []float64{10561, 11126, 11694}, money.RoundAll(result.PortfolioValueSeries[:3]))
	assert.InDelta(t, 1483176.52, result.PortfolioValueSeries[479], 0.01)
	assert.InDelta(t, 250000, result.CumulativeContributionSeries[479], 1e-9)
	assert.InDelta(t, 1.0, result.CumulativeInflationFactorSeries[0], 1e-12)

	nominal := Summarize(result, false)
	assert.InDelta(t, 1483176.52, nominal.EndingValue, 0.01)
	assert.InDelta(t, 250000, nominal.TotalContributions, 1e-9)
	assert.InDelta(t, 1233176.52, nominal.TotalGrowth, 0.01)
	assert.False(t, nominal.Real)

	todays := Summarize(result, true)
	assert.InDelta(t, 547335.93, todays.EndingValue, 0.01)
	assert.InDelta(t, 92257.38, todays.TotalContributions, 0.01)
	assert.InDelta(t, 455078.55, todays.TotalGrowth, 0.01)
	assert.True(t, todays.Real)
	assert.Equal(t, float64(547336), todays.ValueSeries[479])
}

func TestSimulate_RuleExpansion(t *testing.T) {
	state := model.PlannerState{
		Rules: model.Rules{
			model.OneTime{ID: "a", Amount: 5000, Month: 99},
			model.Recurring{ID: "b", Frequency: model.Quarterly, Amount: 100, Start: 2, End: 8},
			model.Recurring{ID: "c", Frequency: model.Annual, Amount: 300, Start: 0},
			model.Recurring{ID: "d", Frequency: "weekly", Amount: 7, Start: 12, End: 3},
		},
		InitialInvestment: 1000,
		ProjectionYears:   2,
	}

	result := Simulate(state)
	require.Equal(t, 24, result.Months())

	want := make([]float64, 24)
	want[0] = 300
	want[1] = 100
	want[4] = 100
	want[7] = 100
	want[12] = 300
	want[23] = 5000
	assert.Equal(t, want, result.MonthlyContributions)

	summary := Summarize(result, false)
	assert.InDelta(t, 6900, summary.EndingValue, 1e-9)
	assert.InDelta(t, 6900, summary.TotalContributions, 1e-9)
	assert.Zero(t, summary.TotalGrowth)
	assert.Equal(t, []float64{1300, 1400, 1400}, summary.ValueSeries[:3])
}

func TestSimulate_Edges(t *testing.T) {
	t.Run("zero years projects one month", func(t *testing.T) {
		result := Simulate(model.PlannerState{InitialInvestment: 100, AnnualReturn: 12})
		require.Equal(t, 1, result.Months())
		assert.InDelta(t, 101, result.PortfolioValueSeries[0], 1e-9)
	})

	t.Run("losses never report negative growth", func(t *testing.T) {
		result := Simulate(model.PlannerState{InitialInvestment: 1000, AnnualReturn: -50, ProjectionYears: 1})
		summary := Summarize(result, false)
		assert.InDelta(t, 600.066, summary.EndingValue, 0.001)
		assert.Zero(t, summary.TotalGrowth)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Simulate(baseState()), Simulate(baseState()))
	})
}

func TestMonths(t *testing.T) {
	assert.Equal(t, 1, Months(0))
	assert.Equal(t, 1, Months(-3))
	assert.Equal(t, 6, Months(0.5))
	assert.Equal(t, 480, Months(40))
	assert.Equal(t, 2, Months(0.125))
}

func TestRuleEdits(t *testing.T) {
	state := model.PlannerState{}

	added, err := AddRule(&state, RuleInput{Type: model.RuleTypeRecurring, Amount: -5, Start: 0, End: -1})
	require.NoError(t, err)
	rec, ok := added.(model.Recurring)
	require.True(t, ok)
	assert.Equal(t, DefaultRecurringLabel, rec.Label)
	assert.Equal(t, model.Monthly, rec.Frequency)
	assert.Zero(t, rec.Amount)
	assert.Equal(t, 1, rec.Start)
	assert.Zero(t, rec.End)
	assert.NotEmpty(t, rec.ID)

	bonus, err := AddRule(&state, RuleInput{Type: model.RuleTypeRecurring, Label: " Bonus ", Frequency: model.Annual, Amount: 2000, Start: 12, End: 6})
	require.NoError(t, err)
	assert.Equal(t, "Bonus", bonus.RuleLabel())
	assert.Equal(t, 12, bonus.(model.Recurring).End)

	updated, err := UpdateRule(&state, bonus.RuleID(), RuleInput{Type: model.RuleTypeOneTime, Amount: 750, Start: 3})
	require.NoError(t, err)
	assert.Equal(t, model.OneTime{ID: bonus.RuleID(), Label: DefaultOneTimeLabel, Amount: 750, Month: 3}, updated)
	assert.Equal(t, updated, state.Rules[1])

	_, err = UpdateRule(&state, "missing", RuleInput{Type: model.RuleTypeOneTime})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = AddRule(&state, RuleInput{Type: "sometimes"})
	assert.True(t, errors.Is(err, common.ErrValidation))
	_, err = AddRule(&state, RuleInput{Type: model.RuleTypeRecurring, Frequency: "weekly"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Len(t, state.Rules, 2)

	id, err := RuleAt(state.Rules, 2)
	require.NoError(t, err)
	assert.Equal(t, bonus.RuleID(), id)
	_, err = RuleAt(state.Rules, 3)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, RemoveRule(&state, added.RuleID()))
	assert.Len(t, state.Rules, 1)
	assert.ErrorIs(t, RemoveRule(&state, added.RuleID()), common.ErrNotFound)
}

func TestSortedForDisplay(t *testing.T) {
	rules := model.Rules{
		model.OneTime{ID: "late", Month: 24},
		model.Recurring{ID: "first", Start: 1},
		model.OneTime{ID: "tie-a", Month: 6},
		model.Recurring{ID: "tie-b", Start: 6},
	}

	sorted := SortedForDisplay(rules)
	ids := make([]model.ID, len(sorted))
	for i, r := range sorted {
		ids[i] = r.RuleID()
	}
	assert.Equal(t, []model.ID{"first", "tie-a", "tie-b", "late"}, ids)
	assert.Equal(t, model.ID("late"), rules[0].RuleID())
}

func TestDescribe(t *testing.T) {
	f := money.NewFormatter("USD")

	assert.Equal(t, "#1 Base monthly • $500 • monthly • start m1",
		Describe(1, model.Recurring{Label: "Base monthly", Frequency: model.Monthly, Amount: 500, Start: 1}, f))
	assert.Equal(t, "#2 Bonus • $2,000 • annual • start m12- end m60",
		Describe(2, model.Recurring{Label: "Bonus", Frequency: model.Annual, Amount: 2000, Start: 12, End: 60}, f))
	assert.Equal(t, "#3 Gift • $1,500 • at m7",
		Describe(3, model.OneTime{Label: "Gift", Amount: 1500, Month: 7}, f))
}
