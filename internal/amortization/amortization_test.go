package amortization

import (
	"testing"

	"github.com/Veraticus/finlens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_PaysOff(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 100000, AnnualRate: 6, MonthlyPayment: 600})

	require.True(t, result.PaidOff())
	assert.Less(t, result.MonthsToPayoff, model.MaxAmortizationMonths)
	assert.Len(t, result.BalanceSeries, result.MonthsToPayoff+1)
	assert.Equal(t, 100000.0, result.BalanceSeries[0])
	assert.Equal(t, 0.0, result.BalanceSeries[len(result.BalanceSeries)-1])

	// 600/month against 500 of initial interest is a 30-year payoff.
	assert.Equal(t, 360, result.MonthsToPayoff)
	assert.Equal(t, 216000.0, result.TotalRepayment)
	assert.Equal(t, 115548.5, result.TotalInterest)
}

func TestCompute_FirstMonth(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 100000, AnnualRate: 6, MonthlyPayment: 600})

	// interest 500, principal reduction 100
	assert.Equal(t, 99900.0, result.BalanceSeries[1])
	// interest 499.5, principal reduction 100.5
	assert.Equal(t, 99799.5, result.BalanceSeries[2])
}

func TestCompute_NonConvergent(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 100000, AnnualRate: 6, MonthlyPayment: 400})

	assert.False(t, result.PaidOff())
	assert.Equal(t, model.MaxAmortizationMonths, result.MonthsToPayoff)
	assert.Len(t, result.BalanceSeries, model.MaxAmortizationMonths+1)
	assert.Greater(t, result.BalanceSeries[len(result.BalanceSeries)-1], 100000.0)
}

func TestCompute_PaymentEqualsInterest(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 100000, AnnualRate: 6, MonthlyPayment: 500})

	assert.Equal(t, model.MaxAmortizationMonths, result.MonthsToPayoff)
	for _, b := range result.BalanceSeries {
		assert.Equal(t, 100000.0, b)
	}
}

func TestCompute_ZeroRate(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 1200, AnnualRate: 0, MonthlyPayment: 100})

	assert.Equal(t, 12, result.MonthsToPayoff)
	assert.Equal(t, 0.0, result.TotalInterest)
	assert.Equal(t, 1200.0, result.TotalRepayment)
}

func TestCompute_LastPaymentOvershoots(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 1000, AnnualRate: 0, MonthlyPayment: 300})

	assert.Equal(t, 4, result.MonthsToPayoff)
	// The full payment is counted even when it overshoots the balance.
	assert.Equal(t, 1200.0, result.TotalRepayment)
	assert.Equal(t, []float64{1000, 700, 400, 100, 0}, result.BalanceSeries)
}

func TestCompute_Deposits(t *testing.T) {
	base := model.LoanScenario{Principal: 100000, AnnualRate: 6, MonthlyPayment: 600}
	without := Compute(base)

	tests := []struct {
		deposits model.Deposits
		name     string
	}{
		{name: "early lump sum", deposits: model.Deposits{1: 10000}},
		{name: "late lump sum", deposits: model.Deposits{300: 5000}},
		{name: "tiny deposit", deposits: model.Deposits{12: 1}},
		{name: "after payoff", deposits: model.Deposits{999: 5000}},
		{name: "several", deposits: model.Deposits{12: 2000, 24: 2000, 36: 2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			s.Deposits = tt.deposits
			with := Compute(s)
			assert.LessOrEqual(t, with.MonthsToPayoff, without.MonthsToPayoff)
			assert.LessOrEqual(t, with.TotalInterest, without.TotalInterest)
		})
	}
}

func TestCompute_DepositClearsBalance(t *testing.T) {
	result := Compute(model.LoanScenario{
		Principal:      10000,
		AnnualRate:     12,
		MonthlyPayment: 200,
		Deposits:       model.Deposits{2: 50000},
	})

	assert.Equal(t, 2, result.MonthsToPayoff)
	// payment + deposit both count towards repayment
	assert.Equal(t, 50400.0, result.TotalRepayment)
	assert.Equal(t, 0.0, result.BalanceSeries[2])
}

func TestCompute_ZeroPrincipal(t *testing.T) {
	result := Compute(model.LoanScenario{Principal: 0, AnnualRate: 5, MonthlyPayment: 100})

	assert.Equal(t, 1, result.MonthsToPayoff)
	assert.Equal(t, []float64{0, 0}, result.BalanceSeries)
}

func TestYearsMonths(t *testing.T) {
	y, m := YearsMonths(367)
	assert.Equal(t, 30, y)
	assert.Equal(t, 7, m)
}
