// Package amortization computes loan payoff schedules.
package amortization

import (
	"math"

	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
)

// Compute simulates a loan month by month until the balance reaches zero or
// model.MaxAmortizationMonths have elapsed. A payment that never covers the
// interest runs the full cap and returns the unconverged schedule.
//
// Money outputs are rounded to cents once at the end; the simulation itself
// runs at full precision.
func Compute(s model.LoanScenario) model.LoanResult {
	monthlyRate := s.AnnualRate / 100 / 12

	balance := s.Principal
	balances := make([]float64, 0, 64)
	balances = append(balances, balance)

	var totalRepayment, totalInterest float64

	for month := 1; month <= model.MaxAmortizationMonths; month++ {
		interest := balance * monthlyRate
		balance -= s.MonthlyPayment - interest
		totalRepayment += s.MonthlyPayment
		totalInterest += interest

		if deposit := s.Deposits[month]; deposit > 0 {
			balance -= deposit
			totalRepayment += deposit
		}

		balance = math.Max(0, balance)
		balances = append(balances, balance)

		if balance <= 0 {
			break
		}
	}

	rounded := make([]float64, len(balances))
	for i, b := range balances {
		rounded[i] = money.Round2(b)
	}

	return model.LoanResult{
		MonthsToPayoff: len(balances) - 1,
		TotalRepayment: money.Round2(totalRepayment),
		TotalInterest:  money.Round2(totalInterest),
		BalanceSeries:  rounded,
	}
}

// YearsMonths splits a month count into whole years and remaining months.
func YearsMonths(months int) (years, rem int) {
	return months / 12, months % 12
}
