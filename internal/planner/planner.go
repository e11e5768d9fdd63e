// Package planner simulates portfolio growth under a schedule of one-time and
// recurring contributions.
package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
)

// Months returns the projection length for the given number of years, at least 1.
func Months(projectionYears float64) int {
	return max(1, int(money.Round(projectionYears*12)))
}

// Contributions expands rules into a per-month contribution schedule of the
// given length. Rule months are 1-based and clamped into the projection.
func Contributions(rules model.Rules, months int) []float64 {
	schedule := make([]float64, months)
	last := months - 1

	for _, rule := range rules {
		switch r := rule.(type) {
		case model.OneTime:
			schedule[clamp(r.Month-1, 0, last)] += r.Amount
		case model.Recurring:
			start := clamp(r.Start-1, 0, last)
			end := last
			if r.End != 0 {
				end = clamp(r.End-1, 0, last)
			}
			for m := start; m <= end; m += r.Frequency.Months() {
				schedule[m] += r.Amount
			}
		}
	}
	return schedule
}

// Simulate runs the month-by-month projection in nominal terms. Each month
// the scheduled contribution is added and then the portfolio compounds.
func Simulate(s model.PlannerState) model.PlannerResult {
	months := Months(s.ProjectionYears.Float())
	monthlyReturn := s.AnnualReturn.Float() / 100 / 12
	monthlyInflation := s.InflationRate.Float() / 100 / 12
	initial := s.InitialInvestment.Float()

	schedule := Contributions(s.Rules, months)
	values := make([]float64, months)
	contributed := make([]float64, months)
	inflation := make([]float64, months)

	portfolio := initial
	var sum float64
	for m := 0; m < months; m++ {
		sum += schedule[m]
		portfolio += schedule[m]
		portfolio *= 1 + monthlyReturn

		values[m] = portfolio
		contributed[m] = initial + sum
		if m == 0 {
			inflation[m] = 1
		} else {
			inflation[m] = inflation[m-1] * (1 + monthlyInflation)
		}
	}

	return model.PlannerResult{
		PortfolioValueSeries:            values,
		CumulativeContributionSeries:    contributed,
		CumulativeInflationFactorSeries: inflation,
		MonthlyContributions:            schedule,
	}
}

// Deflate divides each value by the cumulative inflation factor of its month.
func Deflate(values, factors []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / factors[i]
	}
	return out
}

// Summarize computes the headline figures and chart series in nominal terms,
// or in today's money when adjusted. Growth is never reported below zero.
// Chart series are rounded to whole units.
func Summarize(r model.PlannerResult, adjusted bool) model.PlannerSummary {
	values := r.PortfolioValueSeries
	contributed := r.CumulativeContributionSeries
	if adjusted {
		values = Deflate(values, r.CumulativeInflationFactorSeries)
		contributed = Deflate(contributed, r.CumulativeInflationFactorSeries)
	}

	summary := model.PlannerSummary{
		ValueSeries:        money.RoundAll(values),
		ContributionSeries: money.RoundAll(contributed),
		Real:               adjusted,
	}
	if n := len(values); n > 0 {
		summary.EndingValue = values[n-1]
		summary.TotalContributions = contributed[n-1]
		summary.TotalGrowth = math.Max(0, summary.EndingValue-summary.TotalContributions)
	}
	return summary
}

// SortedForDisplay returns the rules ordered by start month, keeping insertion
// order for equal months.
func SortedForDisplay(rules model.Rules) model.Rules {
	out := make(model.Rules, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartMonth() < out[j].StartMonth()
	})
	return out
}

// Describe renders a rule for a numbered rule list.
func Describe(number int, rule model.ContributionRule, f *money.Formatter) string {
	switch r := rule.(type) {
	case model.OneTime:
		return fmt.Sprintf("#%d %s • %s • at m%d", number, r.Label, f.Currency(r.Amount), r.Month)
	case model.Recurring:
		end := ""
		if r.End != 0 {
			end = fmt.Sprintf("- end m%d", r.End)
		}
		return fmt.Sprintf("#%d %s • %s • %s • start m%d%s", number, r.Label, f.Currency(r.Amount), r.Frequency, r.Start, end)
	default:
		return fmt.Sprintf("#%d %s", number, rule.RuleLabel())
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
