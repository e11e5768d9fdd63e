// Package target plans the portfolio needed to fund a future monthly income.
//
// A plan has two phases. During accumulation the required monthly
// contribution is invested and compounded until the target date. During
// decumulation the portfolio keeps compounding while an inflation-adjusted
// income is withdrawn each month, until the projection ends or the
// portfolio is exhausted.
package target

import (
	"math"
	"strconv"
	"time"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
)

const (
	daysPerMonth = 30.44
	daysPerYear  = 365.25
	// maxAge bounds the withdrawal phase of age-based plans.
	maxAge = 100
	// labelEvery is the spacing, in months, of time labels.
	labelEvery = 6
)

// Validation messages shown to the user.
const (
	MsgNoTimeline     = "Please select a target date or enter your birth date and target age"
	MsgPastTarget     = "Target date must be in the future"
	MsgNoIncome       = "Target income must be greater than 0"
	MsgNoWithdrawRate = "Withdrawal rate must be greater than 0"
)

// Compute builds an investment plan for s as of now. It returns a
// *common.ValidationError when the timeline does not resolve to a future
// date or the inputs cannot produce a plan.
func Compute(s model.InvestmentScenario, now time.Time) (model.InvestmentResult, error) {
	target, ok := s.Timeline.Target()
	if !ok {
		return model.InvestmentResult{}, common.NewValidationError("timeline", MsgNoTimeline)
	}
	if !target.After(now) {
		return model.InvestmentResult{}, common.NewValidationError("targetDate", MsgPastTarget)
	}
	if s.TargetMonthlyIncome <= 0 {
		return model.InvestmentResult{}, common.NewValidationError("targetIncome", MsgNoIncome)
	}
	if s.WithdrawalRate <= 0 {
		return model.InvestmentResult{}, common.NewValidationError("withdrawalRate", MsgNoWithdrawRate)
	}

	p := planner{scenario: s, now: now, target: target}
	return p.run(), nil
}

// MonthsBetween counts 30.44-day months from now to target, at least 1.
func MonthsBetween(now, target time.Time) int {
	days := float64(target.Sub(now)) / float64(24*time.Hour)
	return max(1, int(money.Round(days/daysPerMonth)))
}

// RequiredContribution solves the future value of an annuity for the
// monthly payment that grows initial into goal over months. Without a
// positive return it falls back to straight division. Never negative.
func RequiredContribution(goal, initial, monthlyReturn float64, months int) float64 {
	n := float64(months)
	if monthlyReturn > 0 {
		growth := math.Pow(1+monthlyReturn, n)
		annuityFactor := (growth - 1) / monthlyReturn
		return math.Max(0, (goal-initial*growth)/annuityFactor)
	}
	return math.Max(0, (goal-initial)/n)
}

type planner struct {
	now      time.Time
	target   time.Time
	scenario model.InvestmentScenario
}

func (p planner) run() model.InvestmentResult {
	s := p.scenario

	monthsToTarget := MonthsBetween(p.now, p.target)
	yearsToTarget := float64(monthsToTarget) / 12

	inflationAdjustedIncome := s.TargetMonthlyIncome * math.Pow(1+s.InflationRate/100, yearsToTarget)
	requiredPortfolio := inflationAdjustedIncome * 12 / (s.WithdrawalRate / 100)

	monthlyReturn := s.AnnualReturn / 100 / 12
	monthlyInflation := s.InflationRate / 100 / 12

	contribution := RequiredContribution(requiredPortfolio, s.InitialInvestment, monthlyReturn, monthsToTarget)
	totalInvested := s.InitialInvestment + contribution*float64(monthsToTarget)

	withdrawalMonths := p.withdrawalMonths()
	capacity := monthsToTarget + 1 + withdrawalMonths
	values := make([]float64, 0, capacity)
	incomes := make([]float64, 0, capacity)
	labels := make([]string, 0, capacity)

	portfolio := s.InitialInvestment
	for month := 0; month <= monthsToTarget; month++ {
		values = append(values, portfolio)
		incomes = append(incomes, portfolio*(s.WithdrawalRate/100)/12)

		if month%labelEvery == 0 || month == monthsToTarget {
			labels = append(labels, p.label(p.now.AddDate(0, month, 0)))
		} else {
			labels = append(labels, "")
		}

		if month < monthsToTarget {
			portfolio += contribution
			portfolio *= 1 + monthlyReturn
		}
	}

	withdrawal := inflationAdjustedIncome
	sustainedMonths := 0
	for month := 1; month <= withdrawalMonths; month++ {
		portfolio *= 1 + monthlyReturn
		withdrawal *= 1 + monthlyInflation
		portfolio = math.Max(0, portfolio-withdrawal)

		values = append(values, portfolio)
		if portfolio > 0 {
			incomes = append(incomes, withdrawal)
		} else {
			incomes = append(incomes, 0)
		}

		if month%labelEvery == 0 || month == withdrawalMonths || portfolio <= 0 {
			labels = append(labels, p.label(p.target.AddDate(0, month, 0)))
		} else {
			labels = append(labels, "")
		}

		if portfolio > 0 {
			sustainedMonths = month
		}
		if portfolio <= 0 {
			break
		}
	}

	return model.InvestmentResult{
		RequiredPortfolio:              money.Round(requiredPortfolio),
		InflationAdjustedIncome:        money.Round(inflationAdjustedIncome),
		MonthsToTarget:                 monthsToTarget,
		YearsToTarget:                  money.Round1(yearsToTarget),
		MonthlyInvestmentNeeded:        money.Round(contribution),
		TotalInvested:                  money.Round(totalInvested),
		InvestmentGrowth:               money.Round(requiredPortfolio - totalInvested),
		PortfolioValueSeries:           money.RoundAll(values),
		MonthlyIncomeSeries:            money.RoundAll(incomes),
		TimeLabelSeries:                labels,
		WithdrawalMonths:               withdrawalMonths,
		ActualSustainabilityMonths:     sustainedMonths,
		ActualSustainabilityYears:      money.Round1(float64(sustainedMonths) / 12),
		IsSustainableForFullProjection: sustainedMonths >= withdrawalMonths,
	}
}

// withdrawalMonths is the decumulation length: the projection period, or for
// age-based plans the projection capped at age 100.
func (p planner) withdrawalMonths() int {
	years := p.scenario.ProjectionYears
	if !p.scenario.Timeline.UsesAge() {
		return max(0, years*12)
	}

	ageAtTarget := ageAt(p.scenario.Timeline.BirthDate, p.target)
	lastAge := min(maxAge, ageAtTarget+years)
	return max(0, (lastAge-ageAtTarget)*12)
}

// label is the age at t for age-based plans, otherwise the calendar year.
func (p planner) label(t time.Time) string {
	if p.scenario.Timeline.UsesAge() {
		return strconv.Itoa(ageAt(p.scenario.Timeline.BirthDate, t))
	}
	return strconv.Itoa(t.Year())
}

// ageAt returns whole years between birth and t, using 365.25-day years.
func ageAt(birth, t time.Time) int {
	days := float64(t.Sub(birth)) / float64(24*time.Hour)
	return int(math.Floor(days / daysPerYear))
}
