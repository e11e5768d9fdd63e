package model

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in persisted documents.
const DateLayout = "2006-01-02"

// Timeline says when the income goal should be reached: either a target date,
// or a birth date plus the age at which the goal applies.
type Timeline struct {
	TargetDate time.Time
	BirthDate  time.Time
	TargetAge  int
}

// ByDate builds a date-based timeline.
func ByDate(target time.Time) Timeline {
	return Timeline{TargetDate: target}
}

// ByAge builds an age-based timeline.
func ByAge(birth time.Time, targetAge int) Timeline {
	return Timeline{BirthDate: birth, TargetAge: targetAge}
}

// UsesAge reports whether the timeline is age-based.
func (t Timeline) UsesAge() bool {
	return !t.BirthDate.IsZero()
}

// Target resolves the goal date. Age-based targets land on the birthday in
// the target year, as a UTC calendar date.
func (t Timeline) Target() (time.Time, bool) {
	if t.UsesAge() {
		b := t.BirthDate.UTC()
		return time.Date(b.Year()+t.TargetAge, b.Month(), b.Day(), 0, 0, 0, 0, time.UTC), true
	}
	if t.TargetDate.IsZero() {
		return time.Time{}, false
	}
	return t.TargetDate, true
}

// InvestmentScenario is the input to the target-portfolio engine. Rates are percentages.
type InvestmentScenario struct {
	Timeline            Timeline
	TargetMonthlyIncome float64
	AnnualReturn        float64
	InitialInvestment   float64
	WithdrawalRate      float64
	InflationRate       float64
	ProjectionYears     int
}

// InvestmentResult is the target-portfolio plan. Money values are whole units.
// The three series run in parallel over the accumulation months (including
// month 0) followed by the withdrawal months.
type InvestmentResult struct {
	PortfolioValueSeries           []float64 `json:"portfolioValues"`
	MonthlyIncomeSeries            []float64 `json:"monthlyIncomes"`
	TimeLabelSeries                []string  `json:"timeLabels"`
	RequiredPortfolio              float64   `json:"requiredPortfolio"`
	InflationAdjustedIncome        float64   `json:"inflationAdjustedIncome"`
	MonthlyInvestmentNeeded        float64   `json:"monthlyInvestmentNeeded"`
	TotalInvested                  float64   `json:"totalInvested"`
	InvestmentGrowth               float64   `json:"investmentGrowth"`
	YearsToTarget                  float64   `json:"yearsToTarget"`
	ActualSustainabilityYears      float64   `json:"actualSustainabilityYears"`
	MonthsToTarget                 int       `json:"monthsToTarget"`
	WithdrawalMonths               int       `json:"withdrawalMonths"`
	ActualSustainabilityMonths     int       `json:"withdrawalPhaseLength"`
	IsSustainableForFullProjection bool      `json:"portfolioSustainable"`
}

// Summary extracts the fields cached alongside a saved scenario.
func (r InvestmentResult) Summary() *TargetResultSummary {
	return &TargetResultSummary{
		RequiredPortfolio:       Number(r.RequiredPortfolio),
		MonthlyInvestmentNeeded: Number(r.MonthlyInvestmentNeeded),
		InflationAdjustedIncome: Number(r.InflationAdjustedIncome),
		YearsToTarget:           Number(r.YearsToTarget),
	}
}

// TargetResultSummary is the cached result of the last successful calculation.
type TargetResultSummary struct {
	RequiredPortfolio       Number `json:"requiredPortfolio"`
	MonthlyInvestmentNeeded Number `json:"monthlyInvestmentNeeded"`
	InflationAdjustedIncome Number `json:"inflationAdjustedIncome"`
	YearsToTarget           Number `json:"yearsToTarget"`
}

// TargetScenario is one saved scenario of the target tool. When BirthDate is
// set the scenario is age-based and TargetDate is informational.
type TargetScenario struct {
	Result            *TargetResultSummary `json:"result,omitempty"`
	ID                ID                   `json:"id"`
	Name              string               `json:"name"`
	TargetDate        string               `json:"targetDate,omitempty"`
	BirthDate         string               `json:"birthDate,omitempty"`
	TargetIncome      Number               `json:"targetIncome"`
	TargetAge         Number               `json:"targetAge,omitempty"`
	AnnualReturn      Number               `json:"annualReturn"`
	InitialInvestment Number               `json:"initialInvestment"`
	WithdrawalRate    Number               `json:"withdrawalRate"`
	InflationRate     Number               `json:"inflationRate"`
	ProjectionYears   Number               `json:"projectionYears"`
}

// Fallbacks for a target scenario that leaves the age or projection unset.
const (
	DefaultTargetAge       = 65
	DefaultProjectionYears = 50
)

// UnmarshalJSON implements json.Unmarshaler. Name and dates decode leniently.
func (s *TargetScenario) UnmarshalJSON(data []byte) error {
	type plain TargetScenario
	doc := struct {
		*plain
		Name       Text `json:"name"`
		TargetDate Text `json:"targetDate"`
		BirthDate  Text `json:"birthDate"`
	}{
		plain:      (*plain)(s),
		Name:       Text(s.Name),
		TargetDate: Text(s.TargetDate),
		BirthDate:  Text(s.BirthDate),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.Name = string(doc.Name)
	s.TargetDate = string(doc.TargetDate)
	s.BirthDate = string(doc.BirthDate)
	return nil
}

// Scenario converts the saved scenario into engine input. Unparseable dates
// leave the timeline unresolved, which the engine reports as a validation error.
// A zero target age or projection falls back to DefaultTargetAge and
// DefaultProjectionYears.
func (s TargetScenario) Scenario() InvestmentScenario {
	var tl Timeline
	if birth, ok := ParseDate(s.BirthDate); ok {
		age := s.TargetAge.Int()
		if age == 0 {
			age = DefaultTargetAge
		}
		tl = ByAge(birth, age)
	} else if target, ok := ParseDate(s.TargetDate); ok {
		tl = ByDate(target)
	}

	years := s.ProjectionYears.Int()
	if years == 0 {
		years = DefaultProjectionYears
	}

	return InvestmentScenario{
		Timeline:            tl,
		TargetMonthlyIncome: s.TargetIncome.Float(),
		AnnualReturn:        s.AnnualReturn.Float(),
		InitialInvestment:   s.InitialInvestment.Float(),
		WithdrawalRate:      s.WithdrawalRate.Float(),
		InflationRate:       s.InflationRate.Float(),
		ProjectionYears:     years,
	}
}

// TargetStateVersion is the current target document version.
const TargetStateVersion = 1

// TargetState is the persisted target tool document.
type TargetState struct {
	Scenarios   []TargetScenario `json:"scenarios"`
	Version     Number           `json:"version"`
	ActiveIndex Number           `json:"activeIndex"`
}

// Active returns the active scenario index clamped into range, or -1 when empty.
func (s TargetState) Active() int {
	if len(s.Scenarios) == 0 {
		return -1
	}
	idx := s.ActiveIndex.Int()
	if idx < 0 {
		return 0
	}
	if idx >= len(s.Scenarios) {
		return len(s.Scenarios) - 1
	}
	return idx
}

// ParseDate parses a calendar date (or RFC 3339 timestamp) as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// FormatDate renders a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
