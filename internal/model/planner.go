package model

import "encoding/json"

// PlannerState is both the planner tool document and the input to the
// contribution-schedule engine. Rates are percentages.
type PlannerState struct {
	Rules              Rules  `json:"rules"`
	InitialInvestment  Number `json:"initialInvestment"`
	AnnualReturn       Number `json:"annualReturn"`
	InflationRate      Number `json:"inflationRate"`
	ProjectionYears    Number `json:"projectionYears"`
	AdjustForInflation bool   `json:"adjustForInflation"`
}

// UnmarshalJSON implements json.Unmarshaler. AdjustForInflation is read by
// truthiness.
func (s *PlannerState) UnmarshalJSON(data []byte) error {
	type plain PlannerState
	doc := struct {
		*plain
		AdjustForInflation Flag `json:"adjustForInflation"`
	}{plain: (*plain)(s), AdjustForInflation: Flag(s.AdjustForInflation)}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.AdjustForInflation = bool(doc.AdjustForInflation)
	return nil
}

// PlannerResult holds the per-month nominal simulation. All series have one
// entry per projected month.
type PlannerResult struct {
	PortfolioValueSeries            []float64 `json:"portfolioValues"`
	CumulativeContributionSeries    []float64 `json:"cumulativeContributions"`
	CumulativeInflationFactorSeries []float64 `json:"cumulativeInflation"`
	MonthlyContributions            []float64 `json:"monthlyContributions"`
}

// Months returns the projection length.
func (r PlannerResult) Months() int {
	return len(r.PortfolioValueSeries)
}

// PlannerSummary is the headline view of a simulation in nominal or real terms.
type PlannerSummary struct {
	ValueSeries        []float64 `json:"valueSeries"`
	ContributionSeries []float64 `json:"contributionSeries"`
	EndingValue        float64   `json:"endingValue"`
	TotalContributions float64   `json:"totalContributions"`
	TotalGrowth        float64   `json:"totalGrowth"`
	Real               bool      `json:"real"`
}
