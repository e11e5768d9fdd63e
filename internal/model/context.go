package model

// LoanItem is a loan as seen by the budget estimator.
type LoanItem struct {
	Title          string  `json:"title"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// LoanCommitments summarises monthly loan payments across all saved loans.
type LoanCommitments struct {
	Items        []LoanItem `json:"items"`
	TotalMonthly float64    `json:"totalMonthly"`
}

// InvestmentCommitments is the monthly amount the investment tools ask for.
type InvestmentCommitments struct {
	MonthlyNeeded float64 `json:"monthlyNeeded"`
}

// LoanExtra is a proposed top-up for one loan.
type LoanExtra struct {
	Title string  `json:"title"`
	Extra float64 `json:"extra"`
}

// Allocations splits the best-case leftover between investing and loan top-ups.
type Allocations struct {
	PerLoanExtras     []LoanExtra `json:"perLoanExtras"`
	ToInvest          float64     `json:"toInvest"`
	ToLoansExtraTotal float64     `json:"toLoansExtraTotal"`
}

// CrossToolContext combines the budget with the other tools' saved results.
type CrossToolContext struct {
	Loans                 LoanCommitments       `json:"loans"`
	Suggestions           []string              `json:"suggestions"`
	Allocations           Allocations           `json:"allocations"`
	Budget                BudgetTotals          `json:"budget"`
	Investments           InvestmentCommitments `json:"investments"`
	Income                float64               `json:"income"`
	AfterCommitmentsBest  float64               `json:"afterCommitmentsBest"`
	AfterCommitmentsWorst float64               `json:"afterCommitmentsWorst"`
}

// BudgetSummaryVersion is the current summary snapshot version.
const BudgetSummaryVersion = 1

// MaxSummarySuggestions caps the suggestions stored in a summary snapshot.
const MaxSummarySuggestions = 8

// BudgetSummary is the informational snapshot written after each budget recalculation.
type BudgetSummary struct {
	Loans                 LoanCommitments       `json:"loans"`
	Suggestions           []string              `json:"suggestions"`
	Allocations           Allocations           `json:"allocations"`
	Budget                BudgetTotals          `json:"budget"`
	Investments           InvestmentCommitments `json:"investments"`
	Version               int                   `json:"version"`
	UpdatedAt             int64                 `json:"updatedAt"`
	Income                float64               `json:"income"`
	AfterCommitmentsBest  float64               `json:"afterCommitmentsBest"`
	AfterCommitmentsWorst float64               `json:"afterCommitmentsWorst"`
}
