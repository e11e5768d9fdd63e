package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// MaxAmortizationMonths caps the payoff simulation.
const MaxAmortizationMonths = 1000

// LoanScenario is the input to the amortization engine.
type LoanScenario struct {
	Deposits       Deposits `json:"deposits"`
	Principal      float64  `json:"principal"`
	AnnualRate     float64  `json:"annualRate"`
	MonthlyPayment float64  `json:"monthlyPayment"`
}

// LoanResult is the payoff schedule of a loan. BalanceSeries starts with the
// opening balance at month 0.
type LoanResult struct {
	BalanceSeries  []float64 `json:"balanceSeries"`
	MonthsToPayoff int       `json:"monthsToPayoff"`
	TotalRepayment float64   `json:"totalRepayment"`
	TotalInterest  float64   `json:"totalInterest"`
}

// PaidOff reports whether the schedule reached a zero balance.
func (r LoanResult) PaidOff() bool {
	return len(r.BalanceSeries) > 0 && r.BalanceSeries[len(r.BalanceSeries)-1] <= 0
}

// Deposits maps a 1-based month to an extra lump-sum payment.
type Deposits map[int]float64

// UnmarshalJSON keeps only positive integer months with positive amounts.
func (d *Deposits) UnmarshalJSON(data []byte) error {
	var raw map[string]Number
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = Deposits{}
		return nil
	}

	out := make(Deposits, len(raw))
	for k, v := range raw {
		month, err := strconv.Atoi(k)
		if err != nil || month <= 0 || v <= 0 {
			continue
		}
		out[month] = v.Float()
	}
	*d = out
	return nil
}

// Months returns the deposit months in ascending order.
func (d Deposits) Months() []int {
	months := make([]int, 0, len(d))
	for m := range d {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// Clone returns an independent copy.
func (d Deposits) Clone() Deposits {
	out := make(Deposits, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// LoanTab is one saved loan in the loan tool.
type LoanTab struct {
	Deposits       Deposits `json:"deposits"`
	ID             ID       `json:"id"`
	Title          string   `json:"title"`
	Principal      Number   `json:"principal"`
	InterestRate   Number   `json:"interestRate"`
	MonthlyPayment Number   `json:"monthlyPayment"`
}

// UnmarshalJSON implements json.Unmarshaler. The title decodes leniently so
// one odd value does not discard the saved tab.
func (t *LoanTab) UnmarshalJSON(data []byte) error {
	type plain LoanTab
	doc := struct {
		*plain
		Title Text `json:"title"`
	}{plain: (*plain)(t), Title: Text(t.Title)}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	t.Title = string(doc.Title)
	return nil
}

// Scenario converts the tab into engine input.
func (t LoanTab) Scenario() LoanScenario {
	return LoanScenario{
		Principal:      t.Principal.Float(),
		AnnualRate:     t.InterestRate.Float(),
		MonthlyPayment: t.MonthlyPayment.Float(),
		Deposits:       t.Deposits,
	}
}

// Computable reports whether all required loan fields are filled in.
// Incomplete loans are shown but not simulated.
func (t LoanTab) Computable() bool {
	return t.Principal != 0 && t.InterestRate != 0 && t.MonthlyPayment != 0
}

// LoanState is the persisted loan tool document.
type LoanState struct {
	Tabs          []LoanTab `json:"tabs"`
	SelectedIndex Number    `json:"selectedIndex"`
}

// DefaultLoanTitle names the n-th loan (1-based).
func DefaultLoanTitle(n int) string {
	return fmt.Sprintf("Loan %d", n)
}
