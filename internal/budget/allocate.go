package budget

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
)

const (
	// roundingStep is the payment multiple loan top-ups round up to.
	roundingStep = 50
	// namedTopUps is how many loan top-ups are suggested by name.
	namedTopUps = 3
)

// Allocate splits a positive best-case leftover: the investment need is
// covered first, then each loan's payment is rounded up to the next multiple
// of 50 (or topped up by a flat 50 when already a multiple), largest payment
// first, until the leftover runs out. Loans with equal payments keep their
// saved order.
func Allocate(leftoverBest float64, loans []model.LoanItem, investNeed float64) model.Allocations {
	alloc := model.Allocations{PerLoanExtras: []model.LoanExtra{}}
	if !(leftoverBest > 0) {
		return alloc
	}

	toInvest := min(leftoverBest, max(0, investNeed))
	remaining := leftoverBest - toInvest

	ordered := make([]model.LoanItem, len(loans))
	copy(ordered, loans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MonthlyPayment > ordered[j].MonthlyPayment
	})

	for _, loan := range ordered {
		if remaining <= 0 {
			break
		}
		current := loan.MonthlyPayment
		extra := max(0, math.Ceil(current/roundingStep)*roundingStep-current)
		if extra == 0 {
			extra = roundingStep
		}
		applied := min(extra, remaining)
		if applied > 0 {
			alloc.PerLoanExtras = append(alloc.PerLoanExtras, model.LoanExtra{Title: loan.Title, Extra: applied})
			alloc.ToLoansExtraTotal += applied
			remaining -= applied
		}
	}

	alloc.ToInvest = toInvest
	return alloc
}

// Suggestion used when no other rule fires.
const NoSuggestions = "No suggestions available yet. Start by entering income and expenses."

// Suggest renders the ordered suggestion list for a computed context.
func Suggest(c model.CrossToolContext, f *money.Formatter) []string {
	var msgs []string

	if c.Loans.TotalMonthly > 0 {
		msgs = append(msgs, fmt.Sprintf("Loans: current monthly payments %s across %d loan(s).",
			f.Currency(c.Loans.TotalMonthly), len(c.Loans.Items)))
	}
	if c.Investments.MonthlyNeeded > 0 {
		msgs = append(msgs, fmt.Sprintf("Investments: to hit your target, set aside about %s monthly.",
			f.Currency(c.Investments.MonthlyNeeded)))
	}
	if c.Allocations.ToInvest > 0 {
		msgs = append(msgs, fmt.Sprintf("Allocate %s to investments this month.", f.Currency(c.Allocations.ToInvest)))
	}
	for i, extra := range c.Allocations.PerLoanExtras {
		if i == namedTopUps {
			msgs = append(msgs, fmt.Sprintf("And %d more loan(s) with smaller top-ups.", len(c.Allocations.PerLoanExtras)-namedTopUps))
			break
		}
		msgs = append(msgs, fmt.Sprintf("Add %s to \"%s\" this month.", f.Currency(extra.Extra), extra.Title))
	}
	if c.Budget.LeftoverBest < 0 {
		msgs = append(msgs, fmt.Sprintf("Shortfall (best-case): %s. Consider trimming variable/unplanned expenses.",
			f.Currency(math.Abs(c.Budget.LeftoverBest))))
	}
	if c.AfterCommitmentsBest < 0 {
		msgs = append(msgs, fmt.Sprintf("After loans/investments, shortfall (best-case) is %s. Reduce spend or adjust goals.",
			f.Currency(math.Abs(c.AfterCommitmentsBest))))
	}

	if len(msgs) == 0 {
		msgs = append(msgs, NoSuggestions)
	}
	return msgs
}
