package budget

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/service"
)

// DefaultLoanTitle names a saved loan that has no title.
const DefaultLoanTitle = "Loan"

// ComputeContext reads the loan, target and planner documents and combines
// them with the budget totals. Missing or malformed documents count as zero;
// this never fails.
func ComputeContext(ctx context.Context, r service.Reader, totals model.BudgetTotals, f *money.Formatter) model.CrossToolContext {
	loans := ReadLoanCommitments(ctx, r)
	need := max(ReadTargetMonthly(ctx, r), ReadPlannerMonthly(ctx, r))

	c := model.CrossToolContext{
		Income:                totals.Income,
		Budget:                totals,
		Loans:                 loans,
		Investments:           model.InvestmentCommitments{MonthlyNeeded: need},
		AfterCommitmentsBest:  totals.LeftoverBest - loans.TotalMonthly - need,
		AfterCommitmentsWorst: totals.LeftoverWorst - loans.TotalMonthly - need,
		Allocations:           Allocate(totals.LeftoverBest, loans.Items, need),
	}
	c.Suggestions = Suggest(c, f)
	return c
}

// Snapshot builds the summary document written after each recalculation.
func Snapshot(c model.CrossToolContext, now time.Time) model.BudgetSummary {
	suggestions := c.Suggestions
	if len(suggestions) > model.MaxSummarySuggestions {
		suggestions = suggestions[:model.MaxSummarySuggestions]
	}
	return model.BudgetSummary{
		Version:               model.BudgetSummaryVersion,
		UpdatedAt:             now.UnixMilli(),
		Income:                c.Income,
		Budget:                c.Budget,
		Loans:                 c.Loans,
		Investments:           c.Investments,
		AfterCommitmentsBest:  c.AfterCommitmentsBest,
		AfterCommitmentsWorst: c.AfterCommitmentsWorst,
		Allocations:           c.Allocations,
		Suggestions:           suggestions,
	}
}

// readObject loads a document as a generic JSON object, or nil.
func readObject(ctx context.Context, r service.Reader, key string) map[string]any {
	raw, err := r.Get(ctx, key)
	if err != nil {
		common.LogDebug("cross-tool document unavailable", common.Fields{"key": key, "error": err.Error()})
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		common.LogDebug("ignoring malformed cross-tool document", common.Fields{"key": key, "error": err.Error()})
		return nil
	}
	return doc
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// ReadLoanCommitments lists every saved loan tab with its monthly payment.
func ReadLoanCommitments(ctx context.Context, r service.Reader) model.LoanCommitments {
	out := model.LoanCommitments{Items: []model.LoanItem{}}
	tabs, ok := readObject(ctx, r, service.KeyLoans)["tabs"].([]any)
	if !ok {
		return out
	}
	for _, t := range tabs {
		tab := asObject(t)
		title := string(model.TextOf(tab["title"]))
		if title == "" {
			title = DefaultLoanTitle
		}
		item := model.LoanItem{Title: title, MonthlyPayment: model.NumberOf(tab["monthlyPayment"]).Float()}
		out.Items = append(out.Items, item)
		out.TotalMonthly += item.MonthlyPayment
	}
	return out
}

// ReadTargetMonthly returns the active target scenario's saved monthly
// investment need. An out-of-range index is clamped; a fractional one names
// no scenario and reads as zero.
func ReadTargetMonthly(ctx context.Context, r service.Reader) float64 {
	doc := readObject(ctx, r, service.KeyTarget)
	scenarios, ok := doc["scenarios"].([]any)
	if !ok || len(scenarios) == 0 {
		return 0
	}
	idx := 0
	if active, isNum := doc["activeIndex"].(float64); isNum {
		if active != math.Trunc(active) {
			return 0
		}
		idx = min(max(0, int(active)), len(scenarios)-1)
	}
	result := asObject(asObject(scenarios[idx])["result"])
	return model.NumberOf(result["monthlyInvestmentNeeded"]).Float()
}

// ReadPlannerMonthly sums the planner's monthly recurring contributions.
func ReadPlannerMonthly(ctx context.Context, r service.Reader) float64 {
	rules, ok := readObject(ctx, r, service.KeyPlanner)["rules"].([]any)
	if !ok {
		return 0
	}
	var sum float64
	for _, v := range rules {
		rule := asObject(v)
		if rule["type"] == model.RuleTypeRecurring && rule["frequency"] == string(model.Monthly) {
			sum += model.NumberOf(rule["amount"]).Float()
		}
	}
	return sum
}
