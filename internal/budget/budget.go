// Package budget computes monthly budget totals and combines them with the
// loan and investment tools' saved results into affordability figures and
// allocation suggestions.
package budget

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

// Kind selects one of the three expense lists.
type Kind string

// Expense kinds.
const (
	KindFixed     Kind = "fixed"
	KindVariable  Kind = "variable"
	KindUnplanned Kind = "unplanned"
)

// ParseKind validates an expense kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindFixed, KindVariable, KindUnplanned:
		return k, nil
	default:
		return "", common.NewValidationError("kind",
			fmt.Sprintf("unknown expense kind %q (want fixed, variable or unplanned)", s))
	}
}

// Validation messages for expense entry.
const (
	MsgAmountNotPositive = "Amount must be greater than 0"
	MsgRangeNegative     = "Minimum and maximum must not be negative"
)

// Totals sums a budget and derives the best-case (variable at minimum) and
// worst-case (variable at maximum) leftover.
func Totals(b model.BudgetState) model.BudgetTotals {
	t := model.BudgetTotals{Income: b.Income.Float()}
	for _, e := range b.Fixed {
		t.SumFixed += e.Amount.Float()
	}
	for _, e := range b.Variable {
		t.SumVarMin += e.Min.Float()
		t.SumVarMax += e.Max.Float()
	}
	for _, e := range b.Unplanned {
		t.SumUnplanned += e.Amount.Float()
	}
	t.LeftoverBest = t.Income - (t.SumFixed + t.SumVarMin + t.SumUnplanned)
	t.LeftoverWorst = t.Income - (t.SumFixed + t.SumVarMax + t.SumUnplanned)
	return t
}

func expenseName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return model.CustomExpenseName
	}
	return name
}

// AddFixed appends a fixed expense. The amount must be positive.
func AddFixed(b *model.BudgetState, name, detail string, amount float64) (model.FixedExpense, error) {
	if !(amount > 0) {
		return model.FixedExpense{}, common.NewValidationError("amount", MsgAmountNotPositive)
	}
	e := model.FixedExpense{
		ID:     model.NewID(),
		Name:   expenseName(name),
		Detail: strings.TrimSpace(detail),
		Amount: model.Number(amount),
	}
	b.Fixed = append(b.Fixed, e)
	return e, nil
}

// AddVariable appends a variable expense. The stored maximum is never below
// the minimum.
func AddVariable(b *model.BudgetState, name, detail string, lo, hi float64) (model.VariableExpense, error) {
	if lo < 0 || hi < 0 {
		return model.VariableExpense{}, common.NewValidationError("range", MsgRangeNegative)
	}
	e := model.VariableExpense{
		ID:     model.NewID(),
		Name:   expenseName(name),
		Detail: strings.TrimSpace(detail),
		Min:    model.Number(lo),
		Max:    model.Number(max(lo, hi)),
	}
	b.Variable = append(b.Variable, e)
	return e, nil
}

// AddUnplanned appends an unplanned-cost allowance. The amount must be positive.
func AddUnplanned(b *model.BudgetState, name, detail string, amount float64) (model.UnplannedExpense, error) {
	if !(amount > 0) {
		return model.UnplannedExpense{}, common.NewValidationError("amount", MsgAmountNotPositive)
	}
	e := model.UnplannedExpense{
		ID:     model.NewID(),
		Name:   expenseName(name),
		Detail: strings.TrimSpace(detail),
		Amount: model.Number(amount),
	}
	b.Unplanned = append(b.Unplanned, e)
	return e, nil
}

// Remove deletes the expense at the 1-based position in the given list.
func Remove(b *model.BudgetState, kind Kind, number int) error {
	idx := number - 1
	var n int
	switch kind {
	case KindFixed:
		n = len(b.Fixed)
	case KindVariable:
		n = len(b.Variable)
	case KindUnplanned:
		n = len(b.Unplanned)
	default:
		return common.NewValidationError("kind", fmt.Sprintf("unknown expense kind %q", kind))
	}
	if idx < 0 || idx >= n {
		return fmt.Errorf("%s expense #%d: %w", kind, number, common.ErrNotFound)
	}

	switch kind {
	case KindFixed:
		b.Fixed = append(b.Fixed[:idx], b.Fixed[idx+1:]...)
	case KindVariable:
		b.Variable = append(b.Variable[:idx], b.Variable[idx+1:]...)
	case KindUnplanned:
		b.Unplanned = append(b.Unplanned[:idx], b.Unplanned[idx+1:]...)
	}
	return nil
}
