package model

import "encoding/json"

// CustomExpenseName replaces an empty custom expense name.
const CustomExpenseName = "Custom"

// FixedExpense is a recurring expense with a known amount.
type FixedExpense struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Amount Number `json:"amount"`
}

// UnmarshalJSON implements json.Unmarshaler. Name and Detail decode leniently.
func (e *FixedExpense) UnmarshalJSON(data []byte) error {
	type plain FixedExpense
	doc := struct {
		*plain
		Name   Text `json:"name"`
		Detail Text `json:"detail"`
	}{plain: (*plain)(e), Name: Text(e.Name), Detail: Text(e.Detail)}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	e.Name, e.Detail = string(doc.Name), string(doc.Detail)
	return nil
}

// VariableExpense is a recurring expense that moves within a range.
type VariableExpense struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Min    Number `json:"min"`
	Max    Number `json:"max"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *VariableExpense) UnmarshalJSON(data []byte) error {
	type plain VariableExpense
	doc := struct {
		*plain
		Name   Text `json:"name"`
		Detail Text `json:"detail"`
	}{plain: (*plain)(e), Name: Text(e.Name), Detail: Text(e.Detail)}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	e.Name, e.Detail = string(doc.Name), string(doc.Detail)
	return nil
}

// UnplannedExpense is a monthly allowance for irregular costs.
type UnplannedExpense struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Amount Number `json:"amount"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *UnplannedExpense) UnmarshalJSON(data []byte) error {
	type plain UnplannedExpense
	doc := struct {
		*plain
		Name   Text `json:"name"`
		Detail Text `json:"detail"`
	}{plain: (*plain)(e), Name: Text(e.Name), Detail: Text(e.Detail)}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	e.Name, e.Detail = string(doc.Name), string(doc.Detail)
	return nil
}

// BudgetState is the persisted budget estimator document.
type BudgetState struct {
	Fixed     []FixedExpense     `json:"fixed"`
	Variable  []VariableExpense  `json:"variable"`
	Unplanned []UnplannedExpense `json:"unplanned"`
	Income    Number             `json:"income"`
}

// BudgetTotals are the monthly sums of a budget and its best/worst leftover.
type BudgetTotals struct {
	Income        float64 `json:"income"`
	SumFixed      float64 `json:"sumFixed"`
	SumVarMin     float64 `json:"sumVarMin"`
	SumVarMax     float64 `json:"sumVarMax"`
	SumUnplanned  float64 `json:"sumUnp"`
	LeftoverBest  float64 `json:"leftoverBest"`
	LeftoverWorst float64 `json:"leftoverWorst"`
}
