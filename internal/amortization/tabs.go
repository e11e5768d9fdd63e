package amortization

import (
	"fmt"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

// Validation messages for deposit entry.
const (
	MsgDepositMonth  = "Deposit month must be greater than 0"
	MsgDepositAmount = "Deposit amount must be greater than 0"
)

// CopySuffix is appended to the title of a duplicated loan.
const CopySuffix = " (Copy)"

// TabAt returns the loan at the 1-based position.
func TabAt(s *model.LoanState, number int) (*model.LoanTab, error) {
	if number < 1 || number > len(s.Tabs) {
		return nil, fmt.Errorf("loan #%d: %w", number, common.ErrNotFound)
	}
	return &s.Tabs[number-1], nil
}

// AddTab appends a loan, titling it "Loan N" when title is empty, and selects it.
func AddTab(s *model.LoanState, tab model.LoanTab) *model.LoanTab {
	if tab.ID == "" {
		tab.ID = model.NewID()
	}
	if tab.Title == "" {
		tab.Title = model.DefaultLoanTitle(len(s.Tabs) + 1)
	}
	if tab.Deposits == nil {
		tab.Deposits = model.Deposits{}
	}
	s.Tabs = append(s.Tabs, tab)
	s.SelectedIndex = model.Number(len(s.Tabs) - 1)
	return &s.Tabs[len(s.Tabs)-1]
}

// DuplicateTab copies the loan at the 1-based position, deposits included,
// and selects the copy.
func DuplicateTab(s *model.LoanState, number int) (*model.LoanTab, error) {
	src, err := TabAt(s, number)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.ID = model.NewID()
	dup.Title = src.Title + CopySuffix
	dup.Deposits = src.Deposits.Clone()
	return AddTab(s, dup), nil
}

// RemoveTab deletes the loan at the 1-based position and keeps the selection in range.
func RemoveTab(s *model.LoanState, number int) error {
	if _, err := TabAt(s, number); err != nil {
		return err
	}
	s.Tabs = append(s.Tabs[:number-1], s.Tabs[number:]...)
	s.SelectedIndex = model.Number(max(0, min(len(s.Tabs)-1, s.SelectedIndex.Int())))
	return nil
}

// SelectTab makes the loan at the 1-based position current.
func SelectTab(s *model.LoanState, number int) error {
	if _, err := TabAt(s, number); err != nil {
		return err
	}
	s.SelectedIndex = model.Number(number - 1)
	return nil
}

// SetDeposit records a lump sum for a month, replacing any earlier one.
func SetDeposit(tab *model.LoanTab, month int, amount float64) error {
	if month <= 0 {
		return common.NewValidationError("month", MsgDepositMonth)
	}
	if !(amount > 0) {
		return common.NewValidationError("amount", MsgDepositAmount)
	}
	if tab.Deposits == nil {
		tab.Deposits = model.Deposits{}
	}
	tab.Deposits[month] = amount
	return nil
}

// RemoveDeposit deletes the lump sum for a month.
func RemoveDeposit(tab *model.LoanTab, month int) error {
	if _, ok := tab.Deposits[month]; !ok {
		return fmt.Errorf("deposit for month %d: %w", month, common.ErrNotFound)
	}
	delete(tab.Deposits, month)
	return nil
}

// Computed pairs a loan with its schedule.
type Computed struct {
	Tab    model.LoanTab
	Result model.LoanResult
}

// ComputeAll runs every loan that has principal, rate and payment filled in.
func ComputeAll(s model.LoanState) []Computed {
	var out []Computed
	for _, tab := range s.Tabs {
		if !tab.Computable() {
			continue
		}
		out = append(out, Computed{Tab: tab, Result: Compute(tab.Scenario())})
	}
	return out
}
