package amortization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

func TestTabOperations(t *testing.T) {
	var s model.LoanState

	first := AddTab(&s, model.LoanTab{Principal: 100000, InterestRate: 6, MonthlyPayment: 600})
	assert.Equal(t, "Loan 1", first.Title)
	assert.NotEmpty(t, first.ID)
	require.NoError(t, SetDeposit(first, 12, 5000))

	AddTab(&s, model.LoanTab{Title: "Car"})
	assert.Equal(t, model.Number(1), s.SelectedIndex)

	dup, err := DuplicateTab(&s, 1)
	require.NoError(t, err)
	assert.Equal(t, "Loan 1 (Copy)", dup.Title)
	assert.NotEqual(t, s.Tabs[0].ID, dup.ID)
	assert.Equal(t, model.Deposits{12: 5000}, dup.Deposits)
	assert.Equal(t, model.Number(2), s.SelectedIndex)

	// The copy's deposits are independent.
	require.NoError(t, SetDeposit(&s.Tabs[2], 24, 100))
	assert.Len(t, s.Tabs[0].Deposits, 1)

	require.NoError(t, RemoveTab(&s, 3))
	assert.Len(t, s.Tabs, 2)
	assert.Equal(t, model.Number(1), s.SelectedIndex)

	require.NoError(t, SelectTab(&s, 1))
	assert.Equal(t, model.Number(0), s.SelectedIndex)
	assert.ErrorIs(t, SelectTab(&s, 3), common.ErrNotFound)
	assert.ErrorIs(t, RemoveTab(&s, 0), common.ErrNotFound)
	_, err = DuplicateTab(&s, 9)
	assert.ErrorIs(t, err, common.ErrNotFound)

	computed := ComputeAll(s)
	require.Len(t, computed, 1)
	assert.Equal(t, "Loan 1", computed[0].Tab.Title)
	assert.True(t, computed[0].Result.PaidOff())
}

func TestDeposits(t *testing.T) {
	tab := model.LoanTab{}

	err := SetDeposit(&tab, 0, 100)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, MsgDepositMonth, common.ValidationMessage(err))

	err = SetDeposit(&tab, 3, 0)
	assert.Equal(t, MsgDepositAmount, common.ValidationMessage(err))

	require.NoError(t, SetDeposit(&tab, 3, 100))
	require.NoError(t, SetDeposit(&tab, 3, 250))
	assert.Equal(t, model.Deposits{3: 250}, tab.Deposits)

	require.NoError(t, RemoveDeposit(&tab, 3))
	assert.ErrorIs(t, RemoveDeposit(&tab, 3), common.ErrNotFound)
}
