package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/amortization"
	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/state"
	"github.com/Veraticus/finlens/internal/tui"
	"github.com/Veraticus/finlens/internal/tui/themes"
)

func loanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan payoff schedules",
		Long: `Track loans and see when each one is paid off.

A loan is simulated once its principal, interest rate and monthly payment are
all filled in. Extra lump-sum deposits shorten the schedule.`,
		RunE: a.runLoanList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List loans with their payoff summary",
		Args:  cobra.NoArgs,
		RunE:  a.runLoanList,
	})

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a loan and select it",
		Args:  cobra.NoArgs,
		RunE:  a.runLoanAdd,
	}
	loanFieldFlags(addCmd)
	cmd.AddCommand(addCmd)

	setCmd := &cobra.Command{
		Use:   "set <loan>",
		Short: "Change a loan's fields",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runLoanSet,
	}
	loanFieldFlags(setCmd)
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "duplicate [loan]",
		Short: "Copy a loan (the selected one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runLoanDuplicate,
	})

	removeCmd := &cobra.Command{
		Use:   "remove <loan>",
		Short: "Delete a loan",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runLoanRemove,
	}
	removeCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	cmd.AddCommand(removeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "select <loan>",
		Short: "Select a loan",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runLoanSelect,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [loan]",
		Short: "Show a loan's schedule year by year (the selected one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runLoanShow,
	})

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Manage extra lump-sum payments",
	}
	depositCmd.AddCommand(&cobra.Command{
		Use:   "add <loan> <month> <amount>",
		Short: "Pay an extra amount in a month (replaces an earlier deposit that month)",
		Args:  cobra.ExactArgs(3),
		RunE:  a.runDepositAdd,
	})
	depositCmd.AddCommand(&cobra.Command{
		Use:   "remove <loan> <month>",
		Short: "Remove the deposit of a month",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runDepositRemove,
	})
	cmd.AddCommand(depositCmd)

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Browse every loan's balance month by month",
		Args:  cobra.NoArgs,
		RunE:  a.runLoanView,
	}
	viewCmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.AddCommand(viewCmd)

	return cmd
}

func loanFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "loan name")
	cmd.Flags().Float64("principal", 0, "amount still owed")
	cmd.Flags().Float64("rate", 0, "annual interest rate in percent")
	cmd.Flags().Float64("payment", 0, "monthly payment")
}

func applyLoanFlags(cmd *cobra.Command, tab *model.LoanTab) {
	stringFlag(cmd, "title", &tab.Title)
	numberFlag(cmd, "principal", &tab.Principal)
	numberFlag(cmd, "rate", &tab.InterestRate)
	numberFlag(cmd, "payment", &tab.MonthlyPayment)
}

func (a *app) runLoanList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)
	f := money.ForProfile(m.Profile(ctx))
	out := cmd.OutOrStdout()

	writeLine(out, cli.FormatTitle("Loans"))
	tbl := cli.NewTable(out, "", "#", "Loan", "Principal", "Rate", "Payment", "Payoff", "Total repaid", "Interest", "Balance")
	for i, tab := range s.Tabs {
		marker := ""
		if i == s.SelectedIndex.Int() {
			marker = "*"
		}
		row := []string{
			marker,
			fmt.Sprint(i + 1),
			tab.Title,
			f.Currency(tab.Principal.Float()),
			percent(tab.InterestRate.Float()),
			f.Currency(tab.MonthlyPayment.Float()),
		}
		if !tab.Computable() {
			row = append(row, cli.SubtleStyle.Render("incomplete"), "", "", "")
		} else {
			r := amortization.Compute(tab.Scenario())
			row = append(row,
				payoffText(r),
				f.Currency(r.TotalRepayment),
				f.Currency(r.TotalInterest),
				cli.RenderSparkline(r.BalanceSeries, sparkWidth),
			)
		}
		tbl.Row(row...)
	}
	return tbl.Flush()
}

// payoffText is "N months (Y years, M months)", or a warning when the
// payment never clears the balance.
func payoffText(r model.LoanResult) string {
	if !r.PaidOff() {
		return cli.WarningStyle.Render(fmt.Sprintf("not paid off in %d months", r.MonthsToPayoff))
	}
	years, months := amortization.YearsMonths(r.MonthsToPayoff)
	return fmt.Sprintf("%d months (%d years, %d months)", r.MonthsToPayoff, years, months)
}

func (a *app) runLoanAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)

	tab := state.NewLoanTab(len(s.Tabs) + 1)
	applyLoanFlags(cmd, &tab)
	added := amortization.AddTab(&s, tab)
	m.SaveLoans(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added loan #%d %q", len(s.Tabs), added.Title)))
	return nil
}

func (a *app) runLoanSet(cmd *cobra.Command, args []string) error {
	return a.editLoan(cmd, args[0], func(_ io.Writer, tab *model.LoanTab) error {
		applyLoanFlags(cmd, tab)
		return nil
	})
}

// editLoan loads the loans, applies edit to the numbered loan and saves.
func (a *app) editLoan(cmd *cobra.Command, arg string, edit func(io.Writer, *model.LoanTab) error) error {
	ctx := cmd.Context()
	number, err := parseIndex(arg, "loan")
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)
	tab, err := amortization.TabAt(&s, number)
	if err != nil {
		return err
	}
	if err := edit(cmd.OutOrStdout(), tab); err != nil {
		return userFacing(err)
	}
	m.SaveLoans(ctx, s)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated loan #%d %q", number, tab.Title)))
	return nil
}

func (a *app) runLoanDuplicate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)

	number := s.SelectedIndex.Int() + 1
	if len(args) == 1 {
		if number, err = parseIndex(args[0], "loan"); err != nil {
			return err
		}
	}
	dup, err := amortization.DuplicateTab(&s, number)
	if err != nil {
		return err
	}
	m.SaveLoans(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added loan #%d %q", len(s.Tabs), dup.Title)))
	return nil
}

func (a *app) runLoanRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	number, err := parseIndex(args[0], "loan")
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)
	tab, err := amortization.TabAt(&s, number)
	if err != nil {
		return err
	}
	title := tab.Title

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		ok, err := p.Confirm(ctx, fmt.Sprintf("Remove loan #%d %q?", number, title))
		if err != nil {
			return err
		}
		if !ok {
			writeLine(cmd.OutOrStdout(), cli.FormatInfo("Kept loan"))
			return nil
		}
	}

	if err := amortization.RemoveTab(&s, number); err != nil {
		return err
	}
	m.SaveLoans(ctx, s)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed loan %q", title)))
	return nil
}

func (a *app) runLoanSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	number, err := parseIndex(args[0], "loan")
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)
	if err := amortization.SelectTab(&s, number); err != nil {
		return err
	}
	m.SaveLoans(ctx, s)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Selected loan #%d %q", number, s.Tabs[number-1].Title)))
	return nil
}

func (a *app) runLoanShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Loans(ctx)
	f := money.ForProfile(m.Profile(ctx))
	out := cmd.OutOrStdout()

	number := s.SelectedIndex.Int() + 1
	if len(args) == 1 {
		if number, err = parseIndex(args[0], "loan"); err != nil {
			return err
		}
	}
	tab, err := amortization.TabAt(&s, number)
	if err != nil {
		return err
	}

	writeLine(out, cli.FormatTitle(fmt.Sprintf("Loan #%d %s", number, tab.Title)))
	writef(out, "Principal %s at %s, paying %s a month\n",
		f.Currency(tab.Principal.Float()), percent(tab.InterestRate.Float()), f.Currency(tab.MonthlyPayment.Float()))
	for _, month := range tab.Deposits.Months() {
		writef(out, "  extra %s in month %d\n", f.Currency(tab.Deposits[month]), month)
	}
	if !tab.Computable() {
		writeLine(out, cli.FormatInfo("Enter principal, rate and payment to see the schedule."))
		return nil
	}

	r := amortization.Compute(tab.Scenario())
	writef(out, "Payoff: %s\nTotal repaid: %s\nTotal interest: %s\n\n",
		payoffText(r), f.Currency(r.TotalRepayment), f.Currency(r.TotalInterest))

	tbl := cli.NewTable(out, "Year", "Month", "Balance")
	for month := 0; month < len(r.BalanceSeries); month += 12 {
		tbl.Row(fmt.Sprint(month/12), fmt.Sprint(month), f.Currency(r.BalanceSeries[month]))
	}
	if last := len(r.BalanceSeries) - 1; last%12 != 0 {
		tbl.Row("", fmt.Sprint(last), f.Currency(r.BalanceSeries[last]))
	}
	return tbl.Flush()
}

func (a *app) runDepositAdd(cmd *cobra.Command, args []string) error {
	month, err := parseIndex(args[1], "month")
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[2], "amount")
	if err != nil {
		return err
	}
	return a.editLoan(cmd, args[0], func(_ io.Writer, tab *model.LoanTab) error {
		return amortization.SetDeposit(tab, month, amount)
	})
}

func (a *app) runDepositRemove(cmd *cobra.Command, args []string) error {
	month, err := parseIndex(args[1], "month")
	if err != nil {
		return err
	}
	return a.editLoan(cmd, args[0], func(_ io.Writer, tab *model.LoanTab) error {
		return amortization.RemoveDeposit(tab, month)
	})
}

func (a *app) runLoanView(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	computed := amortization.ComputeAll(m.Loans(ctx))
	if len(computed) == 0 {
		writeLine(cmd.OutOrStdout(), cli.FormatInfo("No complete loans to show yet."))
		return nil
	}
	f := money.ForProfile(m.Profile(ctx))
	theme, _ := cmd.Flags().GetString("theme")
	return tui.Run(ctx, []tui.Series{tui.LoanSchedules(computed, f)}, tui.WithTheme(themes.GetTheme(theme)))
}
