package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/budget"
	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/ofx"
	"github.com/Veraticus/finlens/internal/state"
)

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Monthly budget and what is left for loans and investing",
		Long: `Estimate a monthly budget from fixed, variable and unplanned expenses, and
combine it with your saved loans and investment goals.

Every change recalculates the summary the other tools and the report use.`,
		Args: cobra.NoArgs,
		RunE: a.runBudgetShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the budget, commitments and suggestions",
		Args:  cobra.NoArgs,
		RunE:  a.runBudgetShow,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "income <amount>",
		Short: "Set the monthly income",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runBudgetIncome,
	})

	addCmd := &cobra.Command{
		Use:   "add <fixed|unplanned> <name> <amount> | add variable <name> <min> <max>",
		Short: "Add an expense",
		Args:  cobra.RangeArgs(3, 4),
		RunE:  a.runBudgetAdd,
	}
	addCmd.Flags().String("detail", "", "free-text note")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <fixed|variable|unplanned> <number>",
		Short: "Remove an expense",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runBudgetRemove,
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every expense and reset income to the profile income",
		Args:  cobra.NoArgs,
		RunE:  a.runBudgetClear,
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	cmd.AddCommand(clearCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "import-ofx <file>...",
		Short: "Estimate income and spending from OFX/QFX statements",
		Long: `Read one or more OFX/QFX statements and fill in the budget from them.

Average monthly credits become the income, and the lowest and highest monthly
spending become an "Imported spending" variable expense.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runBudgetImportOFX,
	})

	return cmd
}

// recalculate saves the budget, recomputes the cross-tool context and stores
// its summary snapshot.
func recalculate(ctx context.Context, m *state.Manager, b model.BudgetState, f *money.Formatter) model.CrossToolContext {
	m.SaveBudget(ctx, b)
	c := budget.ComputeContext(ctx, m.Store(), budget.Totals(b), f)
	m.SaveSummary(ctx, budget.Snapshot(c, m.Now()))
	return c
}

func (a *app) runBudgetShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	f := money.ForProfile(m.Profile(ctx))
	b := m.Budget(ctx)
	c := recalculate(ctx, m, b, f)
	out := cmd.OutOrStdout()

	writeLine(out, cli.FormatTitle("Budget"))
	writef(out, "Income: %s\n\n", f.Currency(b.Income.Float()))
	printExpenses(out, b, f)

	t := c.Budget
	writeLine(out, "")
	writef(out, "Fixed %s • Variable %s-%s • Unplanned %s\n",
		f.Currency(t.SumFixed), f.Currency(t.SumVarMin), f.Currency(t.SumVarMax), f.Currency(t.SumUnplanned))
	writef(out, "Left over: %s best case, %s worst case\n",
		cli.FormatAmount(f.Currency(t.LeftoverBest), t.LeftoverBest),
		cli.FormatAmount(f.Currency(t.LeftoverWorst), t.LeftoverWorst))
	writef(out, "Loan payments: %s • Investing: %s\n", f.Currency(c.Loans.TotalMonthly), f.Currency(c.Investments.MonthlyNeeded))
	writef(out, "After commitments: %s best case, %s worst case\n\n",
		cli.FormatAmount(f.Currency(c.AfterCommitmentsBest), c.AfterCommitmentsBest),
		cli.FormatAmount(f.Currency(c.AfterCommitmentsWorst), c.AfterCommitmentsWorst))

	writeLine(out, cli.BoldStyle.Render("Suggestions"))
	for _, s := range c.Suggestions {
		writeLine(out, "  "+s)
	}
	return nil
}

func printExpenses(out io.Writer, b model.BudgetState, f *money.Formatter) {
	tbl := cli.NewTable(out, "Kind", "#", "Name", "Amount", "Detail")
	for i, e := range b.Fixed {
		tbl.Row(string(budget.KindFixed), fmt.Sprint(i+1), e.Name, f.Currency(e.Amount.Float()), e.Detail)
	}
	for i, e := range b.Variable {
		tbl.Row(string(budget.KindVariable), fmt.Sprint(i+1), e.Name,
			f.Currency(e.Min.Float())+" - "+f.Currency(e.Max.Float()), e.Detail)
	}
	for i, e := range b.Unplanned {
		tbl.Row(string(budget.KindUnplanned), fmt.Sprint(i+1), e.Name, f.Currency(e.Amount.Float()), e.Detail)
	}
	if err := tbl.Flush(); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

// editBudget applies edit, recalculates and prints msg.
func (a *app) editBudget(cmd *cobra.Command, edit func(*model.BudgetState) (string, error)) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	b := m.Budget(ctx)
	msg, err := edit(&b)
	if err != nil {
		return userFacing(err)
	}
	f := money.ForProfile(m.Profile(ctx))
	c := recalculate(ctx, m, b, f)

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatSuccess(msg))
	writef(out, "Left over after commitments: %s\n", cli.FormatAmount(f.Currency(c.AfterCommitmentsBest), c.AfterCommitmentsBest))
	return nil
}

func (a *app) runBudgetIncome(cmd *cobra.Command, args []string) error {
	income, err := parseAmount(args[0], "income")
	if err != nil {
		return err
	}
	if income < 0 {
		return fmt.Errorf("income must not be negative")
	}
	return a.editBudget(cmd, func(b *model.BudgetState) (string, error) {
		b.Income = model.Number(income)
		return "Updated income", nil
	})
}

func (a *app) runBudgetAdd(cmd *cobra.Command, args []string) error {
	kind, err := budget.ParseKind(args[0])
	if err != nil {
		return userFacing(err)
	}
	name := args[1]
	detail, _ := cmd.Flags().GetString("detail")

	if kind == budget.KindVariable {
		if len(args) != 4 {
			return fmt.Errorf("variable expenses need a minimum and a maximum")
		}
		lo, err := parseAmount(args[2], "minimum")
		if err != nil {
			return err
		}
		hi, err := parseAmount(args[3], "maximum")
		if err != nil {
			return err
		}
		return a.editBudget(cmd, func(b *model.BudgetState) (string, error) {
			e, err := budget.AddVariable(b, name, detail, lo, hi)
			return fmt.Sprintf("Added variable expense %q", e.Name), err
		})
	}

	if len(args) != 3 {
		return fmt.Errorf("%s expenses take a single amount", kind)
	}
	amount, err := parseAmount(args[2], "amount")
	if err != nil {
		return err
	}
	return a.editBudget(cmd, func(b *model.BudgetState) (string, error) {
		if kind == budget.KindFixed {
			e, err := budget.AddFixed(b, name, detail, amount)
			return fmt.Sprintf("Added fixed expense %q", e.Name), err
		}
		e, err := budget.AddUnplanned(b, name, detail, amount)
		return fmt.Sprintf("Added unplanned expense %q", e.Name), err
	})
}

func (a *app) runBudgetRemove(cmd *cobra.Command, args []string) error {
	kind, err := budget.ParseKind(args[0])
	if err != nil {
		return userFacing(err)
	}
	number, err := parseIndex(args[1], "expense")
	if err != nil {
		return err
	}
	return a.editBudget(cmd, func(b *model.BudgetState) (string, error) {
		return fmt.Sprintf("Removed %s expense #%d", kind, number), budget.Remove(b, kind, number)
	})
}

func (a *app) runBudgetClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		ok, err := p.Confirm(ctx, "Remove every expense?")
		if err != nil {
			return err
		}
		if !ok {
			writeLine(cmd.OutOrStdout(), cli.FormatInfo("Kept budget"))
			return nil
		}
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	p := m.Profile(ctx)
	return a.editBudget(cmd, func(b *model.BudgetState) (string, error) {
		*b = state.DefaultBudgetState(p)
		return "Cleared budget", nil
	})
}

func (a *app) runBudgetImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	parser := ofx.NewParser()

	var entries []ofx.Entry
	var bar *progressbar.ProgressBar
	if len(args) > 1 {
		bar = cli.NewFileProgress(out, len(args), "Reading statements")
	}
	for _, path := range args {
		parsed, err := parseStatement(ctx, parser, path)
		if err != nil {
			return err
		}
		entries = append(entries, parsed...)
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	summary := ofx.Summarize(entries)
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	f := money.ForProfile(m.Profile(ctx))
	if err := a.editBudget(cmd, func(b *model.BudgetState) (string, error) {
		return fmt.Sprintf("Imported %d entries over %d month(s)", summary.Entries, summary.Months), summary.Apply(b)
	}); err != nil {
		return err
	}

	writef(out, "Income %s a month • spending %s - %s\n",
		f.Currency(summary.MonthlyIncome), f.Currency(summary.SpendingMin), f.Currency(summary.SpendingMax))
	if len(summary.TopPayees) > 0 {
		writeLine(out, cli.BoldStyle.Render("Top payees"))
		for _, p := range summary.TopPayees {
			writef(out, "  %s %s\n", p.Payee, f.Currency(p.Total))
		}
	}
	return nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer fh.Close()

	entries, err := parser.ParseFile(ctx, fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return entries, nil
}
