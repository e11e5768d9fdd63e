package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/state"
	"github.com/Veraticus/finlens/internal/target"
	"github.com/Veraticus/finlens/internal/tui"
	"github.com/Veraticus/finlens/internal/tui/themes"
)

func targetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Portfolio needed for a future monthly income",
		Long: `Work out the portfolio needed to live off a monthly income from a target
date (or a target age), and the monthly investment that gets you there.

The income goal is inflated to the target date and the portfolio is sized so
that the withdrawal rate covers it.`,
		Args: cobra.NoArgs,
		RunE: a.runTargetShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [scenario]",
		Short: "Calculate a scenario (the active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runTargetShow,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scenarios with their last result",
		Args:  cobra.NoArgs,
		RunE:  a.runTargetList,
	})

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a scenario using the profile defaults and make it active",
		Args:  cobra.NoArgs,
		RunE:  a.runTargetAdd,
	}
	targetFieldFlags(addCmd)
	cmd.AddCommand(addCmd)

	setCmd := &cobra.Command{
		Use:   "set [scenario]",
		Short: "Change a scenario (the active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runTargetSet,
	}
	targetFieldFlags(setCmd)
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "select <scenario>",
		Short: "Make a scenario active",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runTargetSelect,
	})

	viewCmd := &cobra.Command{
		Use:   "view [scenario]",
		Short: "Browse a scenario's plan month by month",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runTargetView,
	}
	viewCmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.AddCommand(viewCmd)

	return cmd
}

func targetFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "YAML scenario file applied before the other flags")
	cmd.Flags().String("name", "", "scenario name")
	cmd.Flags().String("date", "", "target date YYYY-MM-DD (switches to date mode)")
	cmd.Flags().String("birth", "", "birth date YYYY-MM-DD (switches to age mode)")
	cmd.Flags().Int("age", 0, "target age in age mode")
	cmd.Flags().Float64("income", 0, "monthly income goal in today's money")
	cmd.Flags().Float64("return", 0, "expected annual return in percent")
	cmd.Flags().Float64("initial", 0, "amount already invested")
	cmd.Flags().Float64("withdrawal", 0, "annual withdrawal rate in percent")
	cmd.Flags().Float64("inflation", 0, "annual inflation in percent")
	cmd.Flags().Int("years", 0, "years to project the withdrawal phase")
}

// applyTargetFlags applies the scenario file and then the individual flags.
// Switching to age mode without an age uses the profile's retirement age.
func applyTargetFlags(cmd *cobra.Command, sc *model.TargetScenario, p model.Profile) error {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open scenario file: %w", err)
		}
		defer fh.Close()
		f, err := target.LoadScenarioFile(fh)
		if err != nil {
			return userFacing(err)
		}
		f.ApplyTo(sc)
	}

	stringFlag(cmd, "name", &sc.Name)
	if cmd.Flags().Changed("date") {
		date, _ := cmd.Flags().GetString("date")
		if _, ok := model.ParseDate(date); !ok {
			return fmt.Errorf("invalid target date %q (want YYYY-MM-DD)", date)
		}
		sc.TargetDate = date
		sc.BirthDate = ""
	}
	if cmd.Flags().Changed("birth") {
		birth, _ := cmd.Flags().GetString("birth")
		if _, ok := model.ParseDate(birth); !ok {
			return fmt.Errorf("invalid birth date %q (want YYYY-MM-DD)", birth)
		}
		sc.BirthDate = birth
		if sc.TargetAge == 0 {
			sc.TargetAge = state.RetireAge(p)
		}
	}
	if cmd.Flags().Changed("age") {
		age, _ := cmd.Flags().GetInt("age")
		sc.TargetAge = model.Number(age)
	}
	numberFlag(cmd, "income", &sc.TargetIncome)
	numberFlag(cmd, "return", &sc.AnnualReturn)
	numberFlag(cmd, "initial", &sc.InitialInvestment)
	numberFlag(cmd, "withdrawal", &sc.WithdrawalRate)
	numberFlag(cmd, "inflation", &sc.InflationRate)
	if cmd.Flags().Changed("years") {
		years, _ := cmd.Flags().GetInt("years")
		sc.ProjectionYears = model.Number(years)
	}
	return nil
}

// scenarioNumber resolves an optional scenario argument, defaulting to the
// active scenario.
func scenarioNumber(s model.TargetState, args []string) (int, error) {
	if len(args) == 1 {
		return parseIndex(args[0], "scenario")
	}
	if s.Active() < 0 {
		return 0, fmt.Errorf("no scenarios yet: %w", common.ErrNotFound)
	}
	return s.Active() + 1, nil
}

func (a *app) runTargetShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Target(ctx)
	number, err := scenarioNumber(s, args)
	if err != nil {
		return err
	}
	sc, err := target.ScenarioAt(&s, number)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatTitle(fmt.Sprintf("Scenario #%d %s", number, sc.Name)))

	r, err := target.ComputeScenario(sc, m.Now())
	if err != nil {
		if validationFailed(out, err) {
			return nil
		}
		return err
	}
	m.SaveTarget(ctx, s)

	f := money.ForProfile(m.Profile(ctx))
	printTargetResult(out, *sc, r, f)
	return nil
}

func printTargetResult(out io.Writer, sc model.TargetScenario, r model.InvestmentResult, f *money.Formatter) {
	when := sc.TargetDate
	if sc.BirthDate != "" {
		when = fmt.Sprintf("age %d (born %s)", sc.TargetAge.Int(), sc.BirthDate)
	}
	writef(out, "Goal: %s a month from %s\n", f.Currency(sc.TargetIncome.Float()), when)
	writef(out, "Inflation-adjusted income: %s a month\n", f.Currency(r.InflationAdjustedIncome))
	writef(out, "Required portfolio: %s\n", f.Currency(r.RequiredPortfolio))
	writef(out, "Invest monthly: %s for %d months (%.1f years)\n",
		cli.BoldStyle.Render(f.Currency(r.MonthlyInvestmentNeeded)), r.MonthsToTarget, r.YearsToTarget)
	writef(out, "Total invested: %s\nInvestment growth: %s\n", f.Currency(r.TotalInvested), f.Currency(r.InvestmentGrowth))

	if r.IsSustainableForFullProjection {
		writeLine(out, cli.FormatSuccess(fmt.Sprintf("Portfolio lasts the full %d-month withdrawal phase", r.WithdrawalMonths)))
	} else {
		writeLine(out, cli.FormatWarning(fmt.Sprintf("Portfolio runs out after %d months (%.1f years) of withdrawals",
			r.ActualSustainabilityMonths, r.ActualSustainabilityYears)))
	}

	if err := cli.FundingBar(out, "Already invested", sc.InitialInvestment.Float(), r.RequiredPortfolio); err != nil {
		writeLine(out, cli.FormatWarning(err.Error()))
	}
	writeLine(out, cli.RenderSparkline(r.PortfolioValueSeries, sparkWidth))
}

func (a *app) runTargetList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Target(ctx)
	f := money.ForProfile(m.Profile(ctx))
	out := cmd.OutOrStdout()

	writeLine(out, cli.FormatTitle("Target scenarios"))
	tbl := cli.NewTable(out, "", "#", "Scenario", "Income", "When", "Required", "Monthly")
	for i, sc := range s.Scenarios {
		marker := ""
		if i == s.Active() {
			marker = "*"
		}
		when := sc.TargetDate
		if sc.BirthDate != "" {
			when = fmt.Sprintf("age %d", sc.TargetAge.Int())
		}
		required, monthly := "", ""
		if sc.Result != nil {
			required = f.Currency(sc.Result.RequiredPortfolio.Float())
			monthly = f.Currency(sc.Result.MonthlyInvestmentNeeded.Float())
		}
		tbl.Row(marker, fmt.Sprint(i+1), sc.Name, f.Currency(sc.TargetIncome.Float()), when, required, monthly)
	}
	return tbl.Flush()
}

func (a *app) runTargetAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Target(ctx)

	p := m.Profile(ctx)
	sc := state.NewTargetScenario(len(s.Scenarios)+1, p, m.Now())
	if err := applyTargetFlags(cmd, &sc, p); err != nil {
		return err
	}
	s.Scenarios = append(s.Scenarios, sc)
	s.ActiveIndex = model.Number(len(s.Scenarios) - 1)
	m.SaveTarget(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added scenario #%d %q", len(s.Scenarios), sc.Name)))
	return nil
}

func (a *app) runTargetSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Target(ctx)
	number, err := scenarioNumber(s, args)
	if err != nil {
		return err
	}
	sc, err := target.ScenarioAt(&s, number)
	if err != nil {
		return err
	}
	if err := applyTargetFlags(cmd, sc, m.Profile(ctx)); err != nil {
		return err
	}
	m.SaveTarget(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated scenario #%d %q", number, sc.Name)))
	return nil
}

func (a *app) runTargetSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	number, err := parseIndex(args[0], "scenario")
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Target(ctx)
	if err := target.Select(&s, number); err != nil {
		return err
	}
	m.SaveTarget(ctx, s)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Active scenario is #%d %q", number, s.Scenarios[number-1].Name)))
	return nil
}

func (a *app) runTargetView(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Target(ctx)
	number, err := scenarioNumber(s, args)
	if err != nil {
		return err
	}
	sc, err := target.ScenarioAt(&s, number)
	if err != nil {
		return err
	}
	r, err := target.ComputeScenario(sc, m.Now())
	if err != nil {
		if validationFailed(cmd.OutOrStdout(), err) {
			return nil
		}
		return err
	}
	m.SaveTarget(ctx, s)

	f := money.ForProfile(m.Profile(ctx))
	theme, _ := cmd.Flags().GetString("theme")
	return tui.Run(ctx, []tui.Series{tui.TargetSeries(sc.Name, r, f)}, tui.WithTheme(themes.GetTheme(theme)))
}
