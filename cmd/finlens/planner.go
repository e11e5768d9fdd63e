package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/planner"
	"github.com/Veraticus/finlens/internal/tui"
	"github.com/Veraticus/finlens/internal/tui/themes"
)

func plannerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Project a portfolio from contribution rules",
		Long: `Project a portfolio month by month from a starting amount and a set of
one-time and recurring contributions.

Results can be shown in nominal terms or in today's money.`,
		Args: cobra.NoArgs,
		RunE: a.runPlannerShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the projection",
		Args:  cobra.NoArgs,
		RunE:  a.runPlannerShow,
	})

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change the projection settings",
		Args:  cobra.NoArgs,
		RunE:  a.runPlannerSet,
	}
	setCmd.Flags().Float64("initial", 0, "starting portfolio")
	setCmd.Flags().Float64("return", 0, "expected annual return in percent")
	setCmd.Flags().Float64("inflation", 0, "annual inflation in percent")
	setCmd.Flags().Float64("years", 0, "projection length in years")
	setCmd.Flags().Bool("real", false, "show results in today's money")
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "import <plan.yaml>",
		Short: "Load settings and rules from a YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runPlannerImport,
	})

	cmd.AddCommand(ruleCmd(a))

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the projection month by month",
		Args:  cobra.NoArgs,
		RunE:  a.runPlannerView,
	}
	viewCmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.AddCommand(viewCmd)

	return cmd
}

func ruleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage contribution rules",
		Args:  cobra.NoArgs,
		RunE:  a.runRuleList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rules by start month",
		Args:  cobra.NoArgs,
		RunE:  a.runRuleList,
	})

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contribution rule",
		Args:  cobra.NoArgs,
		RunE:  a.runRuleAdd,
	}
	ruleFieldFlags(addCmd)
	cmd.AddCommand(addCmd)

	updateCmd := &cobra.Command{
		Use:   "update <rule>",
		Short: "Change a rule; fields not given keep their values",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runRuleUpdate,
	}
	ruleFieldFlags(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <rule>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runRuleRemove,
	})

	return cmd
}

func ruleFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", model.RuleTypeRecurring, "recurring or one-time")
	cmd.Flags().String("label", "", "rule label")
	cmd.Flags().String("frequency", string(model.Monthly), "monthly, quarterly or annual")
	cmd.Flags().Float64("amount", 0, "amount per contribution")
	cmd.Flags().Int("start", 1, "first month (the only month for one-time rules)")
	cmd.Flags().Int("end", 0, "last month of a recurring rule (0 runs to the end)")
}

// ruleInput starts from an existing rule, if any, and applies the flags given.
func ruleInput(cmd *cobra.Command, existing model.ContributionRule) planner.RuleInput {
	in := planner.RuleInput{Type: model.RuleTypeRecurring, Frequency: model.Monthly, Start: 1}
	switch r := existing.(type) {
	case model.OneTime:
		in = planner.RuleInput{Type: model.RuleTypeOneTime, Label: r.Label, Amount: r.Amount, Start: r.Month}
	case model.Recurring:
		in = planner.RuleInput{Type: model.RuleTypeRecurring, Label: r.Label, Frequency: r.Frequency,
			Amount: r.Amount, Start: r.Start, End: r.End}
	}

	flags := cmd.Flags()
	if existing == nil || flags.Changed("type") {
		in.Type, _ = flags.GetString("type")
	}
	if flags.Changed("label") {
		in.Label, _ = flags.GetString("label")
	}
	if flags.Changed("frequency") {
		freq, _ := flags.GetString("frequency")
		in.Frequency = model.Frequency(freq)
	}
	if flags.Changed("amount") {
		in.Amount, _ = flags.GetFloat64("amount")
	}
	if flags.Changed("start") {
		in.Start, _ = flags.GetInt("start")
	}
	if flags.Changed("end") {
		in.End, _ = flags.GetInt("end")
	}
	return in
}

func (a *app) runPlannerShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Planner(ctx)
	f := money.ForProfile(m.Profile(ctx))
	out := cmd.OutOrStdout()

	sum := planner.Summarize(planner.Simulate(s), s.AdjustForInflation)
	terms := "nominal"
	if sum.Real {
		terms = "today's money"
	}

	writeLine(out, cli.FormatTitle("Contribution planner"))
	writef(out, "Start with %s at %s a year for %g years (inflation %s)\n\n",
		f.Currency(s.InitialInvestment.Float()), percent(s.AnnualReturn.Float()),
		s.ProjectionYears.Float(), percent(s.InflationRate.Float()))
	printRules(out, s.Rules, f)
	writeLine(out, "")

	writef(out, "Ending value (%s): %s\n", terms, cli.BoldStyle.Render(f.Currency(sum.EndingValue)))
	writef(out, "Total contributions: %s\n", f.Currency(sum.TotalContributions))
	writef(out, "Total growth: %s\n", f.Currency(sum.TotalGrowth))
	writeLine(out, cli.RenderSparkline(sum.ValueSeries, sparkWidth))
	return nil
}

func printRules(out io.Writer, rules model.Rules, f *money.Formatter) {
	if len(rules) == 0 {
		writeLine(out, cli.FormatInfo("No contribution rules yet."))
		return
	}
	for i, rule := range planner.SortedForDisplay(rules) {
		writeLine(out, planner.Describe(i+1, rule, f))
	}
}

func (a *app) runPlannerSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Planner(ctx)

	numberFlag(cmd, "initial", &s.InitialInvestment)
	numberFlag(cmd, "return", &s.AnnualReturn)
	numberFlag(cmd, "inflation", &s.InflationRate)
	numberFlag(cmd, "years", &s.ProjectionYears)
	if cmd.Flags().Changed("real") {
		s.AdjustForInflation, _ = cmd.Flags().GetBool("real")
	}
	m.SavePlanner(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Updated planner settings"))
	return nil
}

func (a *app) runPlannerImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fh, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open plan file: %w", err)
	}
	defer fh.Close()

	plan, err := planner.LoadPlanFile(fh)
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Planner(ctx)
	if err := plan.ApplyTo(&s); err != nil {
		return userFacing(err)
	}
	m.SavePlanner(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported plan with %d rule(s)", len(s.Rules))))
	return nil
}

func (a *app) runRuleList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	printRules(cmd.OutOrStdout(), m.Planner(ctx).Rules, money.ForProfile(m.Profile(ctx)))
	return nil
}

func (a *app) runRuleAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Planner(ctx)
	rule, err := planner.AddRule(&s, ruleInput(cmd, nil))
	if err != nil {
		return userFacing(err)
	}
	m.SavePlanner(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added rule %q", rule.RuleLabel())))
	return nil
}

func (a *app) runRuleUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	number, err := parseIndex(args[0], "rule")
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Planner(ctx)
	id, err := planner.RuleAt(s.Rules, number)
	if err != nil {
		return err
	}
	rule, err := planner.UpdateRule(&s, id, ruleInput(cmd, s.Rules[s.Rules.Find(id)]))
	if err != nil {
		return userFacing(err)
	}
	m.SavePlanner(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated rule %q", rule.RuleLabel())))
	return nil
}

func (a *app) runRuleRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	number, err := parseIndex(args[0], "rule")
	if err != nil {
		return err
	}
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	s := m.Planner(ctx)
	id, err := planner.RuleAt(s.Rules, number)
	if err != nil {
		return err
	}
	label := s.Rules[s.Rules.Find(id)].RuleLabel()
	if err := planner.RemoveRule(&s, id); err != nil {
		return err
	}
	m.SavePlanner(ctx, s)

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed rule %q", label)))
	return nil
}

func (a *app) runPlannerView(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	r := planner.Simulate(m.Planner(ctx))
	f := money.ForProfile(m.Profile(ctx))
	theme, _ := cmd.Flags().GetString("theme")
	return tui.Run(ctx, tui.PlannerViews(r, f), tui.WithTheme(themes.GetTheme(theme)))
}
