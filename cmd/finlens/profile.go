package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/model"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Shared preferences used as defaults by every tool",
		Args:  cobra.NoArgs,
		RunE:  a.runProfileShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile and the defaults it produces",
		Args:  cobra.NoArgs,
		RunE:  a.runProfileShow,
	})

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change profile preferences",
		Args:  cobra.NoArgs,
		RunE:  a.runProfileSet,
	}
	setCmd.Flags().String("currency", "", "currency code, e.g. USD, EUR or ZAR")
	setCmd.Flags().String("risk", "", "risk tolerance (Conservative, Moderate, Aggressive)")
	setCmd.Flags().Float64("return", 0, "default expected annual return in percent (0 uses the risk tolerance)")
	setCmd.Flags().Float64("inflation", 0, "default inflation in percent")
	setCmd.Flags().Float64("swr", 0, "default safe withdrawal rate in percent")
	setCmd.Flags().Float64("income", 0, "monthly income")
	setCmd.Flags().String("birth", "", "date of birth YYYY-MM-DD")
	setCmd.Flags().Int("retire-age", 0, "planned retirement age")
	cmd.AddCommand(setCmd)

	return cmd
}

func (a *app) runProfileShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	p := m.Profile(ctx)
	d := p.Defaults()
	out := cmd.OutOrStdout()

	orUnset := func(s string) string {
		if s == "" {
			return cli.SubtleStyle.Render("not set")
		}
		return s
	}

	writeLine(out, cli.FormatTitle("Profile"))
	tbl := cli.NewTable(out, "Setting", "Value")
	tbl.Row("Currency", p.Currency())
	tbl.Row("Risk tolerance", orUnset(p.RiskTolerance))
	tbl.Row("Date of birth", orUnset(p.DateOfBirth))
	if p.RetireAge != 0 {
		tbl.Row("Retirement age", fmt.Sprint(p.RetireAge.Int()))
	}
	if p.Income != 0 {
		tbl.Row("Monthly income", fmt.Sprintf("%g", p.Income.Float()))
	}
	tbl.Row("Expected return", percent(d.ExpectedReturn))
	tbl.Row("Inflation", percent(d.Inflation))
	tbl.Row("Withdrawal rate", percent(d.WithdrawalRate))
	return tbl.Flush()
}

func (a *app) runProfileSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	p := m.Profile(ctx)
	flags := cmd.Flags()

	if flags.Changed("currency") {
		code, _ := flags.GetString("currency")
		p.CurrencyCode = strings.ToUpper(strings.TrimSpace(code))
	}
	if flags.Changed("risk") {
		risk, _ := flags.GetString("risk")
		risk = strings.TrimSpace(risk)
		if risk != "" {
			risk = strings.ToUpper(risk[:1]) + strings.ToLower(risk[1:])
		}
		if _, ok := model.ExpectedReturnByRisk[risk]; !ok && risk != "" {
			return fmt.Errorf("unknown risk tolerance %q (want %s, %s or %s)",
				risk, model.RiskConservative, model.RiskModerate, model.RiskAggressive)
		}
		p.RiskTolerance = risk
	}
	optionalNumber(cmd, "return", &p.ExpectedReturnDefault)
	optionalNumber(cmd, "inflation", &p.InflationDefault)
	optionalNumber(cmd, "swr", &p.SWRDefault)
	numberFlag(cmd, "income", &p.Income)
	if flags.Changed("birth") {
		birth, _ := flags.GetString("birth")
		if _, ok := model.ParseDate(birth); !ok && birth != "" {
			return fmt.Errorf("invalid date of birth %q (want YYYY-MM-DD)", birth)
		}
		p.DateOfBirth = birth
	}
	if flags.Changed("retire-age") {
		age, _ := flags.GetInt("retire-age")
		p.RetireAge = model.Number(age)
	}

	m.SaveProfile(ctx, p)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Updated profile"))
	return nil
}

// optionalNumber sets a profile default that distinguishes unset from zero.
func optionalNumber(cmd *cobra.Command, name string, dst **model.Number) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v, _ := cmd.Flags().GetFloat64(name)
	n := model.Number(v)
	*dst = &n
}
