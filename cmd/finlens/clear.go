package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
)

func clearCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved document",
		Long:  "Delete the profile and every tool's saved state. Defaults come back on next use.",
		Args:  cobra.NoArgs,
		RunE:  a.runClear,
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func (a *app) runClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		p := cli.NewPrompter(cmd.InOrStdin(), out)
		ok, err := p.Confirm(ctx, "Delete all saved finlens data?")
		if err != nil {
			return err
		}
		if !ok {
			writeLine(out, cli.FormatInfo("Nothing deleted"))
			return nil
		}
	}

	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	if err := m.Clear(ctx); err != nil {
		return err
	}
	writeLine(out, cli.FormatSuccess("Deleted all saved data"))
	return nil
}
