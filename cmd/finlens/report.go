package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of every tool",
		Long: `Write a PDF with the budget summary, loan payoffs, the active target
scenario and the contribution plan.`,
		Args: cobra.NoArgs,
		RunE: a.runReport,
	}
	cmd.Flags().StringP("out", "o", "finlens-report.pdf", "output file")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := a.manager(ctx)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("out")

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.Write(fh, report.Collect(ctx, m)); err != nil {
		_ = fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %s", path)))
	return nil
}
