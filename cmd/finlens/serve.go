package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a local JSON API",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	m, err := a.manager(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	handler := cli.NewInterruptHandler(out, "Shutting down...")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	addr := a.cfg.Server.Addr
	writeLine(out, cli.FormatInfo(fmt.Sprintf("Listening on http://%s (Ctrl+C to stop)", addr)))
	return server.New(m).ListenAndServe(ctx, addr)
}
