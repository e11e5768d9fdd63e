package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/Veraticus/finlens/internal/cli"
	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

// sparkWidth is the width of inline balance and value charts.
const sparkWidth = 40

func writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

func writeLine(w io.Writer, s string) {
	writef(w, "%s\n", s)
}

// parseIndex reads a 1-based list position.
func parseIndex(arg, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: expected a number from 1", what, arg)
	}
	return n, nil
}

// parseAmount reads a money amount, accepting "1,500" and "$1500".
func parseAmount(arg, what string) (float64, error) {
	clean := strings.NewReplacer(",", "", "$", "", "€", "", " ", "").Replace(arg)
	v, err := cast.ToFloat64E(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, arg, err)
	}
	return v, nil
}

// numberFlag copies a float flag into dst when it was given.
func numberFlag(cmd *cobra.Command, name string, dst *model.Number) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v, _ := cmd.Flags().GetFloat64(name)
	*dst = model.Number(v)
}

// stringFlag copies a string flag into dst when it was given.
func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v, _ := cmd.Flags().GetString(name)
	*dst = v
}

// validationFailed prints a calculation's validation message. It reports
// false for any other error, which the caller returns.
func validationFailed(w io.Writer, err error) bool {
	msg := common.ValidationMessage(err)
	if msg == "" {
		return false
	}
	writeLine(w, cli.FormatError(msg))
	return true
}

// userFacing reduces validation errors to their message.
func userFacing(err error) error {
	if msg := common.ValidationMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}

// percent formats a rate such as 7 or 2.5 as "7%" or "2.5%".
func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
