package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// FundingBar draws how much of goal is already covered by current, as a
// static progress bar. Amounts are whole currency units.
func FundingBar(w io.Writer, description string, current, goal float64) error {
	if goal <= 0 {
		return nil
	}
	total := int64(goal)
	covered := min(max(int64(current), 0), total)

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	if covered == 0 {
		if err := bar.RenderBlank(); err != nil {
			return fmt.Errorf("failed to draw funding bar: %w", err)
		}
	} else if err := bar.Set64(covered); err != nil {
		return fmt.Errorf("failed to draw funding bar: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		slog.Warn("Failed to write newline after progress bar", "error", err)
	}
	return nil
}

// NewFileProgress creates a bar counting processed files.
func NewFileProgress(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", description)),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
