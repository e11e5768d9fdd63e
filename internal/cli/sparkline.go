package cli

import (
	"math"
	"strings"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters at most
// width runes wide. Longer series are downsampled by taking the last value of
// each bucket so the final balance is always shown.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	points := downsample(values, width)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range points {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range points {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// RenderSparkline is Sparkline with the chart style applied.
func RenderSparkline(values []float64, width int) string {
	return ChartStyle.Render(Sparkline(values, width))
}

func downsample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		end := (i + 1) * len(values) / width
		out[i] = values[end-1]
	}
	return out
}
