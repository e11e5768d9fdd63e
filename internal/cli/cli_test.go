package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: " yes \n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "maybe\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Remove loan #2?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Remove loan #2? [y/N]")
		})
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{name: "empty", values: nil, width: 10, want: ""},
		{name: "zero width", values: []float64{1, 2}, width: 0, want: ""},
		{name: "flat", values: []float64{5, 5, 5}, width: 10, want: "▁▁▁"},
		{name: "rising", values: []float64{0, 1, 2, 3, 4, 5, 6, 7}, width: 10, want: "▁▂▃▄▅▆▇█"},
		{name: "falling balance", values: []float64{700, 350, 0}, width: 10, want: "█▅▁"},
		{name: "downsampled keeps last", values: []float64{8, 7, 6, 5, 4, 3, 2, 0}, width: 4, want: "█▆▄▁"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.values, tt.width))
		})
	}
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	tbl := NewTable(&out, "#", "Loan")
	tbl.Row("1", "Car")
	tbl.Row("2", "Mortgage")
	require.NoError(t, tbl.Flush())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Car")
	assert.Contains(t, lines[2], "Mortgage")
}

func TestFundingBar(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, FundingBar(&out, "Funded", 250, 1000))
	assert.Contains(t, out.String(), "Funded")
	assert.Contains(t, out.String(), "25%")

	out.Reset()
	require.NoError(t, FundingBar(&out, "Funded", 10, 0))
	assert.Empty(t, out.String())
}

func TestInterruptHandler(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out, "Stopping")

	ctx, stop := h.HandleInterrupts(context.Background())
	assert.False(t, h.WasInterrupted())

	h.interrupt()
	h.interrupt()
	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Stopping"))

	stop()
	<-ctx.Done()
}
