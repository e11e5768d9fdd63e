package tui

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/finlens/internal/amortization"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/planner"
)

// Series is one tabular view: a title, column headers and rows of
// preformatted cells. Every row has one cell per column.
type Series struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// LoanSchedules lays the balance series of every computed loan side by side.
// Month 0 is the opening balance; loans paid off earlier leave their cells
// blank for the remaining months.
func LoanSchedules(loans []amortization.Computed, f *money.Formatter) Series {
	s := Series{
		Title:   "Loan balances",
		Columns: []string{"Month"},
	}

	months := 0
	for _, c := range loans {
		s.Columns = append(s.Columns, c.Tab.Title)
		months = max(months, len(c.Result.BalanceSeries))
	}

	for m := range months {
		row := make([]string, 0, len(s.Columns))
		row = append(row, strconv.Itoa(m))
		for _, c := range loans {
			cell := ""
			if m < len(c.Result.BalanceSeries) {
				cell = f.Currency(c.Result.BalanceSeries[m])
			}
			row = append(row, cell)
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// PlannerViews renders a simulation twice: in nominal terms and in today's
// money.
func PlannerViews(r model.PlannerResult, f *money.Formatter) []Series {
	return []Series{
		plannerSeries("Planner (nominal)", r, planner.Summarize(r, false), f),
		plannerSeries("Planner (today's money)", r, planner.Summarize(r, true), f),
	}
}

func plannerSeries(title string, r model.PlannerResult, sum model.PlannerSummary, f *money.Formatter) Series {
	s := Series{
		Title:   title,
		Columns: []string{"Month", "Year", "Contribution", "Contributed", "Value", "Growth"},
	}
	for i := range sum.ValueSeries {
		month := i + 1
		growth := max(0, sum.ValueSeries[i]-sum.ContributionSeries[i])
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(month),
			fmt.Sprintf("%.1f", float64(month)/12),
			f.Currency(r.MonthlyContributions[i]),
			f.Currency(sum.ContributionSeries[i]),
			f.Currency(sum.ValueSeries[i]),
			f.Currency(growth),
		})
	}
	return s
}

// Phases of a target-portfolio plan.
const (
	PhaseSaving  = "Saving"
	PhaseDrawing = "Drawing"
)

// TargetSeries renders a target plan's accumulation and withdrawal phases.
func TargetSeries(name string, r model.InvestmentResult, f *money.Formatter) Series {
	s := Series{
		Title:   "Target: " + name,
		Columns: []string{"Step", "Phase", "When", "Portfolio", "Monthly income"},
	}
	for i, v := range r.PortfolioValueSeries {
		phase := PhaseSaving
		step := i
		if i > r.MonthsToTarget {
			phase = PhaseDrawing
			step = i - r.MonthsToTarget
		}
		label := ""
		if i < len(r.TimeLabelSeries) {
			label = r.TimeLabelSeries[i]
		}
		income := 0.0
		if i < len(r.MonthlyIncomeSeries) {
			income = r.MonthlyIncomeSeries[i]
		}
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(step),
			phase,
			label,
			f.Currency(v),
			f.Currency(income),
		})
	}
	return s
}
