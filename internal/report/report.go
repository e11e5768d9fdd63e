// Package report renders the latest results of every tool as a PDF.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/finlens/internal/amortization"
	"github.com/Veraticus/finlens/internal/budget"
	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
	"github.com/Veraticus/finlens/internal/planner"
	"github.com/Veraticus/finlens/internal/state"
	"github.com/Veraticus/finlens/internal/target"
	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// Target is the active target scenario and its plan. Err holds the
// validation message when the scenario cannot be computed.
type Target struct {
	Scenario model.TargetScenario
	Result   *model.InvestmentResult
	Err      string
}

// Data is everything a report shows.
type Data struct {
	GeneratedAt time.Time
	Currency    string
	Summary     model.BudgetSummary
	Loans       []amortization.Computed
	Target      *Target
	Planner     model.PlannerSummary
	Rules       model.Rules
}

// Collect gathers the latest state of every tool. The budget summary is the
// saved snapshot when one exists, otherwise it is computed on the spot.
func Collect(ctx context.Context, m *state.Manager) Data {
	now := m.Now()
	profile := m.Profile(ctx)
	f := money.ForProfile(profile)

	d := Data{
		GeneratedAt: now,
		Currency:    f.Code(),
		Loans:       amortization.ComputeAll(m.Loans(ctx)),
	}

	summary, ok := m.Summary(ctx)
	if !ok {
		totals := budget.Totals(m.Budget(ctx))
		summary = budget.Snapshot(budget.ComputeContext(ctx, m.Store(), totals, f), now)
	}
	d.Summary = summary

	ts := m.Target(ctx)
	if i := ts.Active(); i >= 0 {
		sc := ts.Scenarios[i]
		t := &Target{Scenario: sc}
		result, err := target.Compute(sc.Scenario(), now)
		if err != nil {
			t.Err = common.ValidationMessage(err)
		} else {
			t.Result = &result
		}
		d.Target = t
	}

	ps := m.Planner(ctx)
	d.Planner = planner.Summarize(planner.Simulate(ps), ps.AdjustForInflation)
	d.Rules = planner.SortedForDisplay(ps.Rules)
	return d
}

// Writer lays out a report on A4 pages.
type Writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	f   *money.Formatter
}

// Write renders d as a PDF to w.
func Write(w io.Writer, d Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("finlens report", true)
	pdf.SetCreator("finlens", true)
	pdf.AliasNbPages("")

	r := &Writer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		f:   money.NewFormatter(d.Currency),
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.addTitle(d.GeneratedAt)
	r.addBudget(d.Summary)
	r.addLoans(d.Loans)
	r.addTarget(d.Target)
	r.addPlanner(d.Planner, d.Rules)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func (r *Writer) amount(v float64) string {
	return r.f.Currency(v)
}

func (r *Writer) addTitle(generated time.Time) {
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, "Personal finance overview", "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 6, "Generated: "+generated.Format("2 January 2006"), "", 1, "L", false, 0, "")
	r.pdf.Ln(6)
}

func (r *Writer) addBudget(s model.BudgetSummary) {
	r.drawSectionHeader("Budget")
	widths := []float64{110, 70}
	r.drawTableHeader([]string{"", "Monthly"}, widths)
	rows := [][]string{
		{"Income", r.amount(s.Income)},
		{"Fixed expenses", r.amount(s.Budget.SumFixed)},
		{"Variable expenses", r.amount(s.Budget.SumVarMin) + " - " + r.amount(s.Budget.SumVarMax)},
		{"Unplanned allowance", r.amount(s.Budget.SumUnplanned)},
		{"Leftover (best case)", r.amount(s.Budget.LeftoverBest)},
		{"Leftover (worst case)", r.amount(s.Budget.LeftoverWorst)},
		{"Loan payments", r.amount(s.Loans.TotalMonthly)},
		{"Investment need", r.amount(s.Investments.MonthlyNeeded)},
	}
	for _, row := range rows {
		r.drawTableRow(row, widths, false)
	}
	r.drawTableRow([]string{"After commitments (best case)", r.amount(s.AfterCommitmentsBest)}, widths, true)
	r.drawTableRow([]string{"After commitments (worst case)", r.amount(s.AfterCommitmentsWorst)}, widths, true)
	r.pdf.Ln(4)

	r.drawSubheader("Suggestions")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for _, s := range s.Suggestions {
		r.pdf.MultiCell(contentWidth, 5, r.tr("- "+s), "", "L", false)
	}
	r.pdf.Ln(6)
}

func (r *Writer) addLoans(loans []amortization.Computed) {
	r.drawSectionHeader("Loans")
	if len(loans) == 0 {
		r.drawNote("No complete loans yet. Enter principal, rate and payment to see a schedule.")
		return
	}

	widths := []float64{50, 30, 30, 35, 35}
	r.drawTableHeader([]string{"Loan", "Principal", "Payoff", "Total repaid", "Interest"}, widths)
	for _, c := range loans {
		payoff := "not paid off"
		if c.Result.PaidOff() {
			years, months := amortization.YearsMonths(c.Result.MonthsToPayoff)
			payoff = fmt.Sprintf("%dy %dm", years, months)
		}
		r.drawTableRow([]string{
			c.Tab.Title,
			r.amount(c.Tab.Principal.Float()),
			payoff,
			r.amount(c.Result.TotalRepayment),
			r.amount(c.Result.TotalInterest),
		}, widths, false)
	}
	r.pdf.Ln(6)
}

func (r *Writer) addTarget(t *Target) {
	r.drawSectionHeader("Investment target")
	if t == nil {
		r.drawNote("No target scenario saved.")
		return
	}
	r.drawSubheader(t.Scenario.Name)
	if t.Result == nil {
		r.drawNote(t.Err)
		return
	}

	res := t.Result
	widths := []float64{110, 70}
	r.drawTableHeader([]string{"", ""}, widths)
	rows := [][]string{
		{"Monthly income goal (today)", r.amount(t.Scenario.TargetIncome.Float())},
		{"Monthly income at target (inflation adjusted)", r.amount(res.InflationAdjustedIncome)},
		{"Required portfolio", r.amount(res.RequiredPortfolio)},
		{"Monthly investment needed", r.amount(res.MonthlyInvestmentNeeded)},
		{"Total invested", r.amount(res.TotalInvested)},
		{"Investment growth", r.amount(res.InvestmentGrowth)},
		{"Years to target", fmt.Sprintf("%.1f", res.YearsToTarget)},
		{"Portfolio lasts", fmt.Sprintf("%.1f years", res.ActualSustainabilityYears)},
	}
	for _, row := range rows {
		r.drawTableRow(row, widths, false)
	}
	r.pdf.Ln(6)
}

func (r *Writer) addPlanner(s model.PlannerSummary, rules model.Rules) {
	title := "Contribution plan"
	if s.Real {
		title += " (today's money)"
	}
	r.drawSectionHeader(title)

	widths := []float64{110, 70}
	r.drawTableHeader([]string{"", ""}, widths)
	r.drawTableRow([]string{"Ending value", r.amount(s.EndingValue)}, widths, true)
	r.drawTableRow([]string{"Total contributions", r.amount(s.TotalContributions)}, widths, false)
	r.drawTableRow([]string{"Total growth", r.amount(s.TotalGrowth)}, widths, false)
	r.pdf.Ln(4)

	if len(rules) == 0 {
		return
	}
	r.drawSubheader("Rules")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for i, rule := range rules {
		r.pdf.MultiCell(contentWidth, 5, r.tr(planner.Describe(i+1, rule, r.f)), "", "L", false)
	}
}

func (r *Writer) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(4)
}

func (r *Writer) drawSubheader(title string) {
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, r.tr(title), "", 1, "L", false, 0, "")
}

func (r *Writer) drawNote(text string) {
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 5, r.tr(text), "", "L", false)
	r.pdf.Ln(6)
}

func (r *Writer) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, r.tr(header), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *Writer) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)
	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, r.tr(cell), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
