package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/service"
	"github.com/Veraticus/finlens/internal/testutil"
)

var fixedNow = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// runCLI executes one command line against store and returns its output.
func runCLI(t *testing.T, store service.Store, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{
		v:     viper.New(),
		now:   func() time.Time { return fixedNow },
		store: store,
	}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("logging:\n  level: error\n"), 0o600))
	root.SetArgs(append([]string{"--config", cfg}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, store service.Store, args ...string) string {
	t.Helper()
	out, err := runCLI(t, store, "", args...)
	require.NoError(t, err, out)
	return out
}

func loadDoc(t *testing.T, store service.Store, key string, v any) {
	t.Helper()
	raw, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, testutil.NewMemoryStore(t), "version")
	assert.Equal(t, "finlens dev\n", out)
}

func TestLoanCommands(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	out := mustRun(t, store, "loan", "add", "--title", "Mortgage", "--principal", "100000", "--rate", "6", "--payment", "600")
	assert.Contains(t, out, `Added loan #2 "Mortgage"`)

	out = mustRun(t, store, "loan", "list")
	assert.Contains(t, out, "Loan 1")
	assert.Contains(t, out, "incomplete")
	assert.Contains(t, out, "Mortgage")
	assert.Contains(t, out, "360 months (30 years, 0 months)")

	out = mustRun(t, store, "loan", "show")
	assert.Contains(t, out, "Loan #2 Mortgage")
	assert.Contains(t, out, "Total repaid: $216,000")
	assert.Contains(t, out, "Total interest: $115,549")

	mustRun(t, store, "loan", "deposit", "add", "2", "1", "10,000")
	out = mustRun(t, store, "loan", "show", "2")
	assert.Contains(t, out, "extra $10,000 in month 1")
	assert.NotContains(t, out, "360 months")

	mustRun(t, store, "loan", "deposit", "remove", "2", "1")
	out = mustRun(t, store, "loan", "duplicate")
	assert.Contains(t, out, `Added loan #3 "Mortgage (Copy)"`)

	var s model.LoanState
	loadDoc(t, store, service.KeyLoans, &s)
	require.Len(t, s.Tabs, 3)
	assert.Equal(t, model.Number(2), s.SelectedIndex)
	assert.Empty(t, s.Tabs[2].Deposits)
	assert.NotEqual(t, s.Tabs[1].ID, s.Tabs[2].ID)

	mustRun(t, store, "loan", "select", "1")
	mustRun(t, store, "loan", "set", "1", "--principal", "1200", "--rate", "1", "--payment", "100")
	loadDoc(t, store, service.KeyLoans, &s)
	assert.Equal(t, model.Number(0), s.SelectedIndex)
	assert.Equal(t, model.Number(1200), s.Tabs[0].Principal)
}

func TestLoanCommands_Errors(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	_, err := runCLI(t, store, "", "loan", "show", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan #5")

	_, err = runCLI(t, store, "", "loan", "select", "zero")
	assert.Error(t, err)

	_, err = runCLI(t, store, "", "loan", "deposit", "add", "1", "3", "0")
	require.Error(t, err)
	assert.Equal(t, "Deposit amount must be greater than 0", err.Error())

	_, err = runCLI(t, store, "", "loan", "deposit", "remove", "1", "3")
	assert.Error(t, err)
}

func TestLoanRemove_Confirmation(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	mustRun(t, store, "loan", "add")

	out, err := runCLI(t, store, "n\n", "loan", "remove", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `Remove loan #2 "Loan 2"?`)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Kept loan")

	var s model.LoanState
	loadDoc(t, store, service.KeyLoans, &s)
	assert.Len(t, s.Tabs, 2)

	out, err = runCLI(t, store, "y\n", "loan", "remove", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed loan "Loan 2"`)

	out = mustRun(t, store, "loan", "remove", "1", "--yes")
	assert.Contains(t, out, `Removed loan "Loan 1"`)

	// Removing the last loan brings back the default.
	out = mustRun(t, store, "loan", "list")
	assert.Contains(t, out, "Loan 1")
}

func TestTargetCommands(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	out := mustRun(t, store, "target", "add", "--name", "Early", "--date", "2035-01-15",
		"--income", "5000", "--return", "0", "--inflation", "0", "--withdrawal", "4")
	assert.Contains(t, out, `Added scenario #2 "Early"`)

	out = mustRun(t, store, "target")
	assert.Contains(t, out, "Scenario #2 Early")
	assert.Contains(t, out, "Required portfolio: $1,500,000")
	assert.Contains(t, out, "$12,500")
	assert.Contains(t, out, "120 months")

	var s model.TargetState
	loadDoc(t, store, service.KeyTarget, &s)
	require.Len(t, s.Scenarios, 2)
	require.NotNil(t, s.Scenarios[1].Result)
	assert.Equal(t, model.Number(12500), s.Scenarios[1].Result.MonthlyInvestmentNeeded)

	out = mustRun(t, store, "target", "list")
	assert.Contains(t, out, "$1,500,000")

	// A failed calculation keeps the previous result.
	mustRun(t, store, "target", "set", "--date", "2020-01-01")
	out = mustRun(t, store, "target", "show")
	assert.Contains(t, out, "Target date must be in the future")
	loadDoc(t, store, service.KeyTarget, &s)
	require.NotNil(t, s.Scenarios[1].Result)
	assert.Equal(t, model.Number(12500), s.Scenarios[1].Result.MonthlyInvestmentNeeded)

	mustRun(t, store, "target", "select", "1")
	loadDoc(t, store, service.KeyTarget, &s)
	assert.Equal(t, model.Number(0), s.ActiveIndex)
}

func TestTargetSet_AgeModeAndFile(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	mustRun(t, store, "target", "set", "--birth", "1990-06-01", "--age", "60")
	var s model.TargetState
	loadDoc(t, store, service.KeyTarget, &s)
	assert.Equal(t, "1990-06-01", s.Scenarios[0].BirthDate)
	assert.Equal(t, model.Number(60), s.Scenarios[0].TargetAge)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: From file\ntarget_date: 2040-01-01\ntarget_income: 3000\n"), 0o600))
	mustRun(t, store, "target", "set", "1", "--file", path, "--income", "3500")

	loadDoc(t, store, service.KeyTarget, &s)
	sc := s.Scenarios[0]
	assert.Equal(t, "From file", sc.Name)
	assert.Equal(t, "2040-01-01", sc.TargetDate)
	assert.Empty(t, sc.BirthDate)
	assert.Equal(t, model.Number(3500), sc.TargetIncome)

	_, err := runCLI(t, store, "", "target", "set", "--date", "soon")
	assert.Error(t, err)
}

func TestTargetSet_BirthWithoutAge(t *testing.T) {
	tests := []struct {
		name    string
		profile []string
		wantAge model.Number
	}{
		{name: "default age", wantAge: model.DefaultTargetAge},
		{name: "profile retirement age", profile: []string{"profile", "set", "--retire-age", "60"}, wantAge: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStore(t)
			if tt.profile != nil {
				mustRun(t, store, tt.profile...)
			}

			mustRun(t, store, "target", "set", "--birth", "1980-06-01")
			out := mustRun(t, store, "target", "show")
			assert.NotContains(t, out, "Target date must be in the future")

			var s model.TargetState
			loadDoc(t, store, service.KeyTarget, &s)
			assert.Equal(t, tt.wantAge, s.Scenarios[0].TargetAge)
			assert.NotNil(t, s.Scenarios[0].Result)
		})
	}
}

func TestPlannerCommands(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	mustRun(t, store, "planner", "set", "--initial", "1000", "--return", "0", "--inflation", "0", "--years", "1")
	out := mustRun(t, store, "planner")
	assert.Contains(t, out, "#1 Base monthly • $500 • monthly • start m1")
	assert.Contains(t, out, "Ending value (nominal): $7,000")

	mustRun(t, store, "planner", "rule", "add", "--type", "one-time", "--label", "Bonus", "--amount", "1000", "--start", "6")
	out = mustRun(t, store, "planner", "show")
	assert.Contains(t, out, "#2 Bonus • $1,000 • at m6")
	assert.Contains(t, out, "$8,000")

	mustRun(t, store, "planner", "rule", "update", "2", "--amount", "2000")
	out = mustRun(t, store, "planner", "rule", "list")
	assert.Contains(t, out, "#2 Bonus • $2,000 • at m6")

	mustRun(t, store, "planner", "rule", "remove", "1")
	out = mustRun(t, store, "planner", "rule")
	assert.Equal(t, "#1 Bonus • $2,000 • at m6\n", out)

	_, err := runCLI(t, store, "", "planner", "rule", "add", "--type", "weekly-ish")
	assert.Error(t, err)
}

func TestPlannerImport(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	plan := `initial_investment: 0
annual_return: 0
projection_years: 2
adjust_for_inflation: true
rules:
  - type: recurring
    label: Savings
    amount: 100
    start: 1
`
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))

	out := mustRun(t, store, "planner", "import", path)
	assert.Contains(t, out, "Imported plan with 1 rule(s)")

	var s model.PlannerState
	loadDoc(t, store, service.KeyPlanner, &s)
	assert.True(t, s.AdjustForInflation)
	require.Len(t, s.Rules, 1)
	assert.Equal(t, "Savings", s.Rules[0].RuleLabel())

	out = mustRun(t, store, "planner")
	assert.Contains(t, out, "today's money")
}

func TestBudgetCommands(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	mustRun(t, store, "budget", "income", "4,000")
	out := mustRun(t, store, "budget", "add", "fixed", "Rent", "1500", "--detail", "flat")
	assert.Contains(t, out, `Added fixed expense "Rent"`)
	mustRun(t, store, "budget", "add", "variable", "Groceries", "300", "200")

	out = mustRun(t, store, "budget")
	assert.Contains(t, out, "Income: $4,000")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "$300 - $300")
	assert.Contains(t, out, "Left over: $2,200 best case, $2,200 worst case")
	assert.Contains(t, out, "No suggestions available yet.")

	var sum model.BudgetSummary
	loadDoc(t, store, service.KeyBudgetSummary, &sum)
	assert.Equal(t, 2200.0, sum.AfterCommitmentsBest)
	assert.Equal(t, fixedNow.UnixMilli(), sum.UpdatedAt)

	mustRun(t, store, "budget", "remove", "fixed", "1")
	loadDoc(t, store, service.KeyBudgetSummary, &sum)
	assert.Equal(t, 3700.0, sum.AfterCommitmentsBest)

	_, err := runCLI(t, store, "", "budget", "add", "fixed", "Gym", "0")
	require.Error(t, err)
	assert.Equal(t, "Amount must be greater than 0", err.Error())

	_, err = runCLI(t, store, "", "budget", "add", "variable", "Fun", "10")
	assert.Error(t, err)

	_, err = runCLI(t, store, "", "budget", "add", "weekly", "Fun", "10")
	assert.Error(t, err)

	out = mustRun(t, store, "budget", "clear", "--yes")
	assert.Contains(t, out, "Cleared budget")
	var b model.BudgetState
	loadDoc(t, store, service.KeyBudget, &b)
	assert.Empty(t, b.Variable)
	assert.Equal(t, model.Number(0), b.Income)
}

func TestBudget_SeesOtherTools(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	mustRun(t, store, "loan", "set", "1", "--title", "Car", "--principal", "10000", "--rate", "5", "--payment", "300")
	mustRun(t, store, "budget", "income", "2000")

	out := mustRun(t, store, "budget")
	assert.Contains(t, out, "Loans: current monthly payments $300 across 1 loan(s).")
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240101120000[0:GMT]
<TRNAMT>3000.00
<FITID>2024010101
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240103120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024010301
<NAME>RENT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestBudgetImportOFX(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "jan.ofx")
	second := filepath.Join(dir, "jan-again.qfx")
	require.NoError(t, os.WriteFile(first, []byte(statementOFX), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(statementOFX), 0o600))

	out := mustRun(t, store, "budget", "import-ofx", first, second)
	assert.Contains(t, out, "Imported 2 entries over 1 month(s)")
	assert.Contains(t, out, "Income $3,000 a month")
	assert.Contains(t, out, "RENT $500")

	var b model.BudgetState
	loadDoc(t, store, service.KeyBudget, &b)
	assert.Equal(t, model.Number(3000), b.Income)
	require.Len(t, b.Variable, 1)
	assert.Equal(t, model.Number(500), b.Variable[0].Min)

	_, err := runCLI(t, store, "", "budget", "import-ofx", filepath.Join(dir, "missing.ofx"))
	assert.Error(t, err)
}

func TestProfileCommands(t *testing.T) {
	store := testutil.NewMemoryStore(t)

	out := mustRun(t, store, "profile")
	assert.Contains(t, out, "USD")
	assert.Contains(t, out, "7%")

	mustRun(t, store, "profile", "set", "--currency", "eur", "--risk", "aggressive", "--swr", "0")
	var p model.Profile
	loadDoc(t, store, service.KeyProfile, &p)
	assert.Equal(t, "EUR", p.CurrencyCode)
	assert.Equal(t, model.RiskAggressive, p.RiskTolerance)
	require.NotNil(t, p.SWRDefault)
	assert.Equal(t, model.Number(0), *p.SWRDefault)

	out = mustRun(t, store, "profile", "show")
	assert.Contains(t, out, "9%")

	// New scenarios pick up the profile defaults.
	mustRun(t, store, "target", "add")
	var s model.TargetState
	loadDoc(t, store, service.KeyTarget, &s)
	assert.Equal(t, model.Number(9), s.Scenarios[len(s.Scenarios)-1].AnnualReturn)

	out = mustRun(t, store, "budget", "income", "1000")
	assert.Contains(t, out, "€")

	_, err := runCLI(t, store, "", "profile", "set", "--risk", "reckless")
	assert.Error(t, err)
	_, err = runCLI(t, store, "", "profile", "set", "--birth", "01/02/1990")
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	mustRun(t, store, "budget", "income", "3000")

	path := filepath.Join(t.TempDir(), "report.pdf")
	out := mustRun(t, store, "report", "--out", path)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestClearCommand(t *testing.T) {
	store := testutil.NewMemoryStore(t)
	mustRun(t, store, "budget", "income", "3000")

	out, err := runCLI(t, store, "", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")
	keys, err := store.Keys(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, keys)

	out = mustRun(t, store, "clear", "--yes")
	assert.Contains(t, out, "Deleted all saved data")
	keys, err = store.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = store.Get(context.Background(), service.KeyBudget)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
