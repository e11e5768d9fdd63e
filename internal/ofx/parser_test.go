package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finlens/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
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
<DTEND>20240229120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240101120000[0:GMT]
<TRNAMT>3000.00
<FITID>2024010101
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240201120000[0:GMT]
<TRNAMT>3200.00
<FITID>2024020101
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240203120000[0:GMT]
<TRNAMT>-1200.00
<FITID>2024020301
<NAME>RENT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240210120000[0:GMT]
<TRNAMT>-60.00
<FITID>2024021001
<NAME>POS PURCHASE STARBUCKS
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240229120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
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
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func parse(t *testing.T, data string) []Entry {
	t.Helper()
	entries, err := NewParser().ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	return entries
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{name: "valid bank statement", ofxData: sampleBankOFX, expectedCount: 7},
		{name: "valid credit card statement", ofxData: sampleCreditCardOFX, expectedCount: 2},
		{name: "leading blank lines", ofxData: "\n\n  " + sampleCreditCardOFX, expectedCount: 2},
		{name: "invalid OFX data", ofxData: "not valid OFX", expectedError: true},
		{name: "empty OFX", ofxData: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := NewParser().ParseFile(context.Background(), strings.NewReader(tt.ofxData))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.expectedCount)
		})
	}
}

func TestParseBankEntries(t *testing.T) {
	entries := parse(t, sampleBankOFX)
	require.Len(t, entries, 7)

	payroll := entries[0]
	assert.Equal(t, "2024010101", payroll.ID)
	assert.Equal(t, "1234567890", payroll.Account)
	assert.Equal(t, "ACME PAYROLL", payroll.Payee)
	assert.InDelta(t, 3000, payroll.Amount, 1e-9)
	assert.True(t, payroll.Credit())

	coffee := entries[1]
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Name)
	assert.InDelta(t, -25.50, coffee.Amount, 1e-9)
	assert.False(t, coffee.Credit())
	assert.Equal(t, 2024, coffee.Date.Year())
	assert.Equal(t, time.January, coffee.Date.Month())
	assert.Equal(t, 15, coffee.Date.Day())

	assert.Equal(t, "STARBUCKS", entries[6].Payee)
}

func TestParseCreditCardEntries(t *testing.T) {
	entries := parse(t, sampleCreditCardOFX)
	require.Len(t, entries, 2)
	assert.Equal(t, "CC2024011001", entries[0].ID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", entries[0].Name)
	assert.InDelta(t, -45.99, entries[0].Amount, 1e-9)
	assert.Equal(t, "4111111111111111", entries[0].Account)
}

func TestParseFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractPayee(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{name: "remove POS prefix", tx: ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"}, expected: "STARBUCKS"},
		{name: "remove DEBIT CARD prefix", tx: ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"}, expected: "WHOLE FOODS"},
		{name: "keep clean name", tx: ofxgo.Transaction{Name: "NETFLIX.COM"}, expected: "NETFLIX.COM"},
		{name: "trim whitespace", tx: ofxgo.Transaction{Name: "  AMAZON.COM  "}, expected: "AMAZON.COM"},
		{name: "drop posting date", tx: ofxgo.Transaction{Name: "01/15 CORNER BAKERY"}, expected: "CORNER BAKERY"},
		{name: "generic name uses memo", tx: ofxgo.Transaction{Name: "DEBIT", Memo: "CITY WATER"}, expected: "CITY WATER"},
		{name: "payee wins", tx: ofxgo.Transaction{Name: "X", Payee: &ofxgo.Payee{Name: "Landlord LLC"}}, expected: "Landlord LLC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.extractPayee(tt.tx))
		})
	}
}

func TestSummarize(t *testing.T) {
	bank := parse(t, sampleBankOFX)
	cards := parse(t, sampleCreditCardOFX)

	s := Summarize(append(append([]Entry{}, bank...), cards...))
	assert.Equal(t, 2, s.Months)
	assert.Equal(t, 9, s.Entries)
	assert.InDelta(t, 3100, s.MonthlyIncome, 1e-9)
	assert.InDelta(t, 711.49, s.SpendingMin, 1e-9)
	assert.InDelta(t, 1260, s.SpendingMax, 1e-9)
	require.Len(t, s.TopPayees, 5)
	assert.Equal(t, PayeeTotal{Payee: "RENT", Total: 1200}, s.TopPayees[0])
	assert.Equal(t, PayeeTotal{Payee: "CHECK #1234", Total: 500}, s.TopPayees[1])
	assert.Equal(t, PayeeTotal{Payee: "Whole Foods Market", Total: 125}, s.TopPayees[2])

	// Overlapping statements are counted once.
	assert.Equal(t, s, Summarize(append(append(append([]Entry{}, bank...), cards...), bank...)))

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummary_Apply(t *testing.T) {
	b := model.BudgetState{
		Income: 1000,
		Variable: []model.VariableExpense{
			{Name: "Groceries", Min: 300, Max: 400},
			{Name: ImportedSpendingName, Min: 1, Max: 2},
		},
	}
	s := Summarize(parse(t, sampleBankOFX))
	require.NoError(t, s.Apply(&b))

	assert.Equal(t, model.Number(3100), b.Income)
	require.Len(t, b.Variable, 2)
	assert.Equal(t, "Groceries", b.Variable[0].Name)
	imported := b.Variable[1]
	assert.Equal(t, ImportedSpendingName, imported.Name)
	assert.Equal(t, model.Number(650.5), imported.Min)
	assert.Equal(t, model.Number(1260), imported.Max)
	assert.Equal(t, "2 month(s) of statements", imported.Detail)

	spendOnly := Summarize(parse(t, sampleCreditCardOFX))
	require.NoError(t, spendOnly.Apply(&b))
	assert.Equal(t, model.Number(3100), b.Income)
	assert.Equal(t, model.Number(60.99), b.Variable[1].Min)

	assert.Error(t, Summary{}.Apply(&b))
}

func TestPreprocessOFX(t *testing.T) {
	p := NewParser()
	got := p.preprocessOFX("\n\n<STATUS>\n<SEVERITY>Warn</SEVERITY>\n<BANKTRANLIST\n</STATUS>")
	assert.Equal(t, "<STATUS>\n<SEVERITY>WARN</SEVERITY>\n<BANKTRANLIST>\n</STATUS>", got)
}
