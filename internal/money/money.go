// Package money holds the rounding policies of the calculators and formats
// amounts as currency strings.
package money

import (
	"math"

	"github.com/Veraticus/finlens/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Round rounds half towards positive infinity, so Round(-2.5) is -2.
// The amortization and target engines both round this way.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Round2 rounds to cents using Round.
func Round2(v float64) float64 {
	return Round(v*100) / 100
}

// Round1 rounds to one decimal place using Round.
func Round1(v float64) float64 {
	return Round(v*10) / 10
}

// RoundAll applies Round to every element, returning a new slice.
func RoundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Round(v)
	}
	return out
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"ZAR": "R",
}

// Symbol returns the display prefix for a currency code. Codes without a
// known symbol are shown as the code followed by a space.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code + " "
}

// Formatter renders whole-unit currency strings such as "$1,234".
type Formatter struct {
	printer *message.Printer
	code    string
}

// NewFormatter creates a formatter for the given currency code (USD when empty).
func NewFormatter(code string) *Formatter {
	if code == "" {
		code = model.DefaultCurrencyCode
	}
	return &Formatter{
		code:    code,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
}

// ForProfile creates a formatter using the profile's currency preference.
func ForProfile(p model.Profile) *Formatter {
	return NewFormatter(p.Currency())
}

// Code returns the currency code.
func (f *Formatter) Code() string {
	return f.code
}

// Number formats v with no fraction digits and en-US grouping. Halves round
// away from zero.
func (f *Formatter) Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	whole := decimal.NewFromFloat(v).Round(0).IntPart()
	return f.printer.Sprintf("%d", whole)
}

// Currency formats v with the currency symbol, e.g. "$1,234" or "$-50".
func (f *Formatter) Currency(v float64) string {
	return Symbol(f.code) + f.Number(v)
}
