package model

import "encoding/json"

// Risk tolerance levels used to pick a default expected return.
const (
	RiskConservative = "Conservative"
	RiskModerate     = "Moderate"
	RiskAggressive   = "Aggressive"
)

// Fallback values used when the profile does not override them.
const (
	DefaultCurrencyCode   = "USD"
	DefaultInflationRate  = 2.5
	DefaultWithdrawalRate = 4.0
)

// ExpectedReturnByRisk maps a risk tolerance to an annual return percentage.
var ExpectedReturnByRisk = map[string]float64{
	RiskConservative: 5,
	RiskModerate:     7,
	RiskAggressive:   9,
}

// Profile is the shared "about you" document read by every tool for defaults.
type Profile struct {
	ExpectedReturnDefault *Number `json:"expectedReturnDefault,omitempty"`
	InflationDefault      *Number `json:"inflationDefault,omitempty"`
	SWRDefault            *Number `json:"swrDefault,omitempty"`
	RiskTolerance         string  `json:"riskTolerance,omitempty"`
	CurrencyCode          string  `json:"currencyCode,omitempty"`
	DateOfBirth           string  `json:"dateOfBirth,omitempty"`
	Income                Number  `json:"income,omitempty"`
	RetireAge             Number  `json:"retireAge,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	doc := struct {
		*plain
		RiskTolerance Text `json:"riskTolerance"`
		CurrencyCode  Text `json:"currencyCode"`
		DateOfBirth   Text `json:"dateOfBirth"`
	}{
		plain:         (*plain)(p),
		RiskTolerance: Text(p.RiskTolerance),
		CurrencyCode:  Text(p.CurrencyCode),
		DateOfBirth:   Text(p.DateOfBirth),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.RiskTolerance = string(doc.RiskTolerance)
	p.CurrencyCode = string(doc.CurrencyCode)
	p.DateOfBirth = string(doc.DateOfBirth)
	return nil
}

// RateDefaults are the profile-derived starting rates for new scenarios.
type RateDefaults struct {
	ExpectedReturn float64
	Inflation      float64
	WithdrawalRate float64
}

// Currency returns the preferred currency code.
func (p Profile) Currency() string {
	if p.CurrencyCode == "" {
		return DefaultCurrencyCode
	}
	return p.CurrencyCode
}

// Defaults resolves rate defaults. A zero expected return falls back to the
// risk table; explicit zero inflation or withdrawal rates are respected.
func (p Profile) Defaults() RateDefaults {
	d := RateDefaults{
		Inflation:      DefaultInflationRate,
		WithdrawalRate: DefaultWithdrawalRate,
	}

	if p.ExpectedReturnDefault != nil && p.ExpectedReturnDefault.Float() != 0 {
		d.ExpectedReturn = p.ExpectedReturnDefault.Float()
	} else if r, ok := ExpectedReturnByRisk[p.RiskTolerance]; ok {
		d.ExpectedReturn = r
	} else {
		d.ExpectedReturn = ExpectedReturnByRisk[RiskModerate]
	}

	if p.InflationDefault != nil {
		d.Inflation = p.InflationDefault.Float()
	}
	if p.SWRDefault != nil {
		d.WithdrawalRate = p.SWRDefault.Float()
	}
	return d
}
