package model

import (
	"encoding/json"
	"fmt"
)

// Frequency is how often a recurring contribution repeats.
type Frequency string

// Supported recurring frequencies.
const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annual    Frequency = "annual"
)

// Months returns the step between contributions. Unknown frequencies are treated as annual.
func (f Frequency) Months() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	default:
		return 12
	}
}

// ParseFrequency validates a frequency name.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case Monthly, Quarterly, Annual:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q (want monthly, quarterly or annual)", s)
	}
}

// Rule type tags used in persisted documents.
const (
	RuleTypeOneTime   = "one-time"
	RuleTypeRecurring = "recurring"
)

// ContributionRule is either a OneTime or a Recurring contribution.
type ContributionRule interface {
	RuleID() ID
	RuleLabel() string
	// StartMonth is the first month (1-based) the rule contributes in.
	StartMonth() int
	isContributionRule()
}

// OneTime contributes Amount once, in Month (1-based).
type OneTime struct {
	ID     ID
	Label  string
	Amount float64
	Month  int
}

// RuleID implements ContributionRule.
func (r OneTime) RuleID() ID { return r.ID }

// RuleLabel implements ContributionRule.
func (r OneTime) RuleLabel() string { return r.Label }

// StartMonth implements ContributionRule.
func (r OneTime) StartMonth() int { return r.Month }

func (OneTime) isContributionRule() {}

// Recurring contributes Amount every Frequency from Start through End.
// End is 0 when the rule runs to the end of the projection.
type Recurring struct {
	ID        ID
	Label     string
	Frequency Frequency
	Amount    float64
	Start     int
	End       int
}

// RuleID implements ContributionRule.
func (r Recurring) RuleID() ID { return r.ID }

// RuleLabel implements ContributionRule.
func (r Recurring) RuleLabel() string { return r.Label }

// StartMonth implements ContributionRule.
func (r Recurring) StartMonth() int { return r.Start }

func (Recurring) isContributionRule() {}

// ruleDoc is the persisted shape of a contribution rule.
type ruleDoc struct {
	ID         ID     `json:"id"`
	Type       string `json:"type"`
	Label      Text   `json:"label"`
	Frequency  string `json:"frequency,omitempty"`
	Amount     Number `json:"amount"`
	StartMonth Number `json:"startMonth"`
	EndMonth   Number `json:"endMonth,omitempty"`
}

// Rules is an ordered set of contribution rules with a tagged JSON encoding.
type Rules []ContributionRule

// MarshalJSON implements json.Marshaler.
func (rs Rules) MarshalJSON() ([]byte, error) {
	docs := make([]ruleDoc, 0, len(rs))
	for _, r := range rs {
		switch r := r.(type) {
		case OneTime:
			docs = append(docs, ruleDoc{
				ID:         r.ID,
				Type:       RuleTypeOneTime,
				Label:      Text(r.Label),
				Amount:     Number(r.Amount),
				StartMonth: Number(r.Month),
			})
		case Recurring:
			docs = append(docs, ruleDoc{
				ID:         r.ID,
				Type:       RuleTypeRecurring,
				Label:      Text(r.Label),
				Frequency:  string(r.Frequency),
				Amount:     Number(r.Amount),
				StartMonth: Number(r.Start),
				EndMonth:   Number(r.End),
			})
		default:
			return nil, fmt.Errorf("unsupported contribution rule %T", r)
		}
	}
	return json.Marshal(docs)
}

// UnmarshalJSON implements json.Unmarshaler. Entries with an unknown type are dropped.
func (rs *Rules) UnmarshalJSON(data []byte) error {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		*rs = Rules{}
		return nil
	}

	out := make(Rules, 0, len(docs))
	for _, raw := range docs {
		var doc ruleDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		switch doc.Type {
		case RuleTypeOneTime:
			out = append(out, OneTime{
				ID:     doc.ID,
				Label:  string(doc.Label),
				Amount: doc.Amount.Float(),
				Month:  doc.StartMonth.Int(),
			})
		case RuleTypeRecurring:
			out = append(out, Recurring{
				ID:        doc.ID,
				Label:     string(doc.Label),
				Frequency: Frequency(doc.Frequency),
				Amount:    doc.Amount.Float(),
				Start:     doc.StartMonth.Int(),
				End:       doc.EndMonth.Int(),
			})
		}
	}
	*rs = out
	return nil
}

// Find returns the index of the rule with the given id, or -1.
func (rs Rules) Find(id ID) int {
	for i, r := range rs {
		if r.RuleID() == id {
			return i
		}
	}
	return -1
}
