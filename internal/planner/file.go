package planner

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/finlens/internal/model"
)

// RuleSpec is a contribution rule in a plan file. One-time rules give
// Month; recurring rules give Start and optionally End.
type RuleSpec struct {
	Type      string  `yaml:"type"`
	Label     string  `yaml:"label"`
	Frequency string  `yaml:"frequency"`
	Amount    float64 `yaml:"amount"`
	Month     int     `yaml:"month"`
	Start     int     `yaml:"start"`
	End       int     `yaml:"end"`
}

// Input converts the file entry into a rule edit.
func (r RuleSpec) Input() RuleInput {
	start := r.Start
	if r.Type == model.RuleTypeOneTime && r.Month != 0 {
		start = r.Month
	}
	return RuleInput{
		Type:      r.Type,
		Label:     r.Label,
		Frequency: model.Frequency(r.Frequency),
		Amount:    r.Amount,
		Start:     start,
		End:       r.End,
	}
}

// PlanFile is a planner setup described in YAML. Settings left out keep
// their current values; a rules list replaces every existing rule.
type PlanFile struct {
	InitialInvestment  *float64   `yaml:"initial_investment"`
	AnnualReturn       *float64   `yaml:"annual_return"`
	InflationRate      *float64   `yaml:"inflation_rate"`
	ProjectionYears    *float64   `yaml:"projection_years"`
	AdjustForInflation *bool      `yaml:"adjust_for_inflation"`
	Rules              []RuleSpec `yaml:"rules"`
}

// LoadPlanFile decodes a YAML plan, rejecting unknown fields.
func LoadPlanFile(r io.Reader) (PlanFile, error) {
	var f PlanFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return PlanFile{}, fmt.Errorf("failed to decode plan file: %w", err)
	}
	return f, nil
}

// ApplyTo validates every rule first and only then updates s, so a bad
// file leaves the plan untouched.
func (f PlanFile) ApplyTo(s *model.PlannerState) error {
	var rules model.Rules
	for i, spec := range f.Rules {
		rule, err := spec.Input().Build(model.NewID())
		if err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}

	setNumber(&s.InitialInvestment, f.InitialInvestment)
	setNumber(&s.AnnualReturn, f.AnnualReturn)
	setNumber(&s.InflationRate, f.InflationRate)
	setNumber(&s.ProjectionYears, f.ProjectionYears)
	if f.AdjustForInflation != nil {
		s.AdjustForInflation = *f.AdjustForInflation
	}
	if len(f.Rules) > 0 {
		s.Rules = rules
	}
	return nil
}

func setNumber(dst *model.Number, v *float64) {
	if v != nil {
		*dst = model.Number(*v)
	}
}
