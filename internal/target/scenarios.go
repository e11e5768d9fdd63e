package target

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

// ScenarioAt returns the scenario at the 1-based position.
func ScenarioAt(s *model.TargetState, number int) (*model.TargetScenario, error) {
	if number < 1 || number > len(s.Scenarios) {
		return nil, fmt.Errorf("scenario #%d: %w", number, common.ErrNotFound)
	}
	return &s.Scenarios[number-1], nil
}

// Select makes the scenario at the 1-based position active.
func Select(s *model.TargetState, number int) error {
	if _, err := ScenarioAt(s, number); err != nil {
		return err
	}
	s.ActiveIndex = model.Number(number - 1)
	return nil
}

// ComputeScenario runs the engine for a saved scenario and caches the
// summary on success. A failed calculation leaves the cached result alone.
func ComputeScenario(sc *model.TargetScenario, now time.Time) (model.InvestmentResult, error) {
	result, err := Compute(sc.Scenario(), now)
	if err != nil {
		return model.InvestmentResult{}, err
	}
	sc.Result = result.Summary()
	return result, nil
}

// ScenarioFile is a scenario described in YAML. Only the fields present
// override the scenario they are applied to.
type ScenarioFile struct {
	Name              *string  `yaml:"name"`
	TargetDate        *string  `yaml:"target_date"`
	BirthDate         *string  `yaml:"birth_date"`
	TargetAge         *int     `yaml:"target_age"`
	TargetIncome      *float64 `yaml:"target_income"`
	AnnualReturn      *float64 `yaml:"annual_return"`
	InitialInvestment *float64 `yaml:"initial_investment"`
	WithdrawalRate    *float64 `yaml:"withdrawal_rate"`
	InflationRate     *float64 `yaml:"inflation_rate"`
	ProjectionYears   *int     `yaml:"projection_years"`
}

// LoadScenarioFile decodes a YAML scenario, rejecting unknown fields and
// unparseable dates.
func LoadScenarioFile(r io.Reader) (ScenarioFile, error) {
	var f ScenarioFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return ScenarioFile{}, fmt.Errorf("failed to decode scenario file: %w", err)
	}
	for field, v := range map[string]*string{"target_date": f.TargetDate, "birth_date": f.BirthDate} {
		if v == nil || *v == "" {
			continue
		}
		if _, ok := model.ParseDate(*v); !ok {
			return ScenarioFile{}, common.NewValidationError(field, fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", *v))
		}
	}
	return f, nil
}

// ApplyTo overrides sc with the fields present in the file. Setting a
// target date switches the scenario to date mode; setting a birth date
// switches it to age mode.
func (f ScenarioFile) ApplyTo(sc *model.TargetScenario) {
	if f.Name != nil {
		sc.Name = *f.Name
	}
	if f.TargetDate != nil {
		sc.TargetDate = *f.TargetDate
		sc.BirthDate = ""
	}
	if f.BirthDate != nil {
		sc.BirthDate = *f.BirthDate
	}
	if f.TargetAge != nil {
		sc.TargetAge = model.Number(*f.TargetAge)
	}
	setNumber(&sc.TargetIncome, f.TargetIncome)
	setNumber(&sc.AnnualReturn, f.AnnualReturn)
	setNumber(&sc.InitialInvestment, f.InitialInvestment)
	setNumber(&sc.WithdrawalRate, f.WithdrawalRate)
	setNumber(&sc.InflationRate, f.InflationRate)
	if f.ProjectionYears != nil {
		sc.ProjectionYears = model.Number(*f.ProjectionYears)
	}
}

func setNumber(dst *model.Number, v *float64) {
	if v != nil {
		*dst = model.Number(*v)
	}
}
