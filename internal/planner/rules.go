package planner

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finlens/internal/common"
	"github.com/Veraticus/finlens/internal/model"
)

// Default labels for rules saved without one.
const (
	DefaultRecurringLabel = "Recurring"
	DefaultOneTimeLabel   = "One-time"
)

// RuleInput is an unvalidated rule edit. End is 0 when the rule is open-ended.
type RuleInput struct {
	Type      string
	Label     string
	Frequency model.Frequency
	Amount    float64
	Start     int
	End       int
}

// Build normalizes the input into a rule with the given id. Amounts are floored
// at 0, the start month at 1, and an end month at the start month.
func (in RuleInput) Build(id model.ID) (model.ContributionRule, error) {
	label := strings.TrimSpace(in.Label)
	amount := max(0, in.Amount)
	start := max(1, in.Start)

	switch in.Type {
	case model.RuleTypeOneTime:
		if label == "" {
			label = DefaultOneTimeLabel
		}
		return model.OneTime{ID: id, Label: label, Amount: amount, Month: start}, nil
	case model.RuleTypeRecurring:
		if label == "" {
			label = DefaultRecurringLabel
		}
		freq := in.Frequency
		if freq == "" {
			freq = model.Monthly
		}
		if _, err := model.ParseFrequency(string(freq)); err != nil {
			return nil, common.NewValidationError("frequency", err.Error())
		}
		end := 0
		if in.End > 0 {
			end = max(start, in.End)
		}
		return model.Recurring{ID: id, Label: label, Frequency: freq, Amount: amount, Start: start, End: end}, nil
	default:
		return nil, common.NewValidationError("type",
			fmt.Sprintf("unknown rule type %q (want %s or %s)", in.Type, model.RuleTypeRecurring, model.RuleTypeOneTime))
	}
}

// AddRule appends a new rule built from the input and returns it.
func AddRule(s *model.PlannerState, in RuleInput) (model.ContributionRule, error) {
	rule, err := in.Build(model.NewID())
	if err != nil {
		return nil, err
	}
	s.Rules = append(s.Rules, rule)
	return rule, nil
}

// UpdateRule replaces the rule with the given id, keeping its id and position.
// Switching a rule to one-time drops its frequency and end month.
func UpdateRule(s *model.PlannerState, id model.ID, in RuleInput) (model.ContributionRule, error) {
	idx := s.Rules.Find(id)
	if idx < 0 {
		return nil, fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
	}
	rule, err := in.Build(id)
	if err != nil {
		return nil, err
	}
	s.Rules[idx] = rule
	return rule, nil
}

// RemoveRule deletes the rule with the given id.
func RemoveRule(s *model.PlannerState, id model.ID) error {
	idx := s.Rules.Find(id)
	if idx < 0 {
		return fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
	}
	s.Rules = append(s.Rules[:idx], s.Rules[idx+1:]...)
	return nil
}

// RuleAt resolves a 1-based position in display order to the rule's id.
func RuleAt(rules model.Rules, number int) (model.ID, error) {
	sorted := SortedForDisplay(rules)
	if number < 1 || number > len(sorted) {
		return "", fmt.Errorf("rule #%d: %w", number, common.ErrNotFound)
	}
	return sorted[number-1].RuleID(), nil
}
