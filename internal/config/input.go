package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// Default state names used when the model file leaves them unset.
const (
	DefaultAbsorbingState = "Death"
	DefaultInitialState   = "Hypertension"
)

// InputParser handles parsing of model definition files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a model definition from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var model domain.Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if model.AbsorbingState == "" {
		model.AbsorbingState = DefaultAbsorbingState
	}
	if model.InitialState == "" {
		model.InitialState = DefaultInitialState
	}

	if err := ip.ValidateModel(&model); err != nil {
		return nil, fmt.Errorf("model validation failed: %w", err)
	}
	return &model, nil
}

// ValidateModel validates the loaded model definition.
func (ip *InputParser) ValidateModel(m *domain.Model) error {
	if err := ip.validateStateSpace(m); err != nil {
		return err
	}
	if err := ip.validateSettings(&m.Settings); err != nil {
		return err
	}
	if err := ip.validateTransitions(m); err != nil {
		return err
	}
	if err := ip.validateMortality(m); err != nil {
		return err
	}
	if err := ip.validateRewards(m); err != nil {
		return err
	}
	return nil
}

func (ip *InputParser) validateStateSpace(m *domain.Model) error {
	if len(m.States) == 0 {
		return fmt.Errorf("no states provided")
	}
	seen := make(map[string]bool, len(m.States))
	for _, s := range m.States {
		if s == "" {
			return fmt.Errorf("state names cannot be empty")
		}
		if seen[s] {
			return fmt.Errorf("duplicate state %q", s)
		}
		seen[s] = true
	}
	if !m.HasState(m.AbsorbingState) {
		return fmt.Errorf("absorbing state %q is not in the state space", m.AbsorbingState)
	}
	if !m.HasState(m.InitialState) {
		return fmt.Errorf("initial state %q is not in the state space", m.InitialState)
	}
	if m.AbsorbingState == m.InitialState {
		return fmt.Errorf("initial state cannot be the absorbing state")
	}
	return nil
}

func (ip *InputParser) validateSettings(s *domain.Settings) error {
	if s.Cycles <= 0 {
		return fmt.Errorf("cycle count must be positive, got %d", s.Cycles)
	}
	if s.DiscountRatePercent < 0 || s.DiscountRatePercent > 100 {
		return fmt.Errorf("discount rate must be between 0 and 100 percent, got %g", s.DiscountRatePercent)
	}
	return nil
}

func (ip *InputParser) validateTransitions(m *domain.Model) error {
	type pair struct{ from, to string }
	seen := make(map[pair]bool, len(m.TransitionRates))
	for _, tr := range m.TransitionRates {
		if !m.HasState(tr.From) {
			return fmt.Errorf("transition rate references unknown state %q", tr.From)
		}
		if !m.HasState(tr.To) {
			return fmt.Errorf("transition rate references unknown state %q", tr.To)
		}
		if tr.From == m.AbsorbingState {
			return fmt.Errorf("absorbing state %q cannot have outgoing transitions", tr.From)
		}
		if tr.From == tr.To {
			return fmt.Errorf("transition rate %s -> %s: self-transitions are derived by residual balancing, not specified", tr.From, tr.To)
		}
		if tr.AnnualRate < 0 {
			return fmt.Errorf("transition rate %s -> %s cannot be negative", tr.From, tr.To)
		}
		p := pair{tr.From, tr.To}
		if seen[p] {
			return fmt.Errorf("duplicate transition rate %s -> %s", tr.From, tr.To)
		}
		seen[p] = true
	}

	for _, table := range [][]domain.HazardRatio{m.HazardRatios, m.TreatmentHazardRatios} {
		for _, hr := range table {
			if !m.HasState(hr.From) {
				return fmt.Errorf("hazard ratio references unknown state %q", hr.From)
			}
			if !m.HasState(hr.To) {
				return fmt.Errorf("hazard ratio references unknown state %q", hr.To)
			}
			if hr.HR < 0 {
				return fmt.Errorf("hazard ratio %s -> %s cannot be negative", hr.From, hr.To)
			}
		}
	}
	return nil
}

func (ip *InputParser) validateMortality(m *domain.Model) error {
	if len(m.BackgroundMortality) < m.Settings.Cycles {
		return fmt.Errorf("background mortality series has %d entries, need one per cycle (%d)",
			len(m.BackgroundMortality), m.Settings.Cycles)
	}
	for i, p := range m.BackgroundMortality {
		if p < 0 || p >= 1 {
			return fmt.Errorf("background mortality at cycle %d must be in [0,1), got %g", i, p)
		}
	}
	return nil
}

func (ip *InputParser) validateRewards(m *domain.Model) error {
	for _, table := range []struct {
		name    string
		entries []domain.CostEntry
	}{{"costs", m.Costs}, {"treatment_costs", m.TreatmentCosts}} {
		seen := make(map[string]bool, len(table.entries))
		for _, e := range table.entries {
			if !m.HasState(e.State) {
				return fmt.Errorf("%s references unknown state %q", table.name, e.State)
			}
			if seen[e.State] {
				return fmt.Errorf("%s has a duplicate entry for state %q", table.name, e.State)
			}
			seen[e.State] = true
			if e.Cost.LessThan(decimal.Zero) {
				return fmt.Errorf("%s for state %q cannot be negative", table.name, e.State)
			}
		}
	}

	seen := make(map[string]bool, len(m.Utilities))
	for _, u := range m.Utilities {
		if !m.HasState(u.State) {
			return fmt.Errorf("utilities references unknown state %q", u.State)
		}
		if seen[u.State] {
			return fmt.Errorf("utilities has a duplicate entry for state %q", u.State)
		}
		seen[u.State] = true
		if u.Utility < 0 || u.Utility > 1 {
			return fmt.Errorf("utility for state %q must be in [0,1], got %g", u.State, u.Utility)
		}
	}

	if len(m.UtilityMultipliers) < m.Settings.Cycles {
		return fmt.Errorf("utility multiplier series has %d entries, need one per cycle (%d)",
			len(m.UtilityMultipliers), m.Settings.Cycles)
	}
	for i, mult := range m.UtilityMultipliers {
		if mult < 0 {
			return fmt.Errorf("utility multiplier at cycle %d cannot be negative", i)
		}
	}
	return nil
}

// CreateExampleModel builds a complete hypertension model covering every
// table: a four-state space, stroke incidence with disease and treatment
// hazard ratios, an aging background mortality series and ten years of
// monthly cycles.
func (ip *InputParser) CreateExampleModel() *domain.Model {
	const cycles = 120

	background := make([]float64, cycles)
	multipliers := make([]float64, cycles)
	for c := 0; c < cycles; c++ {
		// Annual death probability drifts upward as the cohort ages; utility
		// declines slowly over the horizon.
		background[c] = 0.008 + 0.00005*float64(c)
		multipliers[c] = 1 - 0.0004*float64(c)
	}

	return &domain.Model{
		States:         []string{"Hypertension", "Stroke", "Post-Stroke", "Death"},
		AbsorbingState: "Death",
		InitialState:   "Hypertension",
		TransitionRates: []domain.TransitionRate{
			{From: "Hypertension", To: "Stroke", AnnualRate: 0.025},
			{From: "Stroke", To: "Post-Stroke", AnnualRate: 6.0},
		},
		HazardRatios: []domain.HazardRatio{
			{From: "Stroke", To: "Death", HR: 5.0},
			{From: "Post-Stroke", To: "Death", HR: 2.0},
		},
		TreatmentHazardRatios: []domain.HazardRatio{
			{From: "Hypertension", To: "Stroke", HR: 0.65},
			{From: "Stroke", To: "Death", HR: 0.8},
			{From: "Post-Stroke", To: "Death", HR: 0.9},
		},
		BackgroundMortality: background,
		Costs: []domain.CostEntry{
			{State: "Hypertension", Cost: decimal.NewFromFloat(45)},
			{State: "Stroke", Cost: decimal.NewFromFloat(5200)},
			{State: "Post-Stroke", Cost: decimal.NewFromFloat(480)},
		},
		TreatmentCosts: []domain.CostEntry{
			{State: "Hypertension", Cost: decimal.NewFromFloat(28.5)},
			{State: "Stroke", Cost: decimal.NewFromFloat(28.5)},
			{State: "Post-Stroke", Cost: decimal.NewFromFloat(28.5)},
		},
		Utilities: []domain.UtilityEntry{
			{State: "Hypertension", Utility: 0.92},
			{State: "Stroke", Utility: 0.45},
			{State: "Post-Stroke", Utility: 0.71},
		},
		UtilityMultipliers: multipliers,
		Settings: domain.Settings{
			Cycles:              cycles,
			DiscountRatePercent: 3.5,
		},
	}
}

// WriteExampleFile marshals the example model to YAML at the given path.
func (ip *InputParser) WriteExampleFile(filename string) error {
	data, err := yaml.Marshal(ip.CreateExampleModel())
	if err != nil {
		return fmt.Errorf("failed to marshal example model: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
