package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TransitionRate is one row of the clinical transition rate table: the annual
// event rate for moving between two disease states.
type TransitionRate struct {
	From       string  `yaml:"from" json:"from"`
	To         string  `yaml:"to" json:"to"`
	AnnualRate float64 `yaml:"annual_rate" json:"annual_rate"`
}

// HazardRatio is a multiplicative adjustment on the underlying event rate for
// one transition. Mortality hazard ratios have To equal to the absorbing state.
type HazardRatio struct {
	From string  `yaml:"from" json:"from"`
	To   string  `yaml:"to" json:"to"`
	HR   float64 `yaml:"hr" json:"hr"`
}

// CostEntry is the monthly cost attached to occupying a state for one cycle.
type CostEntry struct {
	State string          `yaml:"state" json:"state"`
	Cost  decimal.Decimal `yaml:"cost" json:"cost"`
}

// UnmarshalYAML implements custom YAML unmarshaling for CostEntry, accepting
// the cost as a plain YAML number or string and converting it to a decimal.
func (ce *CostEntry) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		State string `yaml:"state"`
		Cost  string `yaml:"cost"`
	}
	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}
	cost, err := decimal.NewFromString(aux.Cost)
	if err != nil {
		return fmt.Errorf("cost for state %q: %w", aux.State, err)
	}
	ce.State = aux.State
	ce.Cost = cost
	return nil
}

// MarshalYAML renders the cost as a string so the round trip stays exact.
func (ce CostEntry) MarshalYAML() (interface{}, error) {
	return struct {
		State string `yaml:"state"`
		Cost  string `yaml:"cost"`
	}{State: ce.State, Cost: ce.Cost.String()}, nil
}

// UtilityEntry is the annual health utility of a state (1.0 = full health).
type UtilityEntry struct {
	State   string  `yaml:"state" json:"state"`
	Utility float64 `yaml:"utility" json:"utility"`
}

// Settings holds the two run parameters the interactive layer collects.
type Settings struct {
	Cycles int `yaml:"cycles" json:"cycles"`
	// DiscountRatePercent is the annual discount rate expressed as a
	// percentage (0-100), the way it arrives from the input form.
	DiscountRatePercent float64 `yaml:"discount_rate_percent" json:"discount_rate_percent"`
}

// DiscountRateFraction returns the annual discount rate as a fraction.
func (s Settings) DiscountRateFraction() float64 {
	return s.DiscountRatePercent / 100
}

// Model is the complete parsed input to the engine: the state space, the
// clinical tables shared by both arms, the treatment-specific tables, and the
// run settings. All tables are read-only once validated.
type Model struct {
	States         []string `yaml:"states" json:"states"`
	AbsorbingState string   `yaml:"absorbing_state" json:"absorbing_state"`
	InitialState   string   `yaml:"initial_state" json:"initial_state"`

	TransitionRates       []TransitionRate `yaml:"transition_rates" json:"transition_rates"`
	HazardRatios          []HazardRatio    `yaml:"hazard_ratios" json:"hazard_ratios"`
	TreatmentHazardRatios []HazardRatio    `yaml:"treatment_hazard_ratios" json:"treatment_hazard_ratios"`

	// BackgroundMortality is the cycle-indexed annual probability of death in
	// the general population, one entry per monthly cycle (aging cohort).
	BackgroundMortality []float64 `yaml:"background_mortality" json:"background_mortality"`

	Costs          []CostEntry    `yaml:"costs" json:"costs"`
	TreatmentCosts []CostEntry    `yaml:"treatment_costs" json:"treatment_costs"`
	Utilities      []UtilityEntry `yaml:"utilities" json:"utilities"`

	// UtilityMultipliers scales the monthly utility per cycle (age-related
	// decline). One entry per cycle; identical for both arms.
	UtilityMultipliers []float64 `yaml:"utility_multipliers" json:"utility_multipliers"`

	Settings Settings `yaml:"settings" json:"settings"`
}

// NumStates returns the size of the state space.
func (m *Model) NumStates() int { return len(m.States) }

// StateIndex returns the position of a state in the ordered state space, or
// -1 when the state is not part of it.
func (m *Model) StateIndex(name string) int {
	for i, s := range m.States {
		if s == name {
			return i
		}
	}
	return -1
}

// HasState reports whether name is part of the state space.
func (m *Model) HasState(name string) bool { return m.StateIndex(name) >= 0 }
