package calculation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// RewardArrays holds the per-state, per-cycle payoff planes for one arm,
// with the half-cycle correction already applied.
type RewardArrays struct {
	// Cost and QALY are numStates x cycles.
	Cost *mat.Dense
	QALY *mat.Dense
}

// costMap flattens a cost table into a state-keyed map, rejecting duplicate
// state keys (index-position alignment over duplicates is undefined).
func costMap(entries []domain.CostEntry, table string) (map[string]float64, error) {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		if _, dup := out[e.State]; dup {
			return nil, &ConfigurationError{State: e.State, Cycle: -1, Reason: fmt.Sprintf("duplicate entry in the %s table", table)}
		}
		out[e.State] = e.Cost.InexactFloat64()
	}
	return out, nil
}

// BuildRewardArrays builds the cost and QALY planes for one arm. The base
// cost and utility tables must cover every state except the absorbing one,
// which defaults to zero for both payoffs; the treatment cost table is an
// optional per-state increment applied on the treatment arm only.
func BuildRewardArrays(m *domain.Model, arm domain.Arm) (*RewardArrays, error) {
	cycles := m.Settings.Cycles
	if len(m.UtilityMultipliers) < cycles {
		return nil, &ConfigurationError{
			Cycle:  -1,
			Reason: fmt.Sprintf("utility multiplier series has %d entries, need %d", len(m.UtilityMultipliers), cycles),
		}
	}

	costs, err := costMap(m.Costs, "cost")
	if err != nil {
		return nil, err
	}
	treatmentCosts, err := costMap(m.TreatmentCosts, "treatment cost")
	if err != nil {
		return nil, err
	}
	utilities := make(map[string]float64, len(m.Utilities))
	for _, u := range m.Utilities {
		if _, dup := utilities[u.State]; dup {
			return nil, &ConfigurationError{State: u.State, Cycle: -1, Reason: "duplicate entry in the utility table"}
		}
		utilities[u.State] = u.Utility
	}

	n := m.NumStates()
	ra := &RewardArrays{
		Cost: mat.NewDense(n, cycles, nil),
		QALY: mat.NewDense(n, cycles, nil),
	}
	for i, state := range m.States {
		cost, hasCost := costs[state]
		utility, hasUtility := utilities[state]
		if state != m.AbsorbingState {
			if !hasCost {
				return nil, &MissingRewardError{State: state, Table: "cost"}
			}
			if !hasUtility {
				return nil, &MissingRewardError{State: state, Table: "utility"}
			}
		}
		if arm == domain.ArmTreatment {
			cost += treatmentCosts[state]
		}
		monthlyUtility := utility / monthsPerYear

		for c := 0; c < cycles; c++ {
			// Trapezoidal half-cycle correction on the boundary cycles.
			factor := 1.0
			if c == 0 || c == cycles-1 {
				factor = 0.5
			}
			ra.Cost.Set(i, c, cost*factor)
			ra.QALY.Set(i, c, monthlyUtility*m.UtilityMultipliers[c]*factor)
		}
	}
	return ra, nil
}
