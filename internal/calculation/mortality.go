package calculation

import (
	"fmt"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// BackgroundMortality holds the cycle-indexed baseline mortality of the
// general population and, per disease state with a mortality hazard ratio, a
// derived series with the ratio composed onto the baseline rate. States
// without a ratio share the baseline series (competing-risk semantics: the
// disease scales the population hazard, it does not add to it).
type BackgroundMortality struct {
	// BaselineRate[c] and BaselineProb[c] are the monthly mortality rate and
	// probability for cycle c.
	BaselineRate []float64
	BaselineProb []float64

	// Adjusted maps a state name to its hazard-adjusted monthly probability
	// series. Keyed by state identifier, never by derived table name.
	Adjusted map[string][]float64
}

// AdjustedProb returns the monthly mortality probability for a state at a
// cycle: its adjusted series when it has one, the baseline otherwise.
func (bm *BackgroundMortality) AdjustedProb(state string, cycle int) float64 {
	if series, ok := bm.Adjusted[state]; ok {
		return series[cycle]
	}
	return bm.BaselineProb[cycle]
}

// HasAdjustment reports whether a state carries a disease mortality hazard
// ratio.
func (bm *BackgroundMortality) HasAdjustment(state string) bool {
	_, ok := bm.Adjusted[state]
	return ok
}

// BuildBackgroundMortality converts the annual background mortality series to
// monthly rates and probabilities for the first cycles entries, then derives
// one adjusted series per state with a disease mortality hazard ratio (rows
// of the disease table whose To is the absorbing state).
func BuildBackgroundMortality(m *domain.Model) (*BackgroundMortality, error) {
	cycles := m.Settings.Cycles
	if len(m.BackgroundMortality) < cycles {
		return nil, &ConfigurationError{
			Cycle:  -1,
			Reason: fmt.Sprintf("background mortality series has %d entries, need %d", len(m.BackgroundMortality), cycles),
		}
	}

	bm := &BackgroundMortality{
		BaselineRate: make([]float64, cycles),
		BaselineProb: make([]float64, cycles),
		Adjusted:     make(map[string][]float64),
	}
	for c := 0; c < cycles; c++ {
		rate, prob, err := AnnualProbToMonthlyRateProb(m.BackgroundMortality[c])
		if err != nil {
			return nil, fmt.Errorf("background mortality at cycle %d: %w", c, err)
		}
		bm.BaselineRate[c] = rate
		bm.BaselineProb[c] = prob
	}

	for _, hr := range m.HazardRatios {
		if hr.To != m.AbsorbingState {
			continue
		}
		series := make([]float64, cycles)
		for c := 0; c < cycles; c++ {
			prob, err := ComposeHazard(bm.BaselineRate[c], hr.HR)
			if err != nil {
				return nil, fmt.Errorf("mortality adjustment for state %q at cycle %d: %w", hr.From, c, err)
			}
			series[c] = prob
		}
		bm.Adjusted[hr.From] = series
	}
	return bm, nil
}
