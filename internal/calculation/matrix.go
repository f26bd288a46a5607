package calculation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// rowSumTolerance absorbs floating-point noise when deciding whether a row's
// specified probabilities exceed 1 before residual balancing.
const rowSumTolerance = 1e-9

// TransitionMatrixBuilder assembles the cycle-indexed sequence of
// row-stochastic transition matrices for one arm. The build is two-phase:
// every specified cell value is computed into sparse maps first, then each
// cycle's dense matrix is materialized, balanced and normalized.
type TransitionMatrixBuilder struct {
	model     *domain.Model
	mortality *BackgroundMortality
	arm       domain.Arm
	logger    Logger
}

// NewTransitionMatrixBuilder creates a builder for one arm. A nil logger is
// replaced with a no-op one.
func NewTransitionMatrixBuilder(m *domain.Model, bm *BackgroundMortality, arm domain.Arm, logger Logger) *TransitionMatrixBuilder {
	if logger == nil {
		logger = NopLogger{}
	}
	return &TransitionMatrixBuilder{model: m, mortality: bm, arm: arm, logger: logger}
}

// treatmentHR returns the treatment hazard ratio for a transition, if the arm
// is the treatment arm and one is configured.
func (b *TransitionMatrixBuilder) treatmentHR(from, to string) (float64, bool) {
	if b.arm != domain.ArmTreatment {
		return 0, false
	}
	for _, hr := range b.model.TreatmentHazardRatios {
		if hr.From == from && hr.To == to {
			return hr.HR, true
		}
	}
	return 0, false
}

func (b *TransitionMatrixBuilder) diseaseHR(from, to string) (float64, bool) {
	for _, hr := range b.model.HazardRatios {
		if hr.From == from && hr.To == to {
			return hr.HR, true
		}
	}
	return 0, false
}

// constantCells merges the rate table with the hazard-ratio tables and
// returns the cycle-invariant cells as a sparse from->to->probability map.
func (b *TransitionMatrixBuilder) constantCells() (map[int]map[int]float64, error) {
	m := b.model
	cells := make(map[int]map[int]float64)
	for _, tr := range m.TransitionRates {
		from := m.StateIndex(tr.From)
		to := m.StateIndex(tr.To)
		if from < 0 {
			return nil, &ConfigurationError{State: tr.From, Cycle: -1, Reason: "transition source is not in the state space"}
		}
		if to < 0 {
			return nil, &ConfigurationError{State: tr.To, Cycle: -1, Reason: "transition target is not in the state space"}
		}
		if tr.From == m.AbsorbingState {
			return nil, &ConfigurationError{State: tr.From, Cycle: -1, Reason: "absorbing state cannot have outgoing transitions"}
		}
		if tr.From == tr.To {
			return nil, &ConfigurationError{State: tr.From, Cycle: -1, Reason: "self-transition rate conflicts with residual balancing"}
		}
		if _, dup := cells[from][to]; dup {
			return nil, &ConfigurationError{State: tr.From, Cycle: -1, Reason: fmt.Sprintf("duplicate transition rate to %q", tr.To)}
		}

		monthlyRate := tr.AnnualRate / monthsPerYear
		prob, err := AnnualRateToMonthlyProb(tr.AnnualRate)
		if err != nil {
			return nil, fmt.Errorf("transition %s -> %s: %w", tr.From, tr.To, err)
		}
		if hr, ok := b.diseaseHR(tr.From, tr.To); ok {
			prob, err = ComposeHazard(monthlyRate, hr)
			if err != nil {
				return nil, fmt.Errorf("transition %s -> %s: %w", tr.From, tr.To, err)
			}
		}
		if hr, ok := b.treatmentHR(tr.From, tr.To); ok {
			prob, err = ComposeSequentialHazard(prob, hr)
			if err != nil {
				return nil, fmt.Errorf("transition %s -> %s: %w", tr.From, tr.To, err)
			}
		}

		if cells[from] == nil {
			cells[from] = make(map[int]float64)
		}
		cells[from][to] = prob
	}
	return cells, nil
}

// mortalityColumns builds the cycle-varying death-column series for every
// non-absorbing state whose mortality is not already pinned by an explicit
// rate-table transition. Each qualifying state gets its own series: the
// baseline (or disease-adjusted) background mortality, with the treatment
// mortality hazard composed on top for the treatment arm.
func (b *TransitionMatrixBuilder) mortalityColumns(cells map[int]map[int]float64) (map[int][]float64, error) {
	m := b.model
	cycles := m.Settings.Cycles
	absorbing := m.StateIndex(m.AbsorbingState)

	columns := make(map[int][]float64)
	for i, state := range m.States {
		if i == absorbing {
			continue
		}
		if _, explicit := cells[i][absorbing]; explicit {
			continue
		}
		series := make([]float64, cycles)
		hr, hasTreatHR := b.treatmentHR(state, m.AbsorbingState)
		for c := 0; c < cycles; c++ {
			prob := b.mortality.AdjustedProb(state, c)
			if hasTreatHR {
				var err error
				prob, err = ComposeSequentialHazard(prob, hr)
				if err != nil {
					return nil, fmt.Errorf("mortality for state %s at cycle %d: %w", state, c, err)
				}
			}
			series[c] = prob
		}
		columns[i] = series
	}
	return columns, nil
}

// Build produces the full per-cycle transition matrix sequence for the arm.
// Every returned slice is row-stochastic with the absorbing state's row fixed
// to its unit vector. A row whose specified probabilities exceed 1 has its
// residual clamped to zero and is reported through the logger.
func (b *TransitionMatrixBuilder) Build() ([]*mat.Dense, error) {
	m := b.model
	n := m.NumStates()
	cycles := m.Settings.Cycles
	absorbing := m.StateIndex(m.AbsorbingState)
	if absorbing < 0 {
		return nil, &ConfigurationError{State: m.AbsorbingState, Cycle: -1, Reason: "absorbing state is not in the state space"}
	}

	cells, err := b.constantCells()
	if err != nil {
		return nil, err
	}
	deathColumns, err := b.mortalityColumns(cells)
	if err != nil {
		return nil, err
	}

	warned := make(map[int]bool)
	matrices := make([]*mat.Dense, cycles)
	for c := 0; c < cycles; c++ {
		tm := mat.NewDense(n, n, nil)
		for from, row := range cells {
			for to, prob := range row {
				tm.Set(from, to, prob)
			}
		}
		for state, series := range deathColumns {
			tm.Set(state, absorbing, series[c])
		}

		// Residual balancing: the stay-in-state cell absorbs whatever mass
		// the specified transitions leave, floored at zero.
		for from := 0; from < n; from++ {
			if from == absorbing {
				continue
			}
			sum := floats.Sum(tm.RawRowView(from))
			if sum > 1+rowSumTolerance && !warned[from] {
				warned[from] = true
				b.logger.Warnf("%s arm: transition row for state %q sums to %.6f at cycle %d; residual clamped to 0",
					b.arm, m.States[from], sum, c)
			}
			residual := 1 - sum
			if residual < 0 {
				residual = 0
			}
			tm.Set(from, from, residual)
		}

		tm.Set(absorbing, absorbing, 1)

		for from := 0; from < n; from++ {
			row := tm.RawRowView(from)
			sum := floats.Sum(row)
			if sum == 0 {
				return nil, &ConfigurationError{State: m.States[from], Cycle: c, Reason: "state has no transitions; row would normalize to NaN"}
			}
			floats.Scale(1/sum, row)
		}
		matrices[c] = tm
	}
	return matrices, nil
}
