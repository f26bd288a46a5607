package calculation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MonthlyDiscountRate converts an annual discount rate (fraction) to the
// effective monthly rate.
func MonthlyDiscountRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/monthsPerYear) - 1
}

// DiscountFactors returns the per-cycle discount factors 1/(1+r)^c for a
// monthly rate r. The factor at cycle 0 is always 1.
func DiscountFactors(monthlyRate float64, cycles int) []float64 {
	factors := make([]float64, cycles)
	for c := 0; c < cycles; c++ {
		factors[c] = 1 / math.Pow(1+monthlyRate, float64(c))
	}
	return factors
}

// RewardTrace reduces the membership distribution and reward planes to
// per-cycle cost and QALY traces: each entry is the dot product of the
// cycle's membership row with the cycle's reward column.
func RewardTrace(membership *mat.Dense, rewards *RewardArrays) (cost, qaly []float64) {
	cycles, numStates := membership.Dims()
	cost = make([]float64, cycles)
	qaly = make([]float64, cycles)
	col := make([]float64, numStates)
	for c := 0; c < cycles; c++ {
		row := membership.RawRowView(c)
		mat.Col(col, c, rewards.Cost)
		cost[c] = floats.Dot(row, col)
		mat.Col(col, c, rewards.QALY)
		qaly[c] = floats.Dot(row, col)
	}
	return cost, qaly
}

// DiscountTrace multiplies a per-cycle trace by the discount factors,
// returning a new slice.
func DiscountTrace(trace, factors []float64) []float64 {
	out := make([]float64, len(trace))
	for i, v := range trace {
		out[i] = v * factors[i]
	}
	return out
}
