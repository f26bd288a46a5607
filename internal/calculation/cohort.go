package calculation

import "gonum.org/v1/gonum/mat"

// PropagateCohort evolves the state-membership distribution across cycles.
// Row 0 of the result is the unit vector at the initial state; each later row
// is the previous row left-multiplied by the previous cycle's transition
// matrix. Row-stochastic matrices conserve cohort mass by induction, so no
// renormalization happens here.
func PropagateCohort(matrices []*mat.Dense, initialIndex, numStates, cycles int) *mat.Dense {
	membership := mat.NewDense(cycles, numStates, nil)
	membership.Set(0, initialIndex, 1)

	current := mat.NewDense(1, numStates, nil)
	current.Set(0, initialIndex, 1)
	for t := 1; t < cycles; t++ {
		next := mat.NewDense(1, numStates, nil)
		next.Mul(current, matrices[t-1])
		membership.SetRow(t, next.RawRowView(0))
		current = next
	}
	return membership
}
