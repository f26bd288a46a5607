package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewEconomicOutput(t *testing.T) {
	control := ArmResult{Arm: ArmControl, TotalCost: 10000, TotalQALY: 8.0}
	treatment := ArmResult{Arm: ArmTreatment, TotalCost: 13000, TotalQALY: 8.5}

	out := NewEconomicOutput(control, treatment)

	assert.True(t, out.IncrementalCost.Equal(decimal.NewFromInt(3000)))
	assert.InDelta(t, 0.5, out.IncrementalQALY, 1e-12)
	assert.False(t, out.ICERUndefined)
	assert.InDelta(t, 6000, out.ICER, 1e-9)
}

func TestNewEconomicOutput_UndefinedICER(t *testing.T) {
	t.Run("dearer treatment", func(t *testing.T) {
		out := NewEconomicOutput(
			ArmResult{TotalCost: 100, TotalQALY: 5},
			ArmResult{TotalCost: 200, TotalQALY: 5},
		)
		assert.True(t, out.ICERUndefined)
		assert.True(t, math.IsInf(out.ICER, 1))
	})

	t.Run("cheaper treatment", func(t *testing.T) {
		out := NewEconomicOutput(
			ArmResult{TotalCost: 200, TotalQALY: 5},
			ArmResult{TotalCost: 100, TotalQALY: 5},
		)
		assert.True(t, out.ICERUndefined)
		assert.True(t, math.IsInf(out.ICER, -1))
	})
}

func TestNewEconomicOutput_DominatedTreatment(t *testing.T) {
	// Costlier and less effective: the ICER is negative, not undefined.
	out := NewEconomicOutput(
		ArmResult{TotalCost: 100, TotalQALY: 6},
		ArmResult{TotalCost: 200, TotalQALY: 5},
	)
	assert.False(t, out.ICERUndefined)
	assert.InDelta(t, -100, out.ICER, 1e-9)
}
