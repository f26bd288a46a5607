package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsim/cea-calculator/internal/domain"
)

func rewardTestModel(cycles int) *domain.Model {
	m := strokeModel(cycles)
	m.Costs = []domain.CostEntry{
		{State: "Hypertension", Cost: decimal.NewFromInt(100)},
		{State: "Stroke", Cost: decimal.NewFromInt(4000)},
		{State: "Post-Stroke", Cost: decimal.NewFromInt(500)},
	}
	m.TreatmentCosts = []domain.CostEntry{
		{State: "Hypertension", Cost: decimal.NewFromInt(30)},
	}
	m.Utilities = []domain.UtilityEntry{
		{State: "Hypertension", Utility: 0.9},
		{State: "Stroke", Utility: 0.4},
		{State: "Post-Stroke", Utility: 0.7},
	}
	return m
}

func TestBuildRewardArrays_HalfCycleCorrection(t *testing.T) {
	m := rewardTestModel(12)
	ra, err := BuildRewardArrays(m, domain.ArmControl)
	require.NoError(t, err)

	hyp := m.StateIndex("Hypertension")
	// Interior cycles carry the full monthly values.
	assert.InDelta(t, 100.0, ra.Cost.At(hyp, 5), 1e-12)
	assert.InDelta(t, 0.9/12, ra.QALY.At(hyp, 5), 1e-12)

	// First and last cycle are exactly half the interior value.
	assert.Equal(t, ra.Cost.At(hyp, 5)/2, ra.Cost.At(hyp, 0))
	assert.Equal(t, ra.Cost.At(hyp, 5)/2, ra.Cost.At(hyp, 11))
	assert.Equal(t, ra.QALY.At(hyp, 5)/2, ra.QALY.At(hyp, 0))
	assert.Equal(t, ra.QALY.At(hyp, 5)/2, ra.QALY.At(hyp, 11))

	// All other interior cycles are unmodified.
	for c := 1; c < 11; c++ {
		assert.Equal(t, ra.Cost.At(hyp, 5), ra.Cost.At(hyp, c), "cycle %d", c)
	}
}

func TestBuildRewardArrays_UtilityMultiplier(t *testing.T) {
	m := rewardTestModel(12)
	for c := range m.UtilityMultipliers {
		m.UtilityMultipliers[c] = 1 - 0.01*float64(c)
	}
	ra, err := BuildRewardArrays(m, domain.ArmControl)
	require.NoError(t, err)

	stroke := m.StateIndex("Stroke")
	assert.InDelta(t, 0.4/12*0.95, ra.QALY.At(stroke, 5), 1e-12)
	// The multiplier scales QALYs only, never costs.
	assert.InDelta(t, 4000.0, ra.Cost.At(stroke, 5), 1e-12)
}

func TestBuildRewardArrays_TreatmentIncrementalCost(t *testing.T) {
	m := rewardTestModel(12)
	control, err := BuildRewardArrays(m, domain.ArmControl)
	require.NoError(t, err)
	treatment, err := BuildRewardArrays(m, domain.ArmTreatment)
	require.NoError(t, err)

	hyp := m.StateIndex("Hypertension")
	stroke := m.StateIndex("Stroke")

	assert.InDelta(t, 130.0, treatment.Cost.At(hyp, 5), 1e-12)
	// No treatment cost entry for Stroke: increment is zero.
	assert.Equal(t, control.Cost.At(stroke, 5), treatment.Cost.At(stroke, 5))
	// Utilities are arm-independent.
	assert.Equal(t, control.QALY.At(hyp, 5), treatment.QALY.At(hyp, 5))
}

func TestBuildRewardArrays_AbsorbingStateDefaultsToZero(t *testing.T) {
	m := rewardTestModel(12)
	ra, err := BuildRewardArrays(m, domain.ArmTreatment)
	require.NoError(t, err)

	death := m.StateIndex("Death")
	for c := 0; c < 12; c++ {
		assert.Zero(t, ra.Cost.At(death, c))
		assert.Zero(t, ra.QALY.At(death, c))
	}
}

func TestBuildRewardArrays_MissingRewardErrors(t *testing.T) {
	t.Run("missing cost entry", func(t *testing.T) {
		m := rewardTestModel(12)
		m.Costs = m.Costs[:2] // drop Post-Stroke
		_, err := BuildRewardArrays(m, domain.ArmControl)
		var missing *MissingRewardError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Post-Stroke", missing.State)
		assert.Equal(t, "cost", missing.Table)
	})

	t.Run("missing utility entry", func(t *testing.T) {
		m := rewardTestModel(12)
		m.Utilities = m.Utilities[1:] // drop Hypertension
		_, err := BuildRewardArrays(m, domain.ArmControl)
		var missing *MissingRewardError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Hypertension", missing.State)
		assert.Equal(t, "utility", missing.Table)
	})
}

func TestBuildRewardArrays_DuplicateEntries(t *testing.T) {
	m := rewardTestModel(12)
	m.Costs = append(m.Costs, domain.CostEntry{State: "Hypertension", Cost: decimal.NewFromInt(1)})
	_, err := BuildRewardArrays(m, domain.ArmControl)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Hypertension", cfgErr.State)
}

func TestBuildRewardArrays_SingleCycle(t *testing.T) {
	m := rewardTestModel(1)
	ra, err := BuildRewardArrays(m, domain.ArmControl)
	require.NoError(t, err)

	// With one cycle, first and last coincide: halved once, not twice.
	hyp := m.StateIndex("Hypertension")
	assert.InDelta(t, 50.0, ra.Cost.At(hyp, 0), 1e-12)
}
