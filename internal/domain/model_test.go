package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestModel_StateIndex(t *testing.T) {
	m := &Model{States: []string{"Hypertension", "Stroke", "Death"}}

	assert.Equal(t, 0, m.StateIndex("Hypertension"))
	assert.Equal(t, 2, m.StateIndex("Death"))
	assert.Equal(t, -1, m.StateIndex("Angina"))
	assert.True(t, m.HasState("Stroke"))
	assert.False(t, m.HasState("angina"))
	assert.Equal(t, 3, m.NumStates())
}

func TestSettings_DiscountRateFraction(t *testing.T) {
	s := Settings{DiscountRatePercent: 3.5}
	assert.InDelta(t, 0.035, s.DiscountRateFraction(), 1e-12)

	assert.Zero(t, Settings{}.DiscountRateFraction())
}

func TestCostEntry_UnmarshalYAML(t *testing.T) {
	var entries []CostEntry
	doc := `
- {state: Hypertension, cost: 45.50}
- {state: Stroke, cost: "5200"}
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Hypertension", entries[0].State)
	assert.True(t, entries[0].Cost.Equal(decimal.RequireFromString("45.50")))
	assert.True(t, entries[1].Cost.Equal(decimal.NewFromInt(5200)))
}

func TestCostEntry_UnmarshalYAML_InvalidCost(t *testing.T) {
	var entries []CostEntry
	err := yaml.Unmarshal([]byte(`[{state: Hypertension, cost: lots}]`), &entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hypertension")
}

func TestCostEntry_MarshalRoundTrip(t *testing.T) {
	in := CostEntry{State: "Stroke", Cost: decimal.RequireFromString("5200.25")}
	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out CostEntry
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in.State, out.State)
	assert.True(t, in.Cost.Equal(out.Cost))
}
