package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Arm identifies one of the two simulated strategies.
type Arm string

const (
	ArmControl   Arm = "control"
	ArmTreatment Arm = "treatment"
)

// EconomicOutput holds the seven scalar totals of a cost-effectiveness run.
// Monetary totals are decimals; QALYs and the ICER stay floating point.
type EconomicOutput struct {
	TotalCostControl   decimal.Decimal `json:"total_cost_control"`
	TotalCostTreatment decimal.Decimal `json:"total_cost_treatment"`
	TotalQALYControl   float64         `json:"total_qaly_control"`
	TotalQALYTreatment float64         `json:"total_qaly_treatment"`

	IncrementalCost decimal.Decimal `json:"incremental_cost"`
	IncrementalQALY float64         `json:"incremental_qaly"`

	// ICER is incremental cost per incremental QALY. When IncrementalQALY is
	// zero the ratio is undefined; ICERUndefined is set and ICER carries
	// +/-Inf as a sentinel rather than NaN.
	ICER          float64 `json:"icer"`
	ICERUndefined bool    `json:"icer_undefined"`
}

// ArmResult is the per-arm detail behind the scalar totals, kept for verbose
// reporting: discounted per-cycle traces, the undiscounted survival curve and
// the state distribution at the final cycle.
type ArmResult struct {
	Arm       Arm     `json:"arm"`
	TotalCost float64 `json:"total_cost"`
	TotalQALY float64 `json:"total_qaly"`

	CostTrace []float64 `json:"cost_trace"`
	QALYTrace []float64 `json:"qaly_trace"`

	// Survival[c] is the cohort mass outside the absorbing state at cycle c.
	Survival        []float64 `json:"survival"`
	FinalMembership []float64 `json:"final_membership"`
}

// Result bundles the comparison output with both arm details.
type Result struct {
	Output    EconomicOutput `json:"output"`
	Control   ArmResult      `json:"control"`
	Treatment ArmResult      `json:"treatment"`
}

// NewEconomicOutput derives the incremental outcomes and the ICER from the
// two arms' totals, applying the undefined-ICER sentinel when the
// incremental QALY is zero.
func NewEconomicOutput(control, treatment ArmResult) EconomicOutput {
	out := EconomicOutput{
		TotalCostControl:   decimal.NewFromFloat(control.TotalCost),
		TotalCostTreatment: decimal.NewFromFloat(treatment.TotalCost),
		TotalQALYControl:   control.TotalQALY,
		TotalQALYTreatment: treatment.TotalQALY,
	}
	incCost := treatment.TotalCost - control.TotalCost
	out.IncrementalCost = out.TotalCostTreatment.Sub(out.TotalCostControl)
	out.IncrementalQALY = treatment.TotalQALY - control.TotalQALY

	if out.IncrementalQALY == 0 {
		out.ICERUndefined = true
		out.ICER = math.Inf(1)
		if incCost < 0 {
			out.ICER = math.Inf(-1)
		}
		return out
	}
	out.ICER = incCost / out.IncrementalQALY
	return out
}
