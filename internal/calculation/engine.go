package calculation

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// Engine runs the full cost-effectiveness pipeline: background-mortality
// adjustment, per-arm transition matrices, cohort propagation, reward
// accumulation, discounting and the incremental comparison. Both arms are
// computed concurrently; all inputs are read-only once validated.
type Engine struct {
	Logger Logger
}

// NewEngine creates an engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op
// logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// validateModel checks the run-critical invariants before any arithmetic.
// The config layer validates the full table semantics; this is the engine's
// own guard for programmatically constructed models.
func (e *Engine) validateModel(m *domain.Model) error {
	if m.NumStates() == 0 {
		return &ConfigurationError{Cycle: -1, Reason: "state space is empty"}
	}
	if m.Settings.Cycles <= 0 {
		return &ConfigurationError{Cycle: -1, Reason: fmt.Sprintf("cycle count must be positive, got %d", m.Settings.Cycles)}
	}
	if m.Settings.DiscountRatePercent < 0 || m.Settings.DiscountRatePercent > 100 {
		return &ConfigurationError{Cycle: -1, Reason: fmt.Sprintf("discount rate must be between 0 and 100 percent, got %g", m.Settings.DiscountRatePercent)}
	}
	if !m.HasState(m.AbsorbingState) {
		return &ConfigurationError{State: m.AbsorbingState, Cycle: -1, Reason: "absorbing state is not in the state space"}
	}
	if !m.HasState(m.InitialState) {
		return &ConfigurationError{State: m.InitialState, Cycle: -1, Reason: "initial state is not in the state space"}
	}
	return nil
}

// RunModel executes both arms and joins them into the incremental
// comparison. A construction error in either arm aborts the whole run; the
// control arm's error wins when both fail.
func (e *Engine) RunModel(ctx context.Context, m *domain.Model) (*domain.Result, error) {
	if err := e.validateModel(m); err != nil {
		return nil, err
	}
	mortality, err := BuildBackgroundMortality(m)
	if err != nil {
		return nil, err
	}

	arms := []domain.Arm{domain.ArmControl, domain.ArmTreatment}
	results := make([]*domain.ArmResult, len(arms))
	errs := make([]error, len(arms))

	var wg sync.WaitGroup
	for i, arm := range arms {
		wg.Add(1)
		go func(i int, arm domain.Arm) {
			defer wg.Done()
			results[i], errs[i] = e.runArm(ctx, m, mortality, arm)
		}(i, arm)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s arm: %w", arms[i], err)
		}
	}

	result := &domain.Result{Control: *results[0], Treatment: *results[1]}
	result.Output = domain.NewEconomicOutput(result.Control, result.Treatment)
	e.Logger.Infof("run complete: incremental cost %s, incremental QALY %.6f",
		result.Output.IncrementalCost.StringFixed(2), result.Output.IncrementalQALY)
	return result, nil
}

// runArm executes the forward pipeline for a single arm.
func (e *Engine) runArm(ctx context.Context, m *domain.Model, mortality *BackgroundMortality, arm domain.Arm) (*domain.ArmResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrices, err := NewTransitionMatrixBuilder(m, mortality, arm, e.Logger).Build()
	if err != nil {
		return nil, err
	}
	rewards, err := BuildRewardArrays(m, arm)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cycles := m.Settings.Cycles
	absorbing := m.StateIndex(m.AbsorbingState)
	membership := PropagateCohort(matrices, m.StateIndex(m.InitialState), m.NumStates(), cycles)

	costTrace, qalyTrace := RewardTrace(membership, rewards)
	factors := DiscountFactors(MonthlyDiscountRate(m.Settings.DiscountRateFraction()), cycles)
	costTrace = DiscountTrace(costTrace, factors)
	qalyTrace = DiscountTrace(qalyTrace, factors)

	survival := make([]float64, cycles)
	for c := 0; c < cycles; c++ {
		survival[c] = 1 - membership.At(c, absorbing)
	}
	final := make([]float64, m.NumStates())
	copy(final, membership.RawRowView(cycles-1))

	res := &domain.ArmResult{
		Arm:             arm,
		TotalCost:       floats.Sum(costTrace),
		TotalQALY:       floats.Sum(qalyTrace),
		CostTrace:       costTrace,
		QALYTrace:       qalyTrace,
		Survival:        survival,
		FinalMembership: final,
	}
	e.Logger.Debugf("%s arm: total cost %.2f, total QALY %.6f, final survival %.6f",
		arm, res.TotalCost, res.TotalQALY, survival[cycles-1])
	return res, nil
}
