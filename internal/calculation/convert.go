package calculation

import "math"

// monthsPerYear is the cycle length conversion; the model is monthly-cycle
// only.
const monthsPerYear = 12.0

// AnnualRateToMonthlyProb converts an annual event rate to the probability of
// the event occurring within one monthly cycle, assuming a constant hazard.
func AnnualRateToMonthlyProb(rate float64) (float64, error) {
	if rate < 0 || math.IsNaN(rate) {
		return 0, &DomainError{Quantity: "annual rate", Value: rate}
	}
	return 1 - math.Exp(-rate/monthsPerYear), nil
}

// AnnualProbToMonthlyRateProb converts an annual probability to the implied
// monthly rate under an exponential hazard, and the corresponding monthly
// probability. A probability of exactly 1 has no finite implied rate.
func AnnualProbToMonthlyRateProb(prob float64) (rate, monthlyProb float64, err error) {
	if prob < 0 || prob >= 1 || math.IsNaN(prob) {
		return 0, 0, &DomainError{Quantity: "annual probability", Value: prob}
	}
	rate = -math.Log(1-prob) / monthsPerYear
	monthlyProb = 1 - math.Exp(-rate)
	return rate, monthlyProb, nil
}

// ComposeHazard applies a hazard ratio to a monthly rate and returns the
// adjusted monthly probability. The ratio scales the rate, not the
// probability, preserving the exponential-hazard model.
func ComposeHazard(monthlyRate, hr float64) (float64, error) {
	if monthlyRate < 0 || math.IsNaN(monthlyRate) {
		return 0, &DomainError{Quantity: "monthly rate", Value: monthlyRate}
	}
	if hr < 0 || math.IsNaN(hr) {
		return 0, &DomainError{Quantity: "hazard ratio", Value: hr}
	}
	return 1 - math.Exp(-monthlyRate*hr), nil
}

// ComposeSequentialHazard applies a second hazard ratio on top of an already
// adjusted monthly probability: it recovers the implied rate, scales it, and
// converts back. Used to layer the treatment effect over the disease
// adjustment.
func ComposeSequentialHazard(prob, hr float64) (float64, error) {
	if prob < 0 || prob >= 1 || math.IsNaN(prob) {
		return 0, &DomainError{Quantity: "monthly probability", Value: prob}
	}
	if hr < 0 || math.IsNaN(hr) {
		return 0, &DomainError{Quantity: "hazard ratio", Value: hr}
	}
	return 1 - math.Exp(-(-math.Log(1-prob) * hr)), nil
}

// MonthlyRateToAnnualProb is the inverse companion of
// AnnualProbToMonthlyRateProb: the annual probability implied by a constant
// monthly rate.
func MonthlyRateToAnnualProb(monthlyRate float64) (float64, error) {
	if monthlyRate < 0 || math.IsNaN(monthlyRate) {
		return 0, &DomainError{Quantity: "monthly rate", Value: monthlyRate}
	}
	return 1 - math.Exp(-monthlyRate*monthsPerYear), nil
}
