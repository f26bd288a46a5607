package calculation

import "fmt"

// DomainError reports a numeric input outside the domain of a hazard
// conversion, such as a negative rate or a probability at or above 1.
type DomainError struct {
	Quantity string
	Value    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s %g is outside the valid domain", e.Quantity, e.Value)
}

// ConfigurationError reports a structural problem with the model: an unknown
// state reference, a duplicate table entry, or a series too short for the
// horizon. Cycle is -1 when the problem is not tied to a particular cycle.
type ConfigurationError struct {
	State  string
	Cycle  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	msg := "invalid model configuration"
	if e.State != "" {
		msg += fmt.Sprintf(" for state %q", e.State)
	}
	if e.Cycle >= 0 {
		msg += fmt.Sprintf(" at cycle %d", e.Cycle)
	}
	return msg + ": " + e.Reason
}

// MissingRewardError reports a non-absorbing state absent from a required
// payoff table. Table is "cost" or "utility".
type MissingRewardError struct {
	State string
	Table string
}

func (e *MissingRewardError) Error() string {
	return fmt.Sprintf("state %q has no entry in the %s table", e.State, e.Table)
}
