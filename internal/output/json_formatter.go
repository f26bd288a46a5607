package output

import (
	"encoding/json"
	"math"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// JSONFormatter renders the full result, including per-cycle traces, as
// indented JSON. The ICER infinity sentinel is replaced with null so the
// output stays valid JSON; icer_undefined carries the signal.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.Result) ([]byte, error) {
	type jsonOutput struct {
		domain.EconomicOutput
		ICER *float64 `json:"icer"`
	}
	doc := struct {
		Output    jsonOutput       `json:"output"`
		Control   domain.ArmResult `json:"control"`
		Treatment domain.ArmResult `json:"treatment"`
	}{
		Output:    jsonOutput{EconomicOutput: result.Output},
		Control:   result.Control,
		Treatment: result.Treatment,
	}
	if !result.Output.ICERUndefined && !math.IsInf(result.Output.ICER, 0) {
		icer := result.Output.ICER
		doc.Output.ICER = &icer
	}
	return json.MarshalIndent(doc, "", "  ")
}
