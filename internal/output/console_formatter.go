package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/healthsim/cea-calculator/internal/domain"
)

// ConsoleFormatter renders the comparison as an aligned text table. Verbose
// mode appends the undiscounted survival of each arm at yearly checkpoints.
type ConsoleFormatter struct {
	Verbose bool
}

func (cf ConsoleFormatter) Name() string {
	if cf.Verbose {
		return "console-verbose"
	}
	return "console"
}

func (cf ConsoleFormatter) Format(result *domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	out := result.Output
	fmt.Fprintln(w, "COST-EFFECTIVENESS SUMMARY")
	fmt.Fprintln(w, "==========================")
	fmt.Fprintln(w, "\tControl\tTreatment")
	fmt.Fprintf(w, "Total cost\t%s\t%s\n",
		FormatCurrency(out.TotalCostControl), FormatCurrency(out.TotalCostTreatment))
	fmt.Fprintf(w, "Total QALYs\t%s\t%s\n",
		FormatQALY(out.TotalQALYControl), FormatQALY(out.TotalQALYTreatment))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Incremental cost\t%s\n", FormatCurrency(out.IncrementalCost))
	fmt.Fprintf(w, "Incremental QALYs\t%s\n", FormatQALY(out.IncrementalQALY))
	fmt.Fprintf(w, "ICER\t%s\n", FormatICER(out.ICER, out.ICERUndefined))

	if cf.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "SURVIVAL (share of cohort alive)")
		fmt.Fprintln(w, "Cycle\tControl\tTreatment")
		for _, c := range survivalCheckpoints(len(result.Control.Survival)) {
			fmt.Fprintf(w, "%d\t%.4f\t%.4f\n",
				c, result.Control.Survival[c], result.Treatment.Survival[c])
		}
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// survivalCheckpoints picks the first cycle, every 12th, and the last.
func survivalCheckpoints(cycles int) []int {
	if cycles == 0 {
		return nil
	}
	var out []int
	for c := 0; c < cycles; c += 12 {
		out = append(out, c)
	}
	if last := cycles - 1; len(out) == 0 || out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}
