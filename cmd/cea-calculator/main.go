package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthsim/cea-calculator/internal/calculation"
	"github.com/healthsim/cea-calculator/internal/config"
	"github.com/healthsim/cea-calculator/internal/output"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cea-calculator",
		Short: "Markov cohort cost-effectiveness calculator",
		Long: `cea-calculator runs a discrete-time Markov cohort model comparing a
treatment strategy against control: monthly transition matrices built from
clinical rates and hazard ratios, cohort propagation, discounted costs and
QALYs, and the incremental cost-effectiveness ratio.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newExampleCmd(), newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		inputFile  string
		outputFile string
		format     string
		cycles     int
		discount   float64
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the model from a YAML definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			model, err := parser.LoadFromFile(inputFile)
			if err != nil {
				return err
			}

			// CLI overrides for the two interactive parameters.
			if cmd.Flags().Changed("cycles") {
				model.Settings.Cycles = cycles
			}
			if cmd.Flags().Changed("discount") {
				model.Settings.DiscountRatePercent = discount
			}
			if err := parser.ValidateModel(model); err != nil {
				return fmt.Errorf("model validation failed: %w", err)
			}

			engine := calculation.NewEngine()
			if verbose {
				engine.SetLogger(calculation.WriterLogger{W: cmd.ErrOrStderr()})
			}
			result, err := engine.RunModel(cmd.Context(), model)
			if err != nil {
				return err
			}

			if verbose && format == "console" {
				format = "console-verbose"
			}
			formatter, err := output.GetFormatterByName(format)
			if err != nil {
				return err
			}
			data, err := formatter.Format(result)
			if err != nil {
				return err
			}

			if outputFile != "" {
				return os.WriteFile(outputFile, data, 0644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "model.yaml", "model definition file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, json)")
	cmd.Flags().IntVar(&cycles, "cycles", 0, "override the cycle count")
	cmd.Flags().Float64Var(&discount, "discount", 0, "override the annual discount rate (percent)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output with survival checkpoints")
	return cmd
}

func newExampleCmd() *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example model definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.NewInputParser().WriteExampleFile(outputFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example model written to %s\n", outputFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "model.yaml", "destination file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cea-calculator", version)
		},
	}
}
