package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/output"
	"github.com/rgehrsitz/rpnl/internal/transform"
)

func (a *app) calculateCmd() *cobra.Command {
	var (
		trace      bool
		transforms []string
		save       string
		writeFile  bool
	)

	cmd := &cobra.Command{
		Use:   "calculate [request-file]",
		Short: "Calculate net income for one pension scenario",
		Long: "Calculate net income for the scenario in a YAML or JSON request file.\n\n" +
			"Formats: " + strings.Join(output.AvailableFormatterNames(), ", ") +
			" (aliases: " + strings.Join(output.AvailableFormatAliases(), ", ") + ")",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0], transforms)
			if err != nil {
				return err
			}

			calc, taxYear, err := a.calculator(cmd)
			if err != nil {
				return err
			}
			res, err := calc.Calculate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}

			f := output.NewFormatter(a.format(cmd), output.Options{Trace: trace, TaxYear: taxYear})
			if f == nil {
				return domain.NewInvalidInput("calculate", "format", "unknown_value")
			}

			if writeFile {
				path, err := output.WriteFormatted(f, res, fileExtension(f.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			} else {
				out, err := f.Format(res)
				if err != nil {
					return fmt.Errorf("failed to format result: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
			}

			if save != "" {
				if err := output.SaveRequest(req, save); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "console", "Output format")
	cmd.Flags().BoolVar(&trace, "trace", false, "Include the rule trace")
	cmd.Flags().StringArrayVarP(&transforms, "with", "w", nil, "Apply a transform before calculating, e.g. set_lump_sum:selector=10")
	cmd.Flags().StringVar(&save, "save", "", "Save the effective request as YAML")
	cmd.Flags().BoolVar(&writeFile, "write", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func (a *app) traceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace [request-file]",
		Short: "Show which rules changed the outcome of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0], nil)
			if err != nil {
				return err
			}
			calc, taxYear, err := a.calculator(cmd)
			if err != nil {
				return err
			}
			res, err := calc.Calculate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}
			out, err := output.NewFormatter("trace", output.Options{Trace: true, TaxYear: taxYear}).Format(res)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// loadRequest reads a request file and applies transform specs in order.
func loadRequest(path string, specs []string) (domain.ScenarioRequest, error) {
	req, err := config.NewInputParser().LoadRequestFile(path)
	if err != nil {
		return domain.ScenarioRequest{}, err
	}
	if len(specs) == 0 {
		return *req, nil
	}
	ts, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
	if err != nil {
		return domain.ScenarioRequest{}, err
	}
	return transform.ApplyTransforms(*req, ts)
}

func fileExtension(formatter string) string {
	switch formatter {
	case "json", "csv", "html":
		return formatter
	}
	return "txt"
}

