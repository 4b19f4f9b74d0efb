package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/headroom"
	"github.com/rgehrsitz/rpnl/internal/output"
)

func (a *app) headroomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headroom [request-file]",
		Short: "Find the largest lump sum that keeps every benefit",
		Long: "Search the lump-sum selector for the largest withdrawal that keeps every benefit " +
			"the household has without one, and report the income room left under each ceiling.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0], nil)
			if err != nil {
				return err
			}
			calc, taxYear, err := a.calculator(cmd)
			if err != nil {
				return err
			}

			report, err := headroom.NewSolver(calc, taxYear, headroom.DefaultSolverOptions()).Analyze(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("headroom analysis failed: %w", err)
			}

			var out string
			switch strings.ToLower(a.format(cmd)) {
			case "table", "console":
				out = (&headroom.TableFormatter{}).Format(report)
			case "json":
				out, err = (&headroom.JSONFormatter{Pretty: true}).Format(report)
				if err != nil {
					return err
				}
			default:
				return domain.NewInvalidInput("headroom", "format", "unknown_value")
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func (a *app) thresholdsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds [request-file]",
		Short: "Show bracket breakdown and distance to each benefit ceiling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0], nil)
			if err != nil {
				return err
			}
			engine, err := a.engine(cmd)
			if err != nil {
				return err
			}
			res, err := engine.Calculate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}
			cfg := engine.TaxYear()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "TAX BRACKETS (tax base %s)\n", output.FormatCurrency(res.TaxBase))
			slices, err := calculation.BracketBreakdown(res.TaxBase, cfg.Brackets)
			if err != nil {
				return err
			}
			for i, s := range slices {
				upper := "and up"
				if s.Bracket.Max != nil {
					upper = "to " + output.FormatCurrency(*s.Bracket.Max)
				}
				fmt.Fprintf(w, "  %d. %s %-14s %7s  %12s  tax %s\n", i+1,
					output.FormatCurrency(s.Bracket.Min), upper, output.FormatRate(s.Bracket.Rate),
					output.FormatCurrency(s.TaxableAmount), output.FormatCurrency(s.Tax))
			}

			fmt.Fprintf(w, "\nBENEFIT CEILINGS (taxable income %s)\n", output.FormatCurrency(res.TaxableIncomeWithLumpSum))
			distances, err := calculation.ThresholdDistances(res.TaxableIncomeWithLumpSum, cfg)
			if err != nil {
				return err
			}
			for _, d := range distances {
				note := ""
				if d.Approaching {
					note = " (approaching)"
				}
				fmt.Fprintf(w, "  %-22s ceiling %12s  distance %12s  %s%s\n", d.Name,
					output.FormatCurrency(d.Ceiling), output.FormatCurrency(d.Distance), d.Status, note)
			}
			return nil
		},
	}
}
