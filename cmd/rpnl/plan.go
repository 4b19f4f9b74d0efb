package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/output"
	"github.com/rgehrsitz/rpnl/internal/withdrawal"
)

func (a *app) planCmd() *cobra.Command {
	var (
		strategies string
		buffer     string
		selector   string
	)

	cmd := &cobra.Command{
		Use:   "plan [request-file]",
		Short: "Size the lump sum with one or more withdrawal strategies",
		Long: "Plan the lump-sum selector with withdrawal strategies and calculate each outcome.\n\n" +
			"Strategies: " + strings.Join(withdrawal.AvailableStrategies(), ", "),
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

			sctx := withdrawal.StrategyContext{Request: req, TaxYear: taxYear}
			if sctx.BracketBuffer, err = decimal.NewFromString(buffer); err != nil {
				return domain.NewInvalidInput("plan", "buffer", "malformed")
			}
			if sctx.Selector, err = decimal.NewFromString(selector); err != nil {
				return domain.NewInvalidInput("plan", "selector", "malformed")
			}

			outcomes, err := withdrawal.EvaluateAll(cmd.Context(), calc, splitList(strategies), sctx)
			if err != nil {
				return fmt.Errorf("planning failed: %w", err)
			}

			w := cmd.OutOrStdout()
			switch strings.ToLower(a.format(cmd)) {
			case "json":
				data, err := output.EncodeJSON(outcomes, true)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
			case "table", "console":
				fmt.Fprintf(w, "%-28s %9s %12s %14s %14s %14s\n", "Strategy", "Selector", "Lump Sum", "Income Tax", "Net Income", "Incl. Lump")
				for _, o := range outcomes {
					fmt.Fprintf(w, "%-28s %9s %12s %14s %14s %14s\n", o.Plan.StrategyUsed, o.Plan.Selector.StringFixed(2),
						output.FormatCurrency(o.Plan.LumpSumAmount), output.FormatCurrency(o.Result.IncomeTax),
						output.FormatCurrency(o.Result.NetIncome), output.FormatCurrency(o.Result.NetIncomeWithLumpSum))
					for _, note := range o.Plan.Notes {
						fmt.Fprintf(w, "  • %s\n", note)
					}
					if o.Plan.LimitingBenefit != "" {
						fmt.Fprintf(w, "  • limited by %s\n", o.Plan.LimitingBenefit)
					}
				}
			default:
				return domain.NewInvalidInput("plan", "format", "unknown_value")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategies, "strategies", "s", "none,full,bracket_fill,benefit_preserving", "Comma-separated strategies")
	cmd.Flags().StringVar(&buffer, "buffer", "0", "Euros to stay below the bracket edge (bracket_fill)")
	cmd.Flags().StringVar(&selector, "selector", "0", "Fixed 0-10 selector (custom)")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}
