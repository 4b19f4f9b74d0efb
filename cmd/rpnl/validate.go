package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/config"
)

func (a *app) validateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config [tax-year-file]",
		Short: "Validate a tax-year table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadTaxYearFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tax-year table %s is valid (year %d, %d brackets, %d benefit ceilings)\n",
				args[0], cfg.Year, len(cfg.Brackets), len(cfg.Thresholds))
			return nil
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [request-or-scenario-file]",
		Short: "Validate a request or scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.NewInputParser().LoadScenarioFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d scenario(s))\n", args[0], len(file.Scenarios))
			return nil
		},
	}
}
