package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/compare"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/transform"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		base          string
		templates     string
		concurrency   int
		listTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "compare [scenario-file]",
		Short: "Compare pension scenarios against a base scenario",
		Long: `Compare the scenarios in a scenario file, or one request against built-in templates.

Examples:
  rpnl compare scenarios.yaml
  rpnl compare scenarios.yaml --base current --format csv
  rpnl compare request.yaml --templates no_lump_sum,max_lump_sum_at_eligibility
  rpnl compare --list-templates`,
		Args: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, taxYear, err := a.calculator(cmd)
			if err != nil {
				return err
			}
			ce := compare.NewCompareEngine(calc, taxYear)

			if listTemplates {
				printTemplates(cmd, ce.TemplateRegistry)
				return nil
			}

			file, err := config.NewInputParser().LoadScenarioFile(args[0])
			if err != nil {
				return err
			}
			if base == "" {
				base = file.Base
			}

			set, err := ce.Compare(cmd.Context(), file.Scenarios, compare.CompareOptions{
				BaseScenarioName: base,
				Templates:        splitList(templates),
				Concurrency:      concurrency,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			formatter, err := compare.NewFormatter(a.format(cmd))
			if err != nil {
				return err
			}
			out, err := formatter.Format(set)
			if err != nil {
				return fmt.Errorf("failed to format comparison: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Name of the base scenario (default: the file's base, else the first)")
	cmd.Flags().StringVarP(&templates, "templates", "t", "", "Comma-separated templates applied to the base")
	cmd.Flags().StringP("format", "f", "table", "Output format: "+strings.Join(compare.FormatNames(), ", "))
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Scenarios calculated at once (0 for no limit)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List the built-in templates and exit")
	return cmd
}

func printTemplates(cmd *cobra.Command, reg *transform.TemplateRegistry) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Available templates:")
	for _, name := range reg.List() {
		t, _ := reg.Get(name)
		fmt.Fprintf(w, "  %-28s %s\n", t.Name, t.Description)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
