package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/output"
)

type ruleListing struct {
	Year    int                      `json:"year"`
	Total   int                      `json:"total_rules"`
	Rules   domain.RuleCatalog       `json:"rules"`
	Impacts []calculation.RuleImpact `json:"impacts,omitempty"`
}

type ruleDetail struct {
	Rule         domain.RuleDefinition        `json:"rule"`
	Dependencies *domain.RuleNode             `json:"dependencies"`
	Explanation  *calculation.RuleExplanation `json:"explanation,omitempty"`
}

func (a *app) rulesCmd() *cobra.Command {
	var requestPath string

	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the calculation rules or explain one of them",
		Long: "Without a rule ID, list the tax year's rule catalog with legal references; with " +
			"--request, also show how much each rule moves net income.\n\n" +
			"With a rule ID, show the rule, its dependency tree and, with --request, every " +
			"intermediate step it took for that scenario.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, cfg, err := a.calculator(cmd)
			if err != nil {
				return err
			}
			var res *domain.ScenarioResult
			if requestPath != "" {
				req, err := loadRequest(requestPath, nil)
				if err != nil {
					return err
				}
				if res, err = calc.Calculate(cmd.Context(), req); err != nil {
					return fmt.Errorf("calculation failed: %w", err)
				}
			}

			format := strings.ToLower(a.format(cmd))
			if format != "table" && format != "console" && format != "json" {
				return domain.NewInvalidInput("rules", "format", "unknown_value")
			}
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				listing := ruleListing{Year: cfg.Year, Total: len(cfg.Rules), Rules: cfg.Rules}
				if res != nil {
					listing.Impacts = calculation.RuleImpacts(cfg, res)
				}
				if format == "json" {
					return writeJSON(w, listing)
				}
				printRuleListing(w, listing)
				return nil
			}

			rule, ok := cfg.Rules.Rule(args[0])
			if !ok {
				return domain.NewInvalidInput("rules", "rule", "unknown_value")
			}
			tree, err := cfg.Rules.DependencyTree(rule.ID)
			if err != nil {
				return err
			}
			detail := ruleDetail{Rule: rule, Dependencies: tree}
			if res != nil {
				if detail.Explanation, err = calculation.ExplainRule(cfg, res, rule.ID); err != nil {
					return err
				}
			}
			if format == "json" {
				return writeJSON(w, detail)
			}
			printRuleDetail(w, detail)
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "Request file to trace the rules against")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := output.EncodeJSON(v, true)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printRuleListing(w io.Writer, l ruleListing) {
	if l.Total == 0 {
		fmt.Fprintf(w, "No rules in the %d tax-year table.\n", l.Year)
		return
	}
	fmt.Fprintf(w, "RULES %d (%d)\n", l.Year, l.Total)
	fmt.Fprintf(w, "%-22s %-16s %-40s %s\n", "ID", "Category", "Name", "Legal reference")
	for _, r := range l.Rules {
		fmt.Fprintf(w, "%-22s %-16s %-40s %s\n", r.ID, r.Category, r.Name, r.LegalReference)
	}
	if len(l.Impacts) == 0 {
		return
	}
	fmt.Fprintln(w, "\nIMPACT ON NET INCOME")
	for _, im := range l.Impacts {
		sign := "-"
		if im.Kind == calculation.ImpactBenefit {
			sign = "+"
		}
		fmt.Fprintf(w, "  %-22s %s%s\n", im.Rule.ID, sign, output.FormatCurrency(im.Impact))
	}
}

func printRuleDetail(w io.Writer, d ruleDetail) {
	r := d.Rule
	fmt.Fprintf(w, "%s (%s)\n", r.Name, r.ID)
	fmt.Fprintf(w, "  Category:        %s\n", r.Category)
	if r.LegalReference != "" {
		fmt.Fprintf(w, "  Legal reference: %s\n", r.LegalReference)
	}
	if r.Description != "" {
		fmt.Fprintf(w, "  Description:     %s\n", r.Description)
	}
	if r.URL != "" {
		fmt.Fprintf(w, "  More:            %s\n", r.URL)
	}

	fmt.Fprintln(w, "\nDEPENDENCIES")
	printRuleNode(w, d.Dependencies, 1)

	if e := d.Explanation; e != nil {
		fmt.Fprintln(w, "\nSTEPS")
		for i, s := range e.Steps {
			amount := ""
			if s.Amount != nil {
				amount = output.FormatCurrency(*s.Amount)
			}
			fmt.Fprintf(w, "  %d. %-32s %14s  %s\n", i+1, s.Step, amount, s.Calculation)
		}
		fmt.Fprintf(w, "  Result: %s\n", output.FormatCurrency(e.Result))
	}
}

func printRuleNode(w io.Writer, n *domain.RuleNode, depth int) {
	fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", depth), n.ID, n.Name)
	for _, child := range n.DependsOn {
		printRuleNode(w, child, depth+1)
	}
}
