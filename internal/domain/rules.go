package domain

import "fmt"

// RuleCategory groups catalog entries.
type RuleCategory string

const (
	CategoryPension        RuleCategory = "pension"
	CategoryTax            RuleCategory = "tax"
	CategorySocialSecurity RuleCategory = "social_security"
	CategoryBenefits       RuleCategory = "benefits"
	CategoryResult         RuleCategory = "result"
)

func (c RuleCategory) Valid() bool {
	switch c {
	case CategoryPension, CategoryTax, CategorySocialSecurity, CategoryBenefits, CategoryResult:
		return true
	}
	return false
}

// Rule IDs the engine can explain step by step.
const (
	RulePensionContribution = "pension_contribution"
	RuleLumpSum             = "lump_sum"
	RuleTaxBase             = "tax_base"
	RuleIncomeTax           = "income_tax"
	RuleAOWPremium          = "aow_premium"
	RuleWWPremium           = "ww_premium"
	RuleNetIncome           = "net_income"
)

// KnownRuleIDs lists every ID a catalog may use, in calculation order.
// Benefit rules share their BenefitName.
func KnownRuleIDs() []string {
	return []string{
		RulePensionContribution, RuleLumpSum, RuleTaxBase, RuleIncomeTax,
		RuleAOWPremium, RuleWWPremium,
		string(BenefitHealthcareAllowance), string(BenefitHousingAllowance), string(BenefitChildBenefit),
		RuleNetIncome,
	}
}

func knownRuleID(id string) bool {
	for _, k := range KnownRuleIDs() {
		if k == id {
			return true
		}
	}
	return false
}

// RuleDefinition documents one calculation rule and its legal basis.
type RuleDefinition struct {
	ID             string       `yaml:"id" json:"id"`
	Name           string       `yaml:"name" json:"name"`
	LegalReference string       `yaml:"legal_reference" json:"legal_reference"`
	Category       RuleCategory `yaml:"category" json:"category"`
	Description    string       `yaml:"description,omitempty" json:"description,omitempty"`
	URL            string       `yaml:"url,omitempty" json:"url,omitempty"`
	DependsOn      []string     `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// RuleCatalog is the ordered rule list of a tax year.
type RuleCatalog []RuleDefinition

// Rule looks up id.
func (c RuleCatalog) Rule(id string) (RuleDefinition, bool) {
	for _, r := range c {
		if r.ID == id {
			return r, true
		}
	}
	return RuleDefinition{}, false
}

// RuleNode is one level of a dependency tree.
type RuleNode struct {
	ID        string      `json:"rule_id"`
	Name      string      `json:"rule_name"`
	DependsOn []*RuleNode `json:"depends_on"`
}

// DependencyTree expands the dependencies of id recursively. Shared
// dependencies appear under every rule that needs them.
func (c RuleCatalog) DependencyTree(id string) (*RuleNode, error) {
	if _, ok := c.Rule(id); !ok {
		return nil, NewInvalidInput("dependency_tree", "rule", "unknown_value")
	}
	return c.node(id, map[string]bool{})
}

func (c RuleCatalog) node(id string, path map[string]bool) (*RuleNode, error) {
	if path[id] {
		return nil, NewConfigurationError("dependency_tree", "rules."+id, "circular", nil)
	}
	path[id] = true
	defer delete(path, id)

	r, _ := c.Rule(id)
	n := &RuleNode{ID: r.ID, Name: r.Name, DependsOn: []*RuleNode{}}
	for _, dep := range r.DependsOn {
		child, err := c.node(dep, path)
		if err != nil {
			return nil, err
		}
		n.DependsOn = append(n.DependsOn, child)
	}
	return n, nil
}

// Validate checks identifiers, categories and the dependency graph. An empty
// catalog is valid.
func (c RuleCatalog) Validate() error {
	const op = "validate_rules"
	seen := make(map[string]bool, len(c))
	for i, r := range c {
		field := fmt.Sprintf("rules[%d]", i)
		switch {
		case r.ID == "":
			return NewConfigurationError(op, field+".id", "missing", nil)
		case !knownRuleID(r.ID):
			return NewConfigurationError(op, field+".id", "unknown_value", nil)
		case seen[r.ID]:
			return NewConfigurationError(op, field+".id", "duplicate", nil)
		case r.Name == "":
			return NewConfigurationError(op, field+".name", "missing", nil)
		case r.LegalReference == "" && r.Category != CategoryResult:
			return NewConfigurationError(op, field+".legal_reference", "missing", nil)
		case !r.Category.Valid():
			return NewConfigurationError(op, field+".category", "unknown_value", nil)
		}
		seen[r.ID] = true
	}
	for i, r := range c {
		for _, dep := range r.DependsOn {
			if _, ok := c.Rule(dep); !ok {
				return NewConfigurationError(op, fmt.Sprintf("rules[%d].depends_on", i), "unknown_value", nil)
			}
		}
	}
	for _, r := range c {
		if _, err := c.node(r.ID, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}
