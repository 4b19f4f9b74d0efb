package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common lump-sum and
// contribution scenarios. eligibilityAge comes from the tax-year table.
func CreateBuiltInTemplates(eligibilityAge int) *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "no_lump_sum",
		Description: "Keep the full annual pension, no lump sum",
		Transforms:  []ScenarioTransform{&SetLumpSum{Selector: decimal.Zero}},
	})

	registry.Register(Template{
		Name:        "half_lump_sum",
		Description: "Withdraw half of the permitted lump sum",
		Transforms:  []ScenarioTransform{&SetLumpSum{Selector: decimal.NewFromInt(5)}},
	})

	registry.Register(Template{
		Name:        "max_lump_sum",
		Description: "Withdraw the full permitted lump sum",
		Transforms:  []ScenarioTransform{&SetLumpSum{Selector: decimal.NewFromInt(domain.LumpSumSelectorMax)}},
	})

	registry.Register(Template{
		Name:        "retire_at_eligibility",
		Description: fmt.Sprintf("Evaluate at the lump-sum eligibility age (%d)", eligibilityAge),
		Transforms:  []ScenarioTransform{&SetAge{Age: eligibilityAge}},
	})

	registry.Register(Template{
		Name:        "max_lump_sum_at_eligibility",
		Description: fmt.Sprintf("Withdraw the full lump sum at age %d", eligibilityAge),
		Transforms: []ScenarioTransform{
			&SetAge{Age: eligibilityAge},
			&SetLumpSum{Selector: decimal.NewFromInt(domain.LumpSumSelectorMax)},
		},
	})

	registry.Register(Template{
		Name:        "pension_plus_2pct",
		Description: "Raise the pension contribution by 2 percentage points",
		Transforms:  []ScenarioTransform{&AdjustPensionPercentage{Delta: decimal.NewFromInt(2)}},
	})

	return registry
}

// ApplyTemplate applies a named template to base.
func (tr *TemplateRegistry) ApplyTemplate(name string, base domain.ScenarioRequest) (domain.ScenarioRequest, error) {
	t, ok := tr.Get(name)
	if !ok {
		return domain.ScenarioRequest{}, NewTransformError(name, "template", "unknown template", nil)
	}
	return ApplyTransforms(base, t.Transforms)
}
