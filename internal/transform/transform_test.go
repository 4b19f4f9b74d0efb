package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

func baseRequest() domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   decimal.NewFromInt(50000),
		PensionContributionPercentage: decimal.NewFromInt(5),
		LumpSumPercentage:             decimal.Zero,
		HousingCosts:                  decimal.NewFromInt(400),
		MaritalStatus:                 domain.MaritalSingle,
	}.WithAge(62)
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := baseRequest()
	transforms := []ScenarioTransform{
		&SetAge{Age: 67},
		&SetLumpSum{Selector: decimal.NewFromInt(10)},
		&AdjustIncome{Percent: decimal.NewFromInt(10)},
		&SetChildren{Count: 2},
		&SetMaritalStatus{Status: domain.MaritalMarried},
		&SetHousingCosts{Monthly: decimal.NewFromInt(650)},
	}

	got, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("ApplyTransforms failed: %v", err)
	}

	if got.EffectiveAge() != 67 {
		t.Errorf("Expected age 67, got %d", got.EffectiveAge())
	}
	if !got.LumpSumPercentage.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected selector 10, got %s", got.LumpSumPercentage)
	}
	if !got.GrossIncome.Equal(decimal.NewFromInt(55000)) {
		t.Errorf("Expected income 55000, got %s", got.GrossIncome)
	}
	if got.ChildrenCount != 2 || got.MaritalStatus != domain.MaritalMarried {
		t.Errorf("Unexpected household %d/%s", got.ChildrenCount, got.MaritalStatus)
	}
	if !got.HousingCosts.Equal(decimal.NewFromInt(650)) {
		t.Errorf("Expected housing 650, got %s", got.HousingCosts)
	}

	// Base must be untouched
	if base.EffectiveAge() != 62 || !base.GrossIncome.Equal(decimal.NewFromInt(50000)) {
		t.Error("Base request was modified")
	}
}

func TestApplyTransforms_Empty(t *testing.T) {
	base := baseRequest()
	got, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("ApplyTransforms failed: %v", err)
	}
	if !got.GrossIncome.Equal(base.GrossIncome) {
		t.Error("Expected identical request")
	}
}

func TestApplyTransforms_Errors(t *testing.T) {
	tests := []struct {
		name       string
		transforms []ScenarioTransform
	}{
		{"nil transform", []ScenarioTransform{nil}},
		{"selector above cap", []ScenarioTransform{&SetLumpSum{Selector: decimal.NewFromInt(11)}}},
		{"pension over 100", []ScenarioTransform{&AdjustPensionPercentage{Delta: decimal.NewFromInt(96)}}},
		{"negative income", []ScenarioTransform{&AdjustIncome{Amount: decimal.NewFromInt(-60000)}}},
		{"too many children", []ScenarioTransform{&SetChildren{Count: 11}}},
		{"bad status", []ScenarioTransform{&SetMaritalStatus{Status: "divorced"}}},
		{"bad age", []ScenarioTransform{&SetAge{Age: 200}}},
		{"negative housing", []ScenarioTransform{&SetHousingCosts{Monthly: decimal.NewFromInt(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ApplyTransforms(baseRequest(), tt.transforms); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestTransformError_UnwrapsToInvalidInput(t *testing.T) {
	err := (&SetLumpSum{Selector: decimal.NewFromInt(-1)}).Validate(baseRequest())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected InvalidInput, got %v", err)
	}
	var te *TransformError
	if !errors.As(err, &te) || te.TransformName != "set_lump_sum" {
		t.Errorf("Expected TransformError for set_lump_sum, got %v", err)
	}
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec    string
		name    string
		wantErr bool
	}{
		{"set_lump_sum:selector=7.5", "set_lump_sum", false},
		{"set_pension_percentage:percent=8", "set_pension_percentage", false},
		{"adjust_pension_percentage:delta=-1", "adjust_pension_percentage", false},
		{"set_age:age=67", "set_age", false},
		{"adjust_income:percent=-10,amount=500", "adjust_income", false},
		{"set_marital_status:status=Married", "set_marital_status", false},
		{"set_children:count=3", "set_children", false},
		{"set_housing_costs:monthly=725.50", "set_housing_costs", false},
		{"set_lump_sum", "", true},
		{"set_lump_sum:selector", "", true},
		{"set_lump_sum:selector=abc", "", true},
		{"set_age:years=3", "", true},
		{"adjust_income:", "", true},
		{"unknown:x=1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Name() != tt.name {
				t.Errorf("Expected %s, got %s", tt.name, tr.Name())
			}
			if tr.Description() == "" {
				t.Error("Expected a description")
			}
		})
	}
}

func TestTransformRegistry_AdjustIncomeOrder(t *testing.T) {
	tr, err := NewTransformRegistry().ParseTransformSpec("adjust_income:percent=-10,amount=500")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ApplyTransforms(baseRequest(), []ScenarioTransform{tr})
	if err != nil {
		t.Fatal(err)
	}
	if !got.GrossIncome.Equal(decimal.NewFromInt(45500)) {
		t.Errorf("Expected 45500, got %s", got.GrossIncome)
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 8 {
		t.Errorf("Expected 8 transforms, got %d", len(names))
	}
	if names[0] != "adjust_income" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}
