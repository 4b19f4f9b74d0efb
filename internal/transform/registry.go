package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_lump_sum", createSetLumpSum)
	registry.Register("set_pension_percentage", createSetPensionPercentage)
	registry.Register("adjust_pension_percentage", createAdjustPensionPercentage)
	registry.Register("set_age", createSetAge)
	registry.Register("adjust_income", createAdjustIncome)
	registry.Register("set_marital_status", createSetMaritalStatus)
	registry.Register("set_children", createSetChildren)
	registry.Register("set_housing_costs", createSetHousingCosts)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, NewTransformError(name, "create", "unknown transform", nil)
	}
	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_income:percent=-10,amount=500"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, NewTransformError(spec, "parse", "expected 'name:params'", nil)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, NewTransformError(name, "parse", fmt.Sprintf("expected 'key=value', got %q", paramPair), nil)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses several specs in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]ScenarioTransform, error) {
	out := make([]ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Factory functions for each transform

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", NewTransformError(transform, "create", fmt.Sprintf("requires '%s' parameter", key), nil)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	v, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, NewTransformError(transform, "create", fmt.Sprintf("invalid %s value", key), err)
	}
	return d, nil
}

func intParam(transform string, params map[string]string, key string) (int, error) {
	v, err := requireParam(transform, params, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewTransformError(transform, "create", fmt.Sprintf("invalid %s value", key), err)
	}
	return n, nil
}

func createSetLumpSum(params map[string]string) (ScenarioTransform, error) {
	v, err := decimalParam("set_lump_sum", params, "selector")
	if err != nil {
		return nil, err
	}
	return &SetLumpSum{Selector: v}, nil
}

func createSetPensionPercentage(params map[string]string) (ScenarioTransform, error) {
	v, err := decimalParam("set_pension_percentage", params, "percent")
	if err != nil {
		return nil, err
	}
	return &SetPensionPercentage{Percent: v}, nil
}

func createAdjustPensionPercentage(params map[string]string) (ScenarioTransform, error) {
	v, err := decimalParam("adjust_pension_percentage", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustPensionPercentage{Delta: v}, nil
}

func createSetAge(params map[string]string) (ScenarioTransform, error) {
	v, err := intParam("set_age", params, "age")
	if err != nil {
		return nil, err
	}
	return &SetAge{Age: v}, nil
}

func createAdjustIncome(params map[string]string) (ScenarioTransform, error) {
	t := &AdjustIncome{}
	_, hasAmount := params["amount"]
	_, hasPercent := params["percent"]
	if !hasAmount && !hasPercent {
		return nil, NewTransformError("adjust_income", "create", "requires 'amount' or 'percent' parameter", nil)
	}
	var err error
	if hasAmount {
		if t.Amount, err = decimalParam("adjust_income", params, "amount"); err != nil {
			return nil, err
		}
	}
	if hasPercent {
		if t.Percent, err = decimalParam("adjust_income", params, "percent"); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func createSetMaritalStatus(params map[string]string) (ScenarioTransform, error) {
	v, err := requireParam("set_marital_status", params, "status")
	if err != nil {
		return nil, err
	}
	return &SetMaritalStatus{Status: domain.MaritalStatus(strings.ToLower(v))}, nil
}

func createSetChildren(params map[string]string) (ScenarioTransform, error) {
	v, err := intParam("set_children", params, "count")
	if err != nil {
		return nil, err
	}
	return &SetChildren{Count: v}, nil
}

func createSetHousingCosts(params map[string]string) (ScenarioTransform, error) {
	v, err := decimalParam("set_housing_costs", params, "monthly")
	if err != nil {
		return nil, err
	}
	return &SetHousingCosts{Monthly: v}, nil
}
