package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInputParser_LoadRequestFile(t *testing.T) {
	path := writeFile(t, "req.json", `{
  "gross_income": 50000,
  "pension_contribution_percentage": 5,
  "lump_sum_percentage": 10,
  "housing_costs": 400,
  "children_count": 1,
  "marital_status": "married",
  "age": 67
}`)

	req, err := NewInputParser().LoadRequestFile(path)
	require.NoError(t, err)
	assert.True(t, req.GrossIncome.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, domain.MaritalMarried, req.MaritalStatus)
	assert.Equal(t, 67, req.EffectiveAge())
}

func TestInputParser_ParseRequest_DefaultsAge(t *testing.T) {
	req, err := NewInputParser().ParseRequest([]byte(`
gross_income: 30000
pension_contribution_percentage: 0
lump_sum_percentage: 0
housing_costs: 0
children_count: 0
marital_status: single
`))
	require.NoError(t, err)
	assert.Nil(t, req.Age)
	assert.Equal(t, domain.DefaultAge, req.EffectiveAge())
}

func TestInputParser_ParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "gross_income: [1, 2"},
		{"lump sum above cap", "gross_income: 1\nlump_sum_percentage: 11\nmarital_status: single\n"},
		{"unknown marital status", "gross_income: 1\nmarital_status: partnered\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().ParseRequest([]byte(tt.body))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestInputParser_LoadScenarioFile(t *testing.T) {
	path := writeFile(t, "scenarios.yaml", `
base: today
scenarios:
  - name: today
    request: {gross_income: 50000, pension_contribution_percentage: 5, lump_sum_percentage: 0, housing_costs: 400, children_count: 0, marital_status: single, age: 67}
  - name: full-lump-sum
    request: {gross_income: 50000, pension_contribution_percentage: 5, lump_sum_percentage: 10, housing_costs: 400, children_count: 0, marital_status: single, age: 67}
`)
	file, err := NewInputParser().LoadScenarioFile(path)
	require.NoError(t, err)
	assert.Equal(t, "today", file.Base)
	require.Len(t, file.Scenarios, 2)
	assert.Equal(t, "full-lump-sum", file.Scenarios[1].Name)
}

func TestInputParser_LoadScenarioFile_SingleRequest(t *testing.T) {
	path := writeFile(t, "solo.yaml", "gross_income: 42000\nmarital_status: single\n")
	file, err := NewInputParser().LoadScenarioFile(path)
	require.NoError(t, err)
	require.Len(t, file.Scenarios, 1)
	assert.Equal(t, "solo", file.Scenarios[0].Name)
}

func TestInputParser_ValidateScenarioFile(t *testing.T) {
	req := domain.ScenarioRequest{GrossIncome: decimal.NewFromInt(1), MaritalStatus: domain.MaritalSingle}
	ip := NewInputParser()

	dup := &ScenarioFile{Scenarios: []domain.NamedScenario{{Name: "a", Request: req}, {Name: "a", Request: req}}}
	assert.ErrorIs(t, ip.ValidateScenarioFile(dup), domain.ErrInvalidInput)

	badBase := &ScenarioFile{Base: "zzz", Scenarios: []domain.NamedScenario{{Name: "a", Request: req}}}
	assert.ErrorIs(t, ip.ValidateScenarioFile(badBase), domain.ErrInvalidInput)

	unnamed := &ScenarioFile{Scenarios: []domain.NamedScenario{{Request: req}}}
	assert.ErrorIs(t, ip.ValidateScenarioFile(unnamed), domain.ErrInvalidInput)
}
