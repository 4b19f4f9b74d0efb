package compare

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *ComparisonSet {
	base := ComparisonResult{
		ID:                  "base-id",
		ScenarioName:        "Base Scenario",
		GrossIncome:         decimal.NewFromInt(50000),
		PensionContribution: decimal.NewFromInt(2500),
		IncomeTax:           decimal.RequireFromString("5613.58"),
		NetIncome:           decimal.RequireFromString("31555.17"),
		ExceededThresholds:  []domain.BenefitName{domain.BenefitHealthcareAllowance, domain.BenefitHousingAllowance},
	}
	alt := ComparisonResult{
		ID:                  "alt-id",
		ScenarioName:        "Lump Sum",
		GrossIncome:         decimal.NewFromInt(50000),
		PensionContribution: decimal.NewFromInt(2500),
		LumpSumAmount:       decimal.NewFromInt(2500),
		IncomeTax:           decimal.RequireFromString("6209.83"),
		NetIncome:           decimal.RequireFromString("32915.17"),
	}
	alt = NewMetricsCalculator().CalculateComparison(alt, base)

	return &ComparisonSet{
		TaxYear:            2025,
		BaseScenarioName:   "Base Scenario",
		BaseResult:         &base,
		AlternativeResults: []ComparisonResult{alt},
		Recommendations:    []string{"Best net income: Lump Sum (€32915.17)"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out, err := (&TableFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	for _, want := range []string{
		"PENSION SCENARIO COMPARISON",
		"Tax Year:      2025",
		"Base Scenario (base)",
		"32915.17",
		"COMPARISON TO BASE",
		"Net Income:    +€1360.00 (4.3%)",
		"Income Tax:    +€596.25",
		"INSIGHTS",
		"• Best net income",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Gross Income:", "unchanged gross is omitted")
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil

	out, err := (&TableFormatter{}).Format(set)
	require.NoError(t, err)
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "INSIGHTS")
}

func TestTableFormatter_truncate(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "short", tf.truncate("short", 10))
	assert.Equal(t, "abcdefg...", tf.truncate("abcdefghijklmnop", 10))
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Scenario,Type"))
	assert.Contains(t, lines[1], "base-id,Base Scenario,base")
	assert.Contains(t, lines[1], "healthcare_allowance;housing_allowance")
	assert.Contains(t, lines[2], "alt-id,Lump Sum,alternative")
	assert.Contains(t, lines[2], "1360.00")
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(sampleSet())
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))

		var decoded struct {
			TaxYear            int    `json:"tax_year"`
			BaseScenarioName   string `json:"base_scenario_name"`
			AlternativeResults []struct {
				ScenarioName string `json:"scenario_name"`
				Deltas       struct {
					NetIncome struct {
						Direction string `json:"direction"`
					} `json:"net_income"`
				} `json:"deltas"`
			} `json:"alternative_results"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, 2025, decoded.TaxYear)
		assert.Equal(t, "Base Scenario", decoded.BaseScenarioName)
		require.Len(t, decoded.AlternativeResults, 1)
		assert.Equal(t, "up", decoded.AlternativeResults[0].Deltas.NetIncome.Direction)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	set := &ComparisonSet{Insights: []Insight{
		{Kind: InsightLowestTax, Scenario: "a", Value: decimal.NewFromInt(100), Message: "Lowest tax: a (€100.00)"},
	}}
	assert.Equal(t, []string{"Lowest tax: a (€100.00)"}, GenerateRecommendations(set))
}

func TestInsightMessage(t *testing.T) {
	msg := insightMessage(Insight{Kind: InsightMarginalPressure, Scenario: "a", Other: "b", Value: decimal.RequireFromString("52.5")})
	assert.Equal(t, "High marginal pressure between a and b: 52.5%", msg)
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name string
		want Formatter
	}{
		{"table", &TableFormatter{}},
		{"Console", &TableFormatter{}},
		{"json", &JSONFormatter{Pretty: true}},
		{"csv", &CSVFormatter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name)
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
			out, err := f.Format(sampleSet())
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	pretty, err := NewFormatter("json")
	require.NoError(t, err)
	assert.Equal(t, &JSONFormatter{Pretty: true}, pretty)

	_, err = NewFormatter("xml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, []string{"table", "json", "csv"}, FormatNames())
}
