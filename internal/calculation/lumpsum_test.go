package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLumpSum_SelectorScale(t *testing.T) {
	tests := []struct {
		selector string
		want     string
		remain   string
	}{
		{"0", "0", "2500"},
		{"2.5", "625", "1875"},
		{"5", "1250", "1250"},
		{"10", "2500", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			out, err := EvaluateLumpSum(request("50000", "5", tt.selector, 67), 67)
			require.NoError(t, err)
			assert.True(t, out.Eligible)
			assert.Equal(t, tt.want, out.LumpSumAmount.String())
			assert.Equal(t, tt.remain, out.RemainingAnnualPension.String())
		})
	}
}

func TestEvaluateLumpSum_ZeroBelowEligibilityAge(t *testing.T) {
	for age := 0; age < 67; age += 11 {
		out, err := EvaluateLumpSum(request("80000", "20", "10", age), 67)
		require.NoError(t, err)
		assert.False(t, out.Eligible)
		assert.True(t, out.LumpSumAmount.IsZero(), "age %d", age)
		assert.True(t, out.RemainingAnnualPension.Equal(out.AnnualPension))
		assert.True(t, out.MonthlyAfter.Equal(out.MonthlyBefore))
	}
}

func TestEvaluateLumpSum_EligibilityAgeFromConfig(t *testing.T) {
	out, err := EvaluateLumpSum(request("50000", "5", "10", 66), 65)
	require.NoError(t, err)
	assert.True(t, out.Eligible)
	assert.Equal(t, 65, out.EligibilityAge)
}

func TestEvaluateLumpSum_RejectsOutOfRange(t *testing.T) {
	_, err := EvaluateLumpSum(request("50000", "5", "10.5", 67), 67)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = EvaluateLumpSum(request("50000", "-1", "0", 67), 67)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLumpSumEvent(t *testing.T) {
	req := request("50000", "5", "0", 70)
	out, err := EvaluateLumpSum(req, 67)
	require.NoError(t, err)
	_, ok := lumpSumEvent(req, out)
	assert.False(t, ok, "no event without a requested withdrawal")

	req = request("50000", "5", "4", 70)
	out, err = EvaluateLumpSum(req, 67)
	require.NoError(t, err)
	ev, ok := lumpSumEvent(req, out)
	require.True(t, ok)
	assert.True(t, ev.Triggered)
	assert.Nil(t, ev.Crossed)
	assert.Equal(t, "67", ev.ThresholdValue.String())
	assert.Contains(t, ev.ImpactDescription, "1000.00")
}
