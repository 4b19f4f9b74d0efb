package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
)

func newTestModel(t *testing.T, calc calculation.Calculator) Model {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	if calc == nil {
		calc = calculation.NewEngine(cfg)
	}
	m := NewModel(calc, cfg, DefaultRequest())
	return run(t, m, m.Init())
}

// run executes cmd, feeding every produced message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	next, follow := m.Update(msg)
	return run(t, next.(Model), follow)
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = run(t, next.(Model), cmd)
	}
	return m
}

var (
	keyDown       = tea.KeyMsg{Type: tea.KeyDown}
	keyUp         = tea.KeyMsg{Type: tea.KeyUp}
	keyRight      = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft       = tea.KeyMsg{Type: tea.KeyLeft}
	keyShiftRight = tea.KeyMsg{Type: tea.KeyShiftRight}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitCalculates(t *testing.T) {
	m := newTestModel(t, nil)

	require.NoError(t, m.Err())
	require.NotNil(t, m.Result())
	assert.Equal(t, "31555.17", m.Result().NetIncome.StringFixed(2))
	assert.Contains(t, m.View(), "Net income")
	assert.Contains(t, m.View(), "Tax year 2025")
}

func TestModel_PreviewBeforeEligibilityAge(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, keyDown, keyDown)
	require.Equal(t, FieldLumpSum, m.Focus())
	for i := 0; i < 12; i++ {
		m = press(t, m, keyRight)
	}
	assert.True(t, m.Request().LumpSumPercentage.Equal(decimal.NewFromInt(10)), "selector clamps at 10")

	res := m.Result()
	require.NotNil(t, res)
	assert.True(t, res.LumpSumAmount.IsZero(), "engine applies nothing before 67")

	p := ComputePreview(m.Request(), res)
	assert.True(t, p.Active)
	assert.Equal(t, "2500.00", p.Requested.StringFixed(2))
	assert.Equal(t, 5, p.YearsToGo)
	assert.Contains(t, m.View(), "PREVIEW")
}

func TestModel_EligibleAgeAppliesLumpSum(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(t, m, keyDown, keyDown)
	for i := 0; i < 10; i++ {
		m = press(t, m, keyRight)
	}
	m = press(t, m, keyDown, keyShiftRight)
	require.Equal(t, FieldAge, m.Focus())
	assert.Equal(t, 72, m.Request().EffectiveAge())

	res := m.Result()
	require.NotNil(t, res)
	assert.Equal(t, "2500.00", res.LumpSumAmount.StringFixed(2))
	assert.Equal(t, "30415.17", res.NetIncome.StringFixed(2))
	assert.Equal(t, "32915.17", res.NetIncomeWithLumpSum.StringFixed(2))
	assert.False(t, ComputePreview(m.Request(), res).Active)
	assert.NotContains(t, m.View(), "PREVIEW")

	m = press(t, m, runes("t"))
	assert.Contains(t, m.View(), "lump_sum_eligibility")
}

func TestModel_FocusWraps(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, keyUp)
	assert.Equal(t, FieldMaritalStatus, m.Focus())
	m = press(t, m, keyDown)
	assert.Equal(t, FieldGrossIncome, m.Focus())
}

func TestModel_MaritalToggle(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, runes("m"))
	assert.Equal(t, domain.MaritalMarried, m.Request().MaritalStatus)
	assert.Equal(t, domain.MaritalMarried, m.Result().Request.MaritalStatus)

	m = press(t, m, keyUp, keyLeft)
	assert.Equal(t, domain.MaritalSingle, m.Request().MaritalStatus)
}

func TestModel_ResetRestoresInitialRequest(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, keyRight, keyRight, runes("r"))
	assert.True(t, m.Request().GrossIncome.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "31555.17", m.Result().NetIncome.StringFixed(2))
}

func TestModel_IgnoresStaleResults(t *testing.T) {
	m := newTestModel(t, nil)
	before := m.Result()

	next, _ := m.Update(CalculationCompleteMsg{Seq: m.seq - 1, Result: &domain.ScenarioResult{}})
	assert.Same(t, before, next.(Model).Result())
}

type unavailableCalculator struct{}

func (unavailableCalculator) Calculate(context.Context, domain.ScenarioRequest) (*domain.ScenarioResult, error) {
	return nil, domain.NewUpstreamUnavailable("calculate_scenario", "transport", errors.New("refused"))
}

func TestModel_UpstreamErrorMessage(t *testing.T) {
	m := newTestModel(t, unavailableCalculator{})
	assert.ErrorIs(t, m.Err(), domain.ErrUpstreamUnavailable)
	assert.Contains(t, m.View(), "try again later")

	assert.Contains(t, errorMessage(domain.NewInvalidInput("validate_request", "age", "out_of_range")), "Check your input")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, nil)
	assert.False(t, m.help.ShowAll)
	m = press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
}

func TestComputePreview(t *testing.T) {
	res := &domain.ScenarioResult{
		LumpSumAmount: decimal.Zero,
		LumpSum:       domain.LumpSumOutcome{AnnualPension: decimal.NewFromInt(3000), EligibilityAge: 67},
	}
	req := DefaultRequest()
	req.LumpSumPercentage = decimal.NewFromInt(5)

	p := ComputePreview(req, res)
	assert.True(t, p.Active)
	assert.Equal(t, "1500", p.Requested.String())
	assert.True(t, p.Effective.IsZero())

	req.LumpSumPercentage = decimal.Zero
	assert.False(t, ComputePreview(req, res).Active)
	assert.Equal(t, Preview{}, ComputePreview(req, nil))
}
